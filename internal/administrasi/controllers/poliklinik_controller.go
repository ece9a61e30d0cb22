package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-dispatch/internal/antrian/services"
	"github.com/c14220110/poliklinik-dispatch/internal/common/response"
)

type PoliklinikController struct {
	Manager *services.DispatchManager
}

func NewPoliklinikController(manager *services.DispatchManager) *PoliklinikController {
	return &PoliklinikController{Manager: manager}
}

// GetPoliklinikList returns the specialty catalog in configuration order.
func (pc *PoliklinikController) GetPoliklinikList(c echo.Context) error {
	return response.JSON(c, http.StatusOK, "Poliklinik list retrieved successfully", pc.Manager.ListSpecialties())
}
