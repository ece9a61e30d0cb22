package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-dispatch/internal/administrasi/models"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/services"
	"github.com/c14220110/poliklinik-dispatch/internal/common/response"
	"github.com/c14220110/poliklinik-dispatch/ws"
)

type PasienController struct {
	Manager *services.DispatchManager
	Hub     ws.Publisher
}

func NewPasienController(manager *services.DispatchManager, hub ws.Publisher) *PasienController {
	return &PasienController{Manager: manager, Hub: hub}
}

// RegisterPasien validates the front-desk form and registers the patient.
func (pc *PasienController) RegisterPasien(c echo.Context) error {
	var req models.RegisterPasienRequest
	if err := c.Bind(&req); err != nil {
		return response.JSON(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	id := strings.TrimSpace(req.ID)
	fullName := strings.TrimSpace(req.FullName)
	if id == "" || fullName == "" {
		return response.JSON(c, http.StatusBadRequest, "id and full_name are required", nil)
	}
	if req.Age == nil || *req.Age < 0 {
		return response.JSON(c, http.StatusBadRequest, "age must be a non-negative integer", nil)
	}

	p := models.NewPatient(id, fullName, *req.Age, strings.TrimSpace(req.VisitReason))
	if err := pc.Manager.Register(p); err != nil {
		if errors.Is(err, services.ErrDuplicatePatient) {
			return response.JSON(c, http.StatusConflict, "A patient with ID "+id+" is already registered", nil)
		}
		return response.JSON(c, http.StatusInternalServerError, "Failed to register patient: "+err.Error(), nil)
	}

	pc.Hub.Publish(ws.EventPasienRegistered, p)
	return response.JSON(c, http.StatusCreated, "Patient "+p.DisplayName()+" registered successfully", p)
}

func (pc *PasienController) ListPasien(c echo.Context) error {
	return response.JSON(c, http.StatusOK, "Patients retrieved successfully", pc.Manager.ListRegisteredPatients())
}
