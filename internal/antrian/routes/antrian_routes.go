package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-dispatch/internal/antrian/controllers"
)

func RegisterAntrianRoutes(api *echo.Group, ac *controllers.AntrianController) {
	antrian := api.Group("/antrian")
	antrian.POST("/assign", ac.AssignPasien)
	antrian.POST("/call", ac.CallNextPasien)
	antrian.GET("/status", ac.GetStatusAntrian)
	antrian.GET("/:queue/waiting", ac.GetWaitingList)
}
