package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-dispatch/internal/administrasi/controllers"
)

// RegisterPasienRoutes mounts the front-desk registration endpoints on /api.
func RegisterPasienRoutes(api *echo.Group, pc *controllers.PasienController) {
	pasien := api.Group("/pasien")
	pasien.POST("/register", pc.RegisterPasien)
	pasien.GET("", pc.ListPasien)
}
