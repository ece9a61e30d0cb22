package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-dispatch/internal/administrasi/controllers"
)

func RegisterPoliklinikRoutes(api *echo.Group, pc *controllers.PoliklinikController) {
	api.GET("/poliklinik", pc.GetPoliklinikList)
}
