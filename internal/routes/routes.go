package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminControllers "github.com/c14220110/poliklinik-dispatch/internal/administrasi/controllers"
	adminRoutes "github.com/c14220110/poliklinik-dispatch/internal/administrasi/routes"
	antrianControllers "github.com/c14220110/poliklinik-dispatch/internal/antrian/controllers"
	antrianRoutes "github.com/c14220110/poliklinik-dispatch/internal/antrian/routes"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/services"
	"github.com/c14220110/poliklinik-dispatch/ws"
)

type Dependencies struct {
	Manager  *services.DispatchManager
	Hub      *ws.Hub
	Gatherer prometheus.Gatherer
}

// Init wires every controller onto e.
func Init(e *echo.Echo, deps Dependencies) {
	pasienController := adminControllers.NewPasienController(deps.Manager, deps.Hub)
	poliklinikController := adminControllers.NewPoliklinikController(deps.Manager)
	antrianController := antrianControllers.NewAntrianController(deps.Manager, deps.Hub)

	api := e.Group("/api")
	adminRoutes.RegisterPoliklinikRoutes(api, poliklinikController)
	adminRoutes.RegisterPasienRoutes(api, pasienController)
	antrianRoutes.RegisterAntrianRoutes(api, antrianController)

	e.GET("/ws", ws.ServeWS(deps.Hub))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}
