package http

import (
	"github.com/gofiber/fiber/v2"

	appavail "github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AvailabilityUC *appavail.UseCase
	Log            *logger.Logger
	MetricsEnabled bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID())
	app.Use(AccessLog(deps.Log))
	if deps.MetricsEnabled {
		app.Use(MetricsMiddleware())
		app.Get("/metrics", MetricsHandler())
	}

	api := app.Group("/api")

	availability := api.Group("/availability")
	handler := NewAvailabilityHandler(deps.AvailabilityUC)
	availability.Post("/calculate", handler.Calculate)
	availability.Get("/calculate_all", handler.CalculateAll)
	availability.Get("/debug/:teil", handler.Debug)
}
