package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bestands_api_http_requests_total",
		Help: "Peticiones HTTP atendidas, por método, ruta y estado.",
	},
	[]string{"method", "path", "status"},
)

// MetricsMiddleware cuenta cada petición atendida. La ruta es la plantilla
// registrada (no la URL cruda) para acotar la cardinalidad.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		httpRequestsTotal.WithLabelValues(
			c.Method(),
			path,
			strconv.Itoa(c.Response().StatusCode()),
		).Inc()
		return err
	}
}

// MetricsHandler expone el endpoint /metrics de Prometheus.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
