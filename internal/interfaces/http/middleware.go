package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/bestands-api/pkg/logger"
)

// RequestID asigna un identificador único a cada petición (header
// X-Request-Id) para correlacionar logs.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	})
}

// AccessLog registra cada petición terminada con método, ruta, estado,
// duración y el request id.
func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)

		log.Info().
			Str("request_id", requestID).
			Str("metodo", c.Method()).
			Str("ruta", c.Path()).
			Int("estado", c.Response().StatusCode()).
			Dur("duracion", time.Since(start)).
			Msg("petición atendida")
		return err
	}
}
