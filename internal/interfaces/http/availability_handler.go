package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appavail "github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/internal/application/dto"
	"github.com/jhoicas/bestands-api/internal/domain"
)

// AvailabilityHandler maneja las peticiones HTTP del cálculo de
// disponibilidad.
type AvailabilityHandler struct {
	uc *appavail.UseCase
}

// NewAvailabilityHandler construye el handler.
func NewAvailabilityHandler(uc *appavail.UseCase) *AvailabilityHandler {
	return &AvailabilityHandler{uc: uc}
}

// Calculate godoc
// @Summary      Calcular disponibilidad de las partes pedidas
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CalculateRequest  true  "Lista de identificadores de parte (articles)"
// @Success      200   {array}   dto.AvailabilityDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/availability/calculate [post]
func (h *AvailabilityHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Articles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "articles no puede estar vacío"})
	}

	results, err := h.uc.Calculate(c.Context(), in.Articles)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromAvailabilities(results))
}

// CalculateAll godoc
// @Summary      Calcular disponibilidad de todas las partes conocidas
// @Tags         availability
// @Produce      json
// @Success      200  {array}   dto.AvailabilityDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/availability/calculate_all [get]
func (h *AvailabilityHandler) CalculateAll(c *fiber.Ctx) error {
	results, err := h.uc.CalculateAll(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromAvailabilities(results))
}

// Debug godoc
// @Summary      Expediente de depuración de una parte
// @Description  Reejecuta el pipeline para una sola parte y expone la ventana
//
//	resuelta, el veredicto de cada movimiento y las filas crudas de
//	cada fuente. Una parte desconocida devuelve ceros, no error.
//
// @Tags         availability
// @Produce      json
// @Param        teil  path  string  true  "Identificador de parte (crudo; se canonicaliza)"
// @Success      200  {object}  dto.DebugResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/availability/debug/{teil} [get]
func (h *AvailabilityHandler) Debug(c *fiber.Ctx) error {
	inspection, err := h.uc.Debug(c.Context(), c.Params("teil"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromInspection(inspection))
}

// mapError traduce errores de dominio a estado HTTP. Solo la caída de una
// fuente llega al cliente como fallo; todo lo demás se absorbe antes.
func mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_UNAVAILABLE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
