package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/casaluarma/luarma-api/internal/application/dto"
	"github.com/casaluarma/luarma-api/internal/application/payment"
	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/pkg/logger"
)

// PaymentHandler maneja el registro de pagos de alumnos.
type PaymentHandler struct {
	uc  *payment.UseCase
	log *logger.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payment.UseCase, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// Register godoc
// @Summary      Registrar pago
// @Description  Copia en el pago el valor por sesión al profesor vigente en la modalidad de la clase.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPaymentRequest  true  "Datos del pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "CLASS_NOT_FOUND", Message: "clase no encontrada"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "pago duplicado"})
		}
		h.log.Error().Err(err).Str("class_id", in.ClassID).Msg("register payment")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Error al registrar el pago"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
