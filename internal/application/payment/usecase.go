// Package payment registra pagos de alumnos. Al registrar se copia el pago
// por sesión al profesor vigente en la modalidad de la clase; esa copia es la
// que usa el desglose de pago a profesores.
package payment

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casaluarma/luarma-api/internal/application/dto"
	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	domfinance "github.com/casaluarma/luarma-api/internal/domain/finance"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

// UseCase registra pagos.
type UseCase struct {
	payments repository.PaymentRepository
	classes  repository.ClassRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewUseCase construye el caso de uso. now puede ser nil (usa time.Now).
func NewUseCase(payments repository.PaymentRepository, classes repository.ClassRepository, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &UseCase{payments: payments, classes: classes, validate: v, now: now}
}

// Register valida la solicitud, resuelve la clase y su modalidad y guarda el pago.
//
// Valores por defecto: sessions 1, amount = precio de la modalidad × sessions,
// status "pending", paymentDate ahora. Retorna domain.ErrInvalidInput si la
// solicitud no es válida y domain.ErrNotFound si la clase no existe.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterPaymentRequest) (*dto.PaymentResponse, error) {
	in.ClassID = strings.TrimSpace(in.ClassID)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Method = strings.TrimSpace(in.Method)
	if err := uc.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describe(err))
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount no puede ser negativo", domain.ErrInvalidInput)
	}

	class, err := uc.classes.GetByIDWithModality(ctx, in.ClassID)
	if err != nil {
		return nil, fmt.Errorf("payment: clase: %w", err)
	}
	if class == nil {
		return nil, fmt.Errorf("payment: clase %s: %w", in.ClassID, domain.ErrNotFound)
	}

	sessions := in.Sessions
	if sessions <= 0 {
		sessions = 1
	}

	var price, teacherPay decimal.Decimal
	if class.Modality != nil {
		price = domfinance.OrZero(class.Modality.Price)
		teacherPay = domfinance.OrZero(class.Modality.TeacherPay)
	}

	amount := price.Mul(decimal.NewFromInt(int64(sessions)))
	if in.Amount != nil {
		amount = *in.Amount
	}

	status := entity.PaymentStatusPending
	if in.Status != "" {
		status = entity.PaymentStatus(in.Status)
	}

	now := uc.now()
	paymentDate := now
	if in.PaymentDate != nil && !in.PaymentDate.IsZero() {
		paymentDate = *in.PaymentDate
	}

	p := &entity.Payment{
		ID:                   uuid.New().String(),
		ClassID:              class.ID,
		StudentID:            in.StudentID,
		ModalityID:           class.ModalityID,
		Amount:               decimal.NewNullDecimal(amount),
		Method:               in.Method,
		PaymentDate:          paymentDate,
		Status:               status,
		Sessions:             sessions,
		TeacherPayPerSession: decimal.NewNullDecimal(teacherPay),
		CreatedAt:            now,
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("payment: guardar: %w", err)
	}
	return toResponse(p), nil
}

func toResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:                   p.ID,
		ClassID:              p.ClassID,
		StudentID:            p.StudentID,
		ModalityID:           p.ModalityID,
		Amount:               domfinance.OrZero(p.Amount),
		Method:               p.Method,
		PaymentDate:          p.PaymentDate,
		Status:               string(p.Status),
		Sessions:             p.Sessions,
		TeacherPayPerSession: domfinance.OrZero(p.TeacherPayPerSession),
		CreatedAt:            p.CreatedAt,
	}
}

// describe resume los errores del validador como "campo: motivo; ...".
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, e.Field()+": "+message(e))
	}
	return strings.Join(parts, "; ")
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es requerido"
	case "max":
		if e.Kind() == reflect.String {
			return "máximo " + e.Param() + " caracteres"
		}
		return "máximo " + e.Param()
	case "min":
		return "mínimo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	default:
		return "valor inválido"
	}
}
