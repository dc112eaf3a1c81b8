package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPaymentRequest entrada de POST /api/payments.
type RegisterPaymentRequest struct {
	ClassID     string           `json:"classId" validate:"required"`
	StudentID   string           `json:"studentId" validate:"required"`
	Amount      *decimal.Decimal `json:"amount"`
	Method      string           `json:"method" validate:"required,max=50"`
	PaymentDate *time.Time       `json:"paymentDate"`
	Status      string           `json:"status" validate:"omitempty,oneof=pending paid"`
	Sessions    int              `json:"sessions" validate:"omitempty,min=1,max=100"`
}

// PaymentResponse salida de un pago registrado.
type PaymentResponse struct {
	ID                   string          `json:"id"`
	ClassID              string          `json:"classId"`
	StudentID            string          `json:"studentId"`
	ModalityID           string          `json:"modalityId,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Method               string          `json:"method"`
	PaymentDate          time.Time       `json:"paymentDate"`
	Status               string          `json:"status"`
	Sessions             int             `json:"sessions"`
	TeacherPayPerSession decimal.Decimal `json:"teacherPayPerSession"`
	CreatedAt            time.Time       `json:"createdAt"`
}
