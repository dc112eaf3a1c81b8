package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de cobro de un pago de alumno.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment representa el pago de un alumno por una o más sesiones de una clase.
type Payment struct {
	ID          string
	ClassID     string
	StudentID   string
	ModalityID  string // opcional; copiado de la clase al registrar
	Amount      decimal.NullDecimal
	Method      string // efectivo, transferencia, ...
	PaymentDate time.Time
	Status      PaymentStatus
	Sessions    int // 0 = no informado (se cuenta como 1)

	// TeacherPayPerSession es una copia del pago al profesor de la modalidad
	// tomada al momento de registrar el pago.
	TeacherPayPerSession decimal.NullDecimal

	CreatedAt time.Time
}

// SessionsOrOne devuelve la cantidad de sesiones, con mínimo implícito de 1.
func (p Payment) SessionsOrOne() int {
	if p.Sessions <= 0 {
		return 1
	}
	return p.Sessions
}
