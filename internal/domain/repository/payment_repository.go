package repository

import (
	"context"
	"time"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos de alumnos.
type PaymentRepository interface {
	// ListPaidBetween devuelve los pagos con status "paid" cuya fecha de pago
	// cae en [start, end).
	ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Payment, error)
	Create(ctx context.Context, payment *entity.Payment) error
}
