package repository

import (
	"context"
	"time"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
)

// CostRepository define el puerto de persistencia para costos operativos.
type CostRepository interface {
	// ListByRecurrence devuelve los costos con la recurrencia dada, sin filtrar por fecha.
	ListByRecurrence(ctx context.Context, recurrence string) ([]*entity.Cost, error)
	// ListOneOffBetween devuelve los costos sin recurrencia con date_incurred en [start, end).
	ListOneOffBetween(ctx context.Context, start, end time.Time) ([]*entity.Cost, error)
	Create(ctx context.Context, cost *entity.Cost) error
}
