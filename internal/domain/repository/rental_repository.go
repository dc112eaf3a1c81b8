package repository

import (
	"context"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
)

// RentalRepository define el puerto de persistencia para arriendos.
// ListAll no filtra por fecha: la fecha del arriendo puede estar guardada bajo
// distintos campos y se resuelve en la aplicación.
type RentalRepository interface {
	ListAll(ctx context.Context) ([]*entity.Rental, error)
	Create(ctx context.Context, rental *entity.Rental) error
}
