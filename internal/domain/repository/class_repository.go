package repository

import (
	"context"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
)

// ClassRepository define el puerto de lectura de clases con su modalidad resuelta.
type ClassRepository interface {
	// ListByIDsWithModality devuelve las clases existentes entre los ids dados.
	// Los ids sin clase simplemente no aparecen en el resultado.
	ListByIDsWithModality(ctx context.Context, ids []string) ([]*entity.Class, error)
	// GetByIDWithModality devuelve nil, nil si la clase no existe.
	GetByIDWithModality(ctx context.Context, id string) (*entity.Class, error)
	Create(ctx context.Context, class *entity.Class) error
}

// ModalityRepository define el puerto de persistencia para modalidades.
type ModalityRepository interface {
	Create(ctx context.Context, modality *entity.Modality) error
}
