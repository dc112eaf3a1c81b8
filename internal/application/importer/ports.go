package importer

import (
	"context"

	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Modalities repository.ModalityRepository
	Classes    repository.ClassRepository
	Payments   repository.PaymentRepository
	Rentals    repository.RentalRepository
	Costs      repository.CostRepository
}

// TxRunner ejecuta fn dentro de una transacción; si fn retorna error no se guarda nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
