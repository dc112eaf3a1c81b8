// Package importer carga un export completo de colecciones en el almacenamiento.
package importer

import (
	"context"
	"fmt"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
)

// Result cantidad de documentos importados por colección.
type Result struct {
	Modalities int
	Classes    int
	Payments   int
	Rentals    int
	Costs      int
}

// Total suma todas las colecciones.
func (r Result) Total() int {
	return r.Modalities + r.Classes + r.Payments + r.Rentals + r.Costs
}

// UseCase importa un Dataset en una sola transacción.
type UseCase struct {
	tx TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx TxRunner) *UseCase {
	return &UseCase{tx: tx}
}

// Import guarda todas las colecciones del dataset. Cualquier error (incluido
// un id repetido) revierte la importación completa.
func (uc *UseCase) Import(ctx context.Context, ds *entity.Dataset) (Result, error) {
	var res Result
	if ds == nil {
		return res, nil
	}
	err := uc.tx.Run(ctx, func(repos Repositories) error {
		for _, m := range ds.Modalities {
			if err := repos.Modalities.Create(ctx, m); err != nil {
				return fmt.Errorf("modalidad %s: %w", m.ID, err)
			}
			res.Modalities++
		}
		for _, c := range ds.Classes {
			if err := repos.Classes.Create(ctx, c); err != nil {
				return fmt.Errorf("clase %s: %w", c.ID, err)
			}
			res.Classes++
		}
		for _, p := range ds.Payments {
			if err := repos.Payments.Create(ctx, p); err != nil {
				return fmt.Errorf("pago %s: %w", p.ID, err)
			}
			res.Payments++
		}
		for _, r := range ds.Rentals {
			if err := repos.Rentals.Create(ctx, r); err != nil {
				return fmt.Errorf("arriendo %s: %w", r.ID, err)
			}
			res.Rentals++
		}
		for _, c := range ds.Costs {
			if err := repos.Costs.Create(ctx, c); err != nil {
				return fmt.Errorf("costo %s: %w", c.ID, err)
			}
			res.Costs++
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("importer: %w", err)
	}
	return res, nil
}
