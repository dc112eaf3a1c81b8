package memory

import (
	"context"

	"github.com/casaluarma/luarma-api/internal/application/importer"
)

var _ importer.TxRunner = (*TxRunner)(nil)

// TxRunner simula una transacción: fn trabaja sobre una copia del Store y
// los cambios se publican solo si fn termina sin error.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre s.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios atados a la copia de trabajo.
func (r *TxRunner) Run(ctx context.Context, fn func(repos importer.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.s.clone()
	repos := importer.Repositories{
		Modalities: NewModalityRepo(work),
		Classes:    NewClassRepo(work),
		Payments:   NewPaymentRepo(work),
		Rentals:    NewRentalRepo(work),
		Costs:      NewCostRepo(work),
	}
	if err := fn(repos); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.modalities = work.modalities
	r.s.classes = work.classes
	r.s.payments = work.payments
	r.s.rentals = work.rentals
	r.s.costs = work.costs
	return nil
}

func (s *Store) clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := NewStore()
	for k, v := range s.modalities {
		c.modalities[k] = v
	}
	for k, v := range s.classes {
		c.classes[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.rentals {
		c.rentals[k] = v
	}
	for k, v := range s.costs {
		c.costs[k] = v
	}
	return c
}
