package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

// Store guarda las colecciones en memoria. Es seguro para uso concurrente;
// los repositorios devuelven copias, nunca punteros a los datos internos.
type Store struct {
	mu         sync.RWMutex
	modalities map[string]entity.Modality
	classes    map[string]entity.Class
	payments   map[string]entity.Payment
	rentals    map[string]entity.Rental
	costs      map[string]entity.Cost
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		modalities: make(map[string]entity.Modality),
		classes:    make(map[string]entity.Class),
		payments:   make(map[string]entity.Payment),
		rentals:    make(map[string]entity.Rental),
		costs:      make(map[string]entity.Cost),
	}
}

// NewStoreFromDataset crea un Store con los documentos del dataset.
// Un id repetido dentro de una colección reemplaza al anterior.
func NewStoreFromDataset(ds *entity.Dataset) *Store {
	s := NewStore()
	if ds == nil {
		return s
	}
	for _, m := range ds.Modalities {
		s.modalities[m.ID] = *m
	}
	for _, c := range ds.Classes {
		cp := *c
		cp.Modality = nil
		s.classes[c.ID] = cp
	}
	for _, p := range ds.Payments {
		s.payments[p.ID] = *p
	}
	for _, r := range ds.Rentals {
		s.rentals[r.ID] = *r
	}
	for _, c := range ds.Costs {
		s.costs[c.ID] = *c
	}
	return s
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// PaymentRepo implementa repository.PaymentRepository.
type PaymentRepo struct{ s *Store }

// NewPaymentRepo construye el repositorio de pagos sobre s.
func NewPaymentRepo(s *Store) *PaymentRepo { return &PaymentRepo{s: s} }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Payment, 0)
	for _, p := range r.s.payments {
		if p.Status != entity.PaymentStatusPaid {
			continue
		}
		if p.PaymentDate.Before(start) || !p.PaymentDate.Before(end) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out, nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.s.payments[p.ID]; exists {
		return fmt.Errorf("memory.PaymentRepo.Create: %w", domain.ErrDuplicate)
	}
	r.s.payments[p.ID] = *p
	return nil
}

// ── Clases y modalidades ──────────────────────────────────────────────────────

// ClassRepo implementa repository.ClassRepository.
type ClassRepo struct{ s *Store }

// NewClassRepo construye el repositorio de clases sobre s.
func NewClassRepo(s *Store) *ClassRepo { return &ClassRepo{s: s} }

var _ repository.ClassRepository = (*ClassRepo)(nil)

func (r *ClassRepo) ListByIDsWithModality(ctx context.Context, ids []string) ([]*entity.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Class, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if c, ok := r.s.classWithModality(id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ClassRepo) GetByIDWithModality(ctx context.Context, id string) (*entity.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.classWithModality(id)
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *ClassRepo) Create(ctx context.Context, c *entity.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := r.s.classes[c.ID]; exists {
		return fmt.Errorf("memory.ClassRepo.Create: %w", domain.ErrDuplicate)
	}
	cp := *c
	cp.Modality = nil
	r.s.classes[c.ID] = cp
	return nil
}

// classWithModality requiere el lock de lectura tomado.
func (s *Store) classWithModality(id string) (*entity.Class, bool) {
	c, ok := s.classes[id]
	if !ok {
		return nil, false
	}
	if m, ok := s.modalities[c.ModalityID]; ok {
		c.Modality = &m
	}
	return &c, true
}

// ModalityRepo implementa repository.ModalityRepository.
type ModalityRepo struct{ s *Store }

// NewModalityRepo construye el repositorio de modalidades sobre s.
func NewModalityRepo(s *Store) *ModalityRepo { return &ModalityRepo{s: s} }

var _ repository.ModalityRepository = (*ModalityRepo)(nil)

func (r *ModalityRepo) Create(ctx context.Context, m *entity.Modality) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, exists := r.s.modalities[m.ID]; exists {
		return fmt.Errorf("memory.ModalityRepo.Create: %w", domain.ErrDuplicate)
	}
	r.s.modalities[m.ID] = *m
	return nil
}

// ── Arriendos ─────────────────────────────────────────────────────────────────

// RentalRepo implementa repository.RentalRepository.
type RentalRepo struct{ s *Store }

// NewRentalRepo construye el repositorio de arriendos sobre s.
func NewRentalRepo(s *Store) *RentalRepo { return &RentalRepo{s: s} }

var _ repository.RentalRepository = (*RentalRepo)(nil)

func (r *RentalRepo) ListAll(ctx context.Context) ([]*entity.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Rental, 0, len(r.s.rentals))
	for _, rt := range r.s.rentals {
		cp := rt
		cp.Attrs = copyAttrs(rt.Attrs)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RentalRepo) Create(ctx context.Context, rt *entity.Rental) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	if _, exists := r.s.rentals[rt.ID]; exists {
		return fmt.Errorf("memory.RentalRepo.Create: %w", domain.ErrDuplicate)
	}
	cp := *rt
	cp.Attrs = copyAttrs(rt.Attrs)
	r.s.rentals[rt.ID] = cp
	return nil
}

func copyAttrs(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ── Costos ────────────────────────────────────────────────────────────────────

// CostRepo implementa repository.CostRepository.
type CostRepo struct{ s *Store }

// NewCostRepo construye el repositorio de costos sobre s.
func NewCostRepo(s *Store) *CostRepo { return &CostRepo{s: s} }

var _ repository.CostRepository = (*CostRepo)(nil)

func (r *CostRepo) ListByRecurrence(ctx context.Context, recurrence string) ([]*entity.Cost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Cost, 0)
	for _, c := range r.s.costs {
		if c.Recurrence == nil || *c.Recurrence != recurrence {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CostRepo) ListOneOffBetween(ctx context.Context, start, end time.Time) ([]*entity.Cost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Cost, 0)
	for _, c := range r.s.costs {
		if c.Recurrence != nil || c.DateIncurred == nil {
			continue
		}
		if c.DateIncurred.Before(start) || !c.DateIncurred.Before(end) {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CostRepo) Create(ctx context.Context, c *entity.Cost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := r.s.costs[c.ID]; exists {
		return fmt.Errorf("memory.CostRepo.Create: %w", domain.ErrDuplicate)
	}
	r.s.costs[c.ID] = *c
	return nil
}
