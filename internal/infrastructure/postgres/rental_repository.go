package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

var _ repository.RentalRepository = (*RentalRepo)(nil)

// RentalRepo implementación del puerto RentalRepository sobre PostgreSQL.
// Los atributos crudos del arriendo viven en la columna JSONB attrs.
type RentalRepo struct {
	q Querier
}

// NewRentalRepository construye el adaptador de persistencia para arriendos.
func NewRentalRepository(q Querier) *RentalRepo {
	return &RentalRepo{q: q}
}

// ListAll devuelve todos los arriendos. La fecha se filtra en la aplicación.
func (r *RentalRepo) ListAll(ctx context.Context) ([]*entity.Rental, error) {
	query := `
		SELECT id, space_id, tenant_name, activity_name, hours, created_at, attrs
		FROM rentals
		ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rentals.ListAll: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Rental, 0)
	for rows.Next() {
		var (
			rt        entity.Rental
			spaceID   *string
			createdAt *time.Time
		)
		if err := rows.Scan(&rt.ID, &spaceID, &rt.TenantName, &rt.ActivityName, &rt.Hours, &createdAt, &rt.Attrs); err != nil {
			return nil, fmt.Errorf("rentals.ListAll scan: %w", err)
		}
		rt.SpaceID = derefString(spaceID)
		if createdAt != nil {
			rt.CreatedAt = *createdAt
		}
		out = append(out, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rentals.ListAll: %w", err)
	}
	return out, nil
}

// Create persiste un arriendo nuevo con sus atributos crudos.
func (r *RentalRepo) Create(ctx context.Context, rt *entity.Rental) error {
	query := `
		INSERT INTO rentals (id, space_id, tenant_name, activity_name, hours, created_at, attrs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var createdAt *time.Time
	if !rt.CreatedAt.IsZero() {
		createdAt = &rt.CreatedAt
	}
	attrs := rt.Attrs
	if attrs == nil {
		attrs = map[string]any{}
	}
	_, err := r.q.Exec(ctx, query,
		rt.ID, nullIfEmpty(rt.SpaceID), rt.TenantName, rt.ActivityName, rt.Hours, createdAt, attrs,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}
