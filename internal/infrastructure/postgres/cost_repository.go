package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

var _ repository.CostRepository = (*CostRepo)(nil)

// CostRepo implementación del puerto CostRepository sobre PostgreSQL.
type CostRepo struct {
	q Querier
}

// NewCostRepository construye el adaptador de persistencia para costos.
func NewCostRepository(q Querier) *CostRepo {
	return &CostRepo{q: q}
}

const costColumns = `id, name, amount, type, recurrence, date_incurred`

// ListByRecurrence devuelve los costos con la recurrencia dada (sin filtro de fecha).
func (r *CostRepo) ListByRecurrence(ctx context.Context, recurrence string) ([]*entity.Cost, error) {
	query := `SELECT ` + costColumns + ` FROM costs WHERE recurrence = $1 ORDER BY id`
	return r.list(ctx, "costs.ListByRecurrence", query, recurrence)
}

// ListOneOffBetween devuelve los costos sin recurrencia con date_incurred en [start, end).
func (r *CostRepo) ListOneOffBetween(ctx context.Context, start, end time.Time) ([]*entity.Cost, error) {
	query := `
		SELECT ` + costColumns + `
		FROM costs
		WHERE recurrence IS NULL AND date_incurred >= $1 AND date_incurred < $2
		ORDER BY date_incurred`
	return r.list(ctx, "costs.ListOneOffBetween", query, start, end)
}

func (r *CostRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Cost, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*entity.Cost, 0)
	for rows.Next() {
		var c entity.Cost
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.Type, &c.Recurrence, &c.DateIncurred); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Create persiste un costo nuevo.
func (r *CostRepo) Create(ctx context.Context, c *entity.Cost) error {
	query := `INSERT INTO costs (` + costColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Amount, c.Type, c.Recurrence, c.DateIncurred)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cost: %w", err)
	}
	return nil
}
