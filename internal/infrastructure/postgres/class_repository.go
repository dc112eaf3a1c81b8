package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

var (
	_ repository.ClassRepository    = (*ClassRepo)(nil)
	_ repository.ModalityRepository = (*ModalityRepo)(nil)
)

// ClassRepo implementación del puerto ClassRepository sobre PostgreSQL.
type ClassRepo struct {
	q Querier
}

// NewClassRepository construye el adaptador de persistencia para clases.
func NewClassRepository(q Querier) *ClassRepo {
	return &ClassRepo{q: q}
}

// La modalidad se resuelve con LEFT JOIN: una clase con modality_id huérfano
// se devuelve con Modality == nil.
const classWithModalitySelect = `
	SELECT c.id, c.title, c.modality_id, c.professor, c.schedule, c.space_id, c.is_recurring,
	       m.id, m.name, m.price, m.teacher_pay
	FROM classes c
	LEFT JOIN modalities m ON m.id = c.modality_id`

// ListByIDsWithModality devuelve las clases existentes entre ids, con su modalidad.
func (r *ClassRepo) ListByIDsWithModality(ctx context.Context, ids []string) ([]*entity.Class, error) {
	if len(ids) == 0 {
		return []*entity.Class{}, nil
	}
	rows, err := r.q.Query(ctx, classWithModalitySelect+` WHERE c.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("classes.ListByIDsWithModality: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Class, 0, len(ids))
	for rows.Next() {
		c, err := scanClassWithModality(rows)
		if err != nil {
			return nil, fmt.Errorf("classes.ListByIDsWithModality scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("classes.ListByIDsWithModality: %w", err)
	}
	return out, nil
}

// GetByIDWithModality obtiene una clase por ID. Retorna nil, nil si no existe.
func (r *ClassRepo) GetByIDWithModality(ctx context.Context, id string) (*entity.Class, error) {
	c, err := scanClassWithModality(r.q.QueryRow(ctx, classWithModalitySelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

// Create persiste una clase nueva.
func (r *ClassRepo) Create(ctx context.Context, c *entity.Class) error {
	query := `
		INSERT INTO classes (id, title, modality_id, professor, schedule, space_id, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var schedule *time.Time
	if !c.Schedule.IsZero() {
		schedule = &c.Schedule
	}
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Title, nullIfEmpty(c.ModalityID), c.Professor, schedule, nullIfEmpty(c.SpaceID), c.IsRecurring,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

func scanClassWithModality(row pgx.Row) (*entity.Class, error) {
	var (
		c          entity.Class
		modalityID *string
		schedule   *time.Time
		spaceID    *string
		mID        *string
		mName      *string
		mPrice     decimal.NullDecimal
		mPay       decimal.NullDecimal
	)
	if err := row.Scan(
		&c.ID, &c.Title, &modalityID, &c.Professor, &schedule, &spaceID, &c.IsRecurring,
		&mID, &mName, &mPrice, &mPay,
	); err != nil {
		return nil, err
	}
	c.ModalityID = derefString(modalityID)
	c.SpaceID = derefString(spaceID)
	if schedule != nil {
		c.Schedule = *schedule
	}
	if mID != nil {
		c.Modality = &entity.Modality{
			ID:         *mID,
			Name:       derefString(mName),
			Price:      mPrice,
			TeacherPay: mPay,
		}
	}
	return &c, nil
}

// ModalityRepo implementación del puerto ModalityRepository sobre PostgreSQL.
type ModalityRepo struct {
	q Querier
}

// NewModalityRepository construye el adaptador de persistencia para modalidades.
func NewModalityRepository(q Querier) *ModalityRepo {
	return &ModalityRepo{q: q}
}

// Create persiste una modalidad nueva.
func (r *ModalityRepo) Create(ctx context.Context, m *entity.Modality) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO modalities (id, name, price, teacher_pay) VALUES ($1, $2, $3, $4)`,
		m.ID, m.Name, m.Price, m.TeacherPay,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert modality: %w", err)
	}
	return nil
}
