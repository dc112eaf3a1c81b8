package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de persistencia para pagos. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, class_id, student_id, modality_id, amount, method, payment_date, status, sessions, teacher_pay_per_session, created_at`

// ListPaidBetween devuelve los pagos "paid" con payment_date en [start, end).
func (r *PaymentRepo) ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = $1 AND payment_date >= $2 AND payment_date < $3
		ORDER BY payment_date`
	rows, err := r.q.Query(ctx, query, string(entity.PaymentStatusPaid), start, end)
	if err != nil {
		return nil, fmt.Errorf("payments.ListPaidBetween: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("payments.ListPaidBetween scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payments.ListPaidBetween: %w", err)
	}
	return out, nil
}

// Create persiste un pago nuevo.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var sessions *int32
	if p.Sessions > 0 {
		s := int32(p.Sessions)
		sessions = &s
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.q.Exec(ctx, query,
		p.ID, p.ClassID, p.StudentID, nullIfEmpty(p.ModalityID), p.Amount, p.Method,
		p.PaymentDate, string(p.Status), sessions, p.TeacherPayPerSession, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var (
		p          entity.Payment
		modalityID *string
		status     string
		sessions   *int32
	)
	if err := row.Scan(
		&p.ID, &p.ClassID, &p.StudentID, &modalityID, &p.Amount, &p.Method,
		&p.PaymentDate, &status, &sessions, &p.TeacherPayPerSession, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.ModalityID = derefString(modalityID)
	p.Status = entity.PaymentStatus(status)
	if sessions != nil {
		p.Sessions = int(*sessions)
	}
	return &p, nil
}
