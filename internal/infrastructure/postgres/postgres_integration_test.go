//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
	"github.com/casaluarma/luarma-api/internal/application/importer"
	"github.com/casaluarma/luarma-api/internal/domain"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/infrastructure/postgres"
	"github.com/casaluarma/luarma-api/pkg/config"
)

// newTestPool levanta un PostgreSQL en contenedor, aplica las migraciones y
// devuelve un pool listo para usar.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("luarma_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.RunMigrations(dsn))
	// Segunda corrida: sin cambios, sin error.
	require.NoError(t, postgres.RunMigrations(dsn))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func nd(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }

func TestPostgres_CierreMensual(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	monthly := entity.RecurrenceMonthly
	incurred := time.Date(2025, 4, 3, 9, 0, 0, 0, loc)
	ds := &entity.Dataset{
		Modalities: []*entity.Modality{{ID: "m1", Name: "Danza", Price: nd(10000), TeacherPay: nd(3000)}},
		Classes: []*entity.Class{
			{ID: "c1", Title: "Danza", ModalityID: "m1", Professor: "Ana"},
			{ID: "c2", Title: "Huérfana", ModalityID: "no-existe", Professor: "Luis"},
		},
		Payments: []*entity.Payment{
			{ID: "p1", ClassID: "c1", StudentID: "s1", Amount: nd(20000), Method: "efectivo", Sessions: 2,
				PaymentDate: time.Date(2025, 3, 10, 12, 0, 0, 0, loc), Status: entity.PaymentStatusPaid, TeacherPayPerSession: nd(3000)},
			{ID: "p2", ClassID: "c2", StudentID: "s2", Amount: nd(5000), Method: "efectivo",
				PaymentDate: time.Date(2025, 3, 11, 12, 0, 0, 0, loc), Status: entity.PaymentStatusPaid},
			{ID: "p3", ClassID: "borrada", StudentID: "s3", Amount: nd(7000), Method: "efectivo",
				PaymentDate: time.Date(2025, 3, 12, 12, 0, 0, 0, loc), Status: entity.PaymentStatusPaid, TeacherPayPerSession: nd(1000)},
			{ID: "p4", ClassID: "c1", StudentID: "s4", Amount: nd(99999), Method: "efectivo",
				PaymentDate: time.Date(2025, 3, 13, 12, 0, 0, 0, loc), Status: entity.PaymentStatusPending},
		},
		Rentals: []*entity.Rental{
			{ID: "r1", TenantName: "Compañía X", Attrs: map[string]any{"startDateTime": "2025-03-20T18:00:00", "amount": 15000}},
			{ID: "r2", Attrs: map[string]any{"start": "2025-03-22", "price": "2500"}},
			{ID: "r3", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, loc), Attrs: map[string]any{"total": 999}},
		},
		Costs: []*entity.Cost{
			{ID: "k1", Name: "Arriendo local", Amount: nd(50000), Type: entity.CostTypeFixed, Recurrence: &monthly},
			{ID: "k2", Name: "Luz", Amount: nd(12000), Type: entity.CostTypeVariable, DateIncurred: &incurred},
		},
	}

	res, err := importer.NewUseCase(postgres.NewTxRunner(pool)).Import(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total())

	uc := appfinance.NewUseCase(
		postgres.NewPaymentRepository(pool),
		postgres.NewClassRepository(pool),
		postgres.NewRentalRepository(pool),
		postgres.NewCostRepository(pool),
		appfinance.Exporters{},
		appfinance.Config{Now: func() time.Time { return time.Date(2025, 4, 10, 12, 0, 0, 0, loc) }, QueryTimeout: 5 * time.Second},
	)

	s, err := uc.GetMonthlySummary(ctx, "3", "2025")
	require.NoError(t, err)
	assert.True(t, s.IncomeClasses.Equal(decimal.NewFromInt(32000)), "incomeClasses=%s", s.IncomeClasses)
	assert.True(t, s.CostTeachers.Equal(decimal.NewFromInt(6000)), "costTeachers=%s", s.CostTeachers)
	assert.True(t, s.IncomeRentals.Equal(decimal.NewFromInt(17500)), "incomeRentals=%s", s.IncomeRentals)
	assert.True(t, s.TotalCosts.Equal(decimal.NewFromInt(50000)), "totalCosts=%s", s.TotalCosts)

	april, err := uc.GetMonthlySummary(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, april.Month)
	assert.True(t, april.TotalCosts.Equal(decimal.NewFromInt(62000)), "totalCosts=%s", april.TotalCosts)

	rows, err := uc.GetTeacherPayouts(ctx, "3", "2025")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ana", rows[0].Professor)
	assert.True(t, rows[0].TotalToPay.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, "Luis", rows[1].Professor)
	assert.Equal(t, appfinance.NoProfessorLabel, rows[2].Professor)
	assert.True(t, rows[2].TotalIngress.Equal(decimal.NewFromInt(7000)))
}

func TestPostgres_ImportDuplicadoRevierte(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	ds := &entity.Dataset{
		Modalities: []*entity.Modality{{ID: "m1"}, {ID: "m1"}},
	}
	_, err := importer.NewUseCase(postgres.NewTxRunner(pool)).Import(ctx, ds)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM modalities`).Scan(&n))
	assert.Zero(t, n)
}

func TestPostgres_ClaseInexistente(t *testing.T) {
	pool := newTestPool(t)

	cls, err := postgres.NewClassRepository(pool).GetByIDWithModality(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, cls)
}
