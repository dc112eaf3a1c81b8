package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaluarma/luarma-api/internal/application/dto"
	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	domfinance "github.com/casaluarma/luarma-api/internal/domain/finance"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
	"github.com/casaluarma/luarma-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var santiago = func() *time.Location {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		panic(err)
	}
	return loc
}()

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nd(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(d(v)) }

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, santiago)
}

func monthly() *string { s := entity.RecurrenceMonthly; return &s }

// clock fija "ahora" en el 10 de abril de 2025.
func clock() time.Time { return at(2025, time.April, 10) }

func newUseCase(ds *entity.Dataset) *appfinance.UseCase {
	store := memory.NewStoreFromDataset(ds)
	return appfinance.NewUseCase(
		memory.NewPaymentRepo(store),
		memory.NewClassRepo(store),
		memory.NewRentalRepo(store),
		memory.NewCostRepo(store),
		appfinance.Exporters{},
		appfinance.Config{Now: clock, QueryTimeout: time.Second},
	)
}

// marchDataset reproduce el escenario base: un pago de 2 sesiones, un
// arriendo con "amount" y un costo fijo mensual.
func marchDataset() *entity.Dataset {
	return &entity.Dataset{
		Modalities: []*entity.Modality{{ID: "m1", Name: "Danza", Price: nd(10000), TeacherPay: nd(3000)}},
		Classes:    []*entity.Class{{ID: "c1", Title: "Danza", ModalityID: "m1", Professor: "Ana"}},
		Payments: []*entity.Payment{{
			ID: "p1", ClassID: "c1", Amount: nd(20000), Sessions: 2,
			PaymentDate: at(2025, time.March, 12), Status: entity.PaymentStatusPaid,
			TeacherPayPerSession: nd(3000),
		}},
		Rentals: []*entity.Rental{{
			ID:    "r1",
			Attrs: map[string]any{"startDateTime": "2025-03-20T18:00:00", "amount": 15000},
		}},
		Costs: []*entity.Cost{{ID: "k1", Name: "Arriendo", Amount: nd(50000), Type: entity.CostTypeFixed, Recurrence: monthly()}},
	}
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "%s: esperado %d, obtenido %s", field, want, got)
}

func assertIdentities(t *testing.T, s *dto.FinanceSummaryDTO) {
	t.Helper()
	assert.True(t, s.GrossProfit.Equal(s.IncomeClasses.Add(s.IncomeRentals).Sub(s.CostTeachers)), "grossProfit")
	assert.True(t, s.RealProfit.Equal(s.GrossProfit.Sub(s.TotalCosts)), "realProfit")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen mensual
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMonthlySummary_EscenarioBase(t *testing.T) {
	uc := newUseCase(marchDataset())

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Month)
	assert.Equal(t, 2025, s.Year)
	assertDecimal(t, 20000, s.IncomeClasses, "incomeClasses")
	assertDecimal(t, 6000, s.CostTeachers, "costTeachers")
	assertDecimal(t, 15000, s.IncomeRentals, "incomeRentals")
	assertDecimal(t, 50000, s.TotalCosts, "totalCosts")
	assertDecimal(t, 29000, s.GrossProfit, "grossProfit")
	assertDecimal(t, -21000, s.RealProfit, "realProfit")
	assertIdentities(t, s)
}

func TestGetMonthlySummary_IgnoraPagosNoPagadosOFueraDeMes(t *testing.T) {
	ds := marchDataset()
	ds.Payments = append(ds.Payments,
		&entity.Payment{ID: "pend", ClassID: "c1", Amount: nd(99999), Sessions: 5,
			PaymentDate: at(2025, time.March, 15), Status: entity.PaymentStatusPending},
		&entity.Payment{ID: "feb", ClassID: "c1", Amount: nd(88888), Sessions: 5,
			PaymentDate: time.Date(2025, time.February, 28, 23, 59, 59, 0, santiago), Status: entity.PaymentStatusPaid},
		&entity.Payment{ID: "abr", ClassID: "c1", Amount: nd(77777), Sessions: 5,
			PaymentDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, santiago), Status: entity.PaymentStatusPaid},
	)
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 20000, s.IncomeClasses, "incomeClasses")
	assertDecimal(t, 6000, s.CostTeachers, "costTeachers")

	rows, err := uc.GetTeacherPayouts(context.Background(), "3", "2025")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assertDecimal(t, 20000, rows[0].TotalIngress, "totalIngress")
}

func TestGetMonthlySummary_ArriendoSinMontoAportaCero(t *testing.T) {
	ds := marchDataset()
	ds.Rentals = []*entity.Rental{{ID: "r2", Attrs: map[string]any{"startDateTime": "2025-03-02T10:00:00"}}}
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 0, s.IncomeRentals, "incomeRentals")
	assertIdentities(t, s)
}

func TestGetMonthlySummary_ArriendoConStartIncluido(t *testing.T) {
	ds := marchDataset()
	ds.Rentals = []*entity.Rental{
		{ID: "r3", Attrs: map[string]any{"start": "2025-03-08", "price": 12000}},
		{ID: "r4", Attrs: map[string]any{"start": "2025-04-08", "price": 7000}},
		// "startDateTime" manda sobre "start"
		{ID: "r5", Attrs: map[string]any{"startDateTime": "2025-02-27T10:00:00", "start": "2025-03-01", "total": 500}},
	}
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 12000, s.IncomeRentals, "incomeRentals")
}

func TestGetMonthlySummary_ArriendoUsaCreatedAtComoRespaldo(t *testing.T) {
	ds := marchDataset()
	ds.Rentals = []*entity.Rental{{ID: "r6", CreatedAt: at(2025, time.March, 3), Attrs: map[string]any{"total": "4500"}}}
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 4500, s.IncomeRentals, "incomeRentals")
}

func TestGetMonthlySummary_CostosFijosYVariables(t *testing.T) {
	ds := marchDataset()
	ds.Costs = append(ds.Costs,
		&entity.Cost{ID: "v-mar", Amount: nd(8000), Type: entity.CostTypeVariable, DateIncurred: ptr(at(2025, time.March, 15))},
		&entity.Cost{ID: "v-abr", Amount: nd(12000), Type: entity.CostTypeVariable, DateIncurred: ptr(at(2025, time.April, 2))},
	)
	uc := newUseCase(ds)
	ctx := context.Background()

	tests := []struct {
		name       string
		month      string
		year       string
		totalCosts int64
	}{
		{"marzo: fijo + variable de marzo", "3", "2025", 58000},
		{"abril: fijo + variable de abril", "4", "2025", 62000},
		{"antes de todo registro: solo el fijo", "1", "2020", 50000},
		{"años después: solo el fijo", "11", "2030", 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := uc.GetMonthlySummary(ctx, tt.month, tt.year)
			require.NoError(t, err)
			assertDecimal(t, tt.totalCosts, s.TotalCosts, "totalCosts")
			assertIdentities(t, s)
		})
	}
}

func TestGetMonthlySummary_SinParametrosUsaMesActual(t *testing.T) {
	uc := newUseCase(marchDataset())
	ctx := context.Background()

	implicit, err := uc.GetMonthlySummary(ctx, "", "")
	require.NoError(t, err)
	explicit, err := uc.GetMonthlySummary(ctx, "4", "2025")
	require.NoError(t, err)

	assert.Equal(t, 4, implicit.Month)
	assert.Equal(t, 2025, implicit.Year)
	assert.Equal(t, explicit, implicit)
}

func TestGetMonthlySummary_ClaseInexistenteNoAportaCostoProfesor(t *testing.T) {
	ds := marchDataset()
	ds.Payments = append(ds.Payments, &entity.Payment{
		ID: "huerfano", ClassID: "borrada", Amount: nd(10000), Sessions: 3,
		PaymentDate: at(2025, time.March, 20), Status: entity.PaymentStatusPaid, TeacherPayPerSession: nd(2000),
	})
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 30000, s.IncomeClasses, "incomeClasses")
	assertDecimal(t, 6000, s.CostTeachers, "costTeachers")
}

func TestGetMonthlySummary_SesionesNoInformadasCuentanUna(t *testing.T) {
	ds := marchDataset()
	ds.Payments[0].Sessions = 0
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 3000, s.CostTeachers, "costTeachers")
}

func TestGetMonthlySummary_RedondeaADosDecimales(t *testing.T) {
	ds := marchDataset()
	ds.Payments[0].Amount = decimal.NewNullDecimal(decimal.RequireFromString("100.005"))
	ds.Rentals[0].Attrs["amount"] = "0.333"
	uc := newUseCase(ds)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	require.NoError(t, err)
	assert.Equal(t, "100.01", s.IncomeClasses.StringFixed(2))
	assert.Equal(t, "0.33", s.IncomeRentals.String())
	assertIdentities(t, s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago a profesores
// ──────────────────────────────────────────────────────────────────────────────

func TestGetTeacherPayouts_AgrupaPorProfesor(t *testing.T) {
	ds := &entity.Dataset{
		Classes: []*entity.Class{
			{ID: "c1", Professor: "Ana"},
			{ID: "c2", Professor: "Ana"},
			{ID: "c3", Professor: "Bruno"},
		},
		Payments: []*entity.Payment{
			{ID: "p1", ClassID: "c1", Amount: nd(10000), Sessions: 1, TeacherPayPerSession: nd(3000),
				PaymentDate: at(2025, time.March, 5), Status: entity.PaymentStatusPaid},
			{ID: "p2", ClassID: "c2", Amount: nd(20000), Sessions: 2, TeacherPayPerSession: nd(4000),
				PaymentDate: at(2025, time.March, 6), Status: entity.PaymentStatusPaid},
			{ID: "p3", ClassID: "c3", Amount: nd(5000), TeacherPayPerSession: nd(1000),
				PaymentDate: at(2025, time.March, 7), Status: entity.PaymentStatusPaid},
		},
	}
	uc := newUseCase(ds)

	rows, err := uc.GetTeacherPayouts(context.Background(), "3", "2025")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ana", rows[0].Professor)
	assertDecimal(t, 30000, rows[0].TotalIngress, "totalIngress")
	assertDecimal(t, 11000, rows[0].TotalToPay, "totalToPay")
	assertDecimal(t, 19000, rows[0].TotalProfit, "totalProfit")

	assert.Equal(t, "Bruno", rows[1].Professor)
	assertDecimal(t, 1000, rows[1].TotalToPay, "totalToPay")

	for _, r := range rows {
		assert.True(t, r.TotalProfit.Equal(r.TotalIngress.Sub(r.TotalToPay)))
	}
}

func TestGetTeacherPayouts_ClaseInexistenteVaAlSinProfesor(t *testing.T) {
	ds := marchDataset()
	ds.Classes = append(ds.Classes, &entity.Class{ID: "c-sin", Professor: ""})
	ds.Payments = append(ds.Payments,
		&entity.Payment{ID: "huerfano", ClassID: "borrada", Amount: nd(10000),
			PaymentDate: at(2025, time.March, 20), Status: entity.PaymentStatusPaid, TeacherPayPerSession: nd(2000)},
		&entity.Payment{ID: "vacio", ClassID: "c-sin", Amount: nd(1000),
			PaymentDate: at(2025, time.March, 21), Status: entity.PaymentStatusPaid},
	)
	uc := newUseCase(ds)

	rows, err := uc.GetTeacherPayouts(context.Background(), "3", "2025")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ana", rows[0].Professor)
	last := rows[len(rows)-1]
	assert.Equal(t, appfinance.NoProfessorLabel, last.Professor)
	assertDecimal(t, 11000, last.TotalIngress, "totalIngress")
	assertDecimal(t, 2000, last.TotalToPay, "totalToPay")
}

func TestGetTeacherPayouts_UsaValorCopiadoEnElPago(t *testing.T) {
	ds := marchDataset()
	// La modalidad subió el pago al profesor después de registrar el pago.
	ds.Modalities[0].TeacherPay = nd(5000)
	uc := newUseCase(ds)
	ctx := context.Background()

	s, err := uc.GetMonthlySummary(ctx, "3", "2025")
	require.NoError(t, err)
	assertDecimal(t, 10000, s.CostTeachers, "costTeachers usa la modalidad vigente")

	rows, err := uc.GetTeacherPayouts(ctx, "3", "2025")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assertDecimal(t, 6000, rows[0].TotalToPay, "totalToPay usa el valor del pago")
}

func TestGetTeacherPayouts_MesSinPagos(t *testing.T) {
	uc := newUseCase(marchDataset())

	rows, err := uc.GetTeacherPayouts(context.Background(), "7", "2024")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallas de almacenamiento
// ──────────────────────────────────────────────────────────────────────────────

var errStore = errors.New("conexión rechazada")

type failingRentals struct{}

func (failingRentals) ListAll(context.Context) ([]*entity.Rental, error) { return nil, errStore }
func (failingRentals) Create(context.Context, *entity.Rental) error     { return errStore }

type failingPayments struct{ repository.PaymentRepository }

func (failingPayments) ListPaidBetween(context.Context, time.Time, time.Time) ([]*entity.Payment, error) {
	return nil, errStore
}

func TestGetMonthlySummary_FallaDeAlmacenamiento(t *testing.T) {
	store := memory.NewStoreFromDataset(marchDataset())
	uc := appfinance.NewUseCase(
		memory.NewPaymentRepo(store),
		memory.NewClassRepo(store),
		failingRentals{},
		memory.NewCostRepo(store),
		appfinance.Exporters{},
		appfinance.Config{Now: clock},
	)

	s, err := uc.GetMonthlySummary(context.Background(), "3", "2025")
	assert.Nil(t, s, "no se devuelve un resumen parcial")
	assert.ErrorIs(t, err, domfinance.ErrSummaryFailed)
	assert.ErrorIs(t, err, errStore)
}

func TestGetTeacherPayouts_FallaDeAlmacenamiento(t *testing.T) {
	store := memory.NewStoreFromDataset(marchDataset())
	uc := appfinance.NewUseCase(
		failingPayments{},
		memory.NewClassRepo(store),
		memory.NewRentalRepo(store),
		memory.NewCostRepo(store),
		appfinance.Exporters{},
		appfinance.Config{Now: clock},
	)

	rows, err := uc.GetTeacherPayouts(context.Background(), "3", "2025")
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, domfinance.ErrPayoutsFailed)
	assert.ErrorIs(t, err, errStore)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte PDF
// ──────────────────────────────────────────────────────────────────────────────

type stubPDF struct{ got *dto.MonthlyReportDTO }

func (s *stubPDF) GenerateMonthlyReportPDF(_ context.Context, r *dto.MonthlyReportDTO) ([]byte, error) {
	s.got = r
	return []byte("%PDF-1.4"), nil
}

func TestDownloadMonthlyReportPDF(t *testing.T) {
	store := memory.NewStoreFromDataset(marchDataset())
	gen := &stubPDF{}
	uc := appfinance.NewUseCase(
		memory.NewPaymentRepo(store),
		memory.NewClassRepo(store),
		memory.NewRentalRepo(store),
		memory.NewCostRepo(store),
		appfinance.Exporters{PDF: gen},
		appfinance.Config{Now: clock},
	)

	doc, filename, err := uc.DownloadMonthlyReportPDF(context.Background(), "3", "2025")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), doc)
	assert.Equal(t, "cierre-2025-03.pdf", filename)

	require.NotNil(t, gen.got)
	assert.Equal(t, "Marzo 2025", gen.got.Label)
	assertDecimal(t, -21000, gen.got.Summary.RealProfit, "realProfit")
	require.Len(t, gen.got.Teachers, 1)
	assert.Equal(t, "Ana", gen.got.Teachers[0].Professor)
}

func TestDownloadMonthlyReportPDF_SinGenerador(t *testing.T) {
	uc := newUseCase(marchDataset())

	_, _, err := uc.DownloadMonthlyReportPDF(context.Background(), "3", "2025")
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }

type stubXLSX struct{ got *dto.MonthlyReportDTO }

func (s *stubXLSX) GenerateMonthlyReportXLSX(_ context.Context, r *dto.MonthlyReportDTO) ([]byte, error) {
	s.got = r
	return []byte("PK"), nil
}

func TestDownloadMonthlyReportXLSX(t *testing.T) {
	store := memory.NewStoreFromDataset(marchDataset())
	gen := &stubXLSX{}
	uc := appfinance.NewUseCase(
		memory.NewPaymentRepo(store),
		memory.NewClassRepo(store),
		memory.NewRentalRepo(store),
		memory.NewCostRepo(store),
		appfinance.Exporters{XLSX: gen},
		appfinance.Config{Now: clock},
	)

	doc, filename, err := uc.DownloadMonthlyReportXLSX(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), doc)
	assert.Equal(t, "cierre-2025-04.xlsx", filename, "sin parámetros se exporta el mes actual")
	require.NotNil(t, gen.got)
	assert.Equal(t, "Abril 2025", gen.got.Label)

	_, _, err = uc.DownloadMonthlyReportPDF(context.Background(), "3", "2025")
	assert.Error(t, err, "sin generador PDF configurado")
}
