// Package finance contiene los casos de uso del cierre financiero mensual:
// resumen de ingresos/costos/utilidad y desglose de pago a profesores.
package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/casaluarma/luarma-api/internal/application/dto"
	"github.com/casaluarma/luarma-api/internal/domain/entity"
	domfinance "github.com/casaluarma/luarma-api/internal/domain/finance"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
)

// NoProfessorLabel agrupa los pagos cuya clase no existe o no tiene profesor.
const NoProfessorLabel = "Sin profesor asignado"

// Config parámetros de ejecución del caso de uso.
type Config struct {
	Now          func() time.Time // reloj; debe devolver la hora en la zona del negocio
	QueryTimeout time.Duration    // 0 = sin límite propio (se respeta el del contexto)
}

// UseCase calcula los reportes financieros del mes.
//
// Es de solo lectura: cada llamada vuelve a leer los repositorios y no guarda
// estado entre llamadas, por lo que puede ejecutarse en paralelo.
type UseCase struct {
	payments repository.PaymentRepository
	classes  repository.ClassRepository
	rentals  repository.RentalRepository
	costs    repository.CostRepository
	export   Exporters
	cfg      Config
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	payments repository.PaymentRepository,
	classes repository.ClassRepository,
	rentals repository.RentalRepository,
	costs repository.CostRepository,
	export Exporters,
	cfg Config,
) *UseCase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &UseCase{
		payments: payments,
		classes:  classes,
		rentals:  rentals,
		costs:    costs,
		export:   export,
		cfg:      cfg,
	}
}

// GetMonthlySummary construye el FinanceSummaryDTO del mes indicado.
//
// Cuatro lecturas en paralelo:
//  1. Pagos "paid" del mes → clases de esos pagos (con modalidad)
//  2. Todos los arriendos (la fecha se concilia en memoria)
//  3. Costos fijos mensuales
//  4. Costos sin recurrencia del mes
//
// Si cualquiera falla se devuelve ErrSummaryFailed y ningún dato parcial.
func (uc *UseCase) GetMonthlySummary(ctx context.Context, monthInput, yearInput string) (*dto.FinanceSummaryDTO, error) {
	w := domfinance.ResolveMonthWindow(monthInput, yearInput, uc.cfg.Now())

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	var (
		payments []*entity.Payment
		classes  map[string]*entity.Class
		rentals  []*entity.Rental
		fixed    []*entity.Cost
		oneOff   []*entity.Cost
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, classes, err = uc.paidPaymentsWithClasses(gctx, w)
		return err
	})
	g.Go(func() error {
		var err error
		if rentals, err = uc.rentals.ListAll(gctx); err != nil {
			return fmt.Errorf("finance: arriendos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if fixed, err = uc.costs.ListByRecurrence(gctx, entity.RecurrenceMonthly); err != nil {
			return fmt.Errorf("finance: costos fijos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if oneOff, err = uc.costs.ListOneOffBetween(gctx, w.Start, w.End); err != nil {
			return fmt.Errorf("finance: costos variables: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domfinance.ErrSummaryFailed, err)
	}

	summary := summarize(w, payments, classes, rentals, fixed, oneOff)
	return &summary, nil
}

// GetTeacherPayouts devuelve, por profesor, lo cobrado a alumnos, lo que se le
// debe pagar y la utilidad del mes.
//
// A diferencia de GetMonthlySummary, el pago al profesor se toma del valor
// copiado en cada pago (TeacherPayPerSession) y no de la modalidad vigente.
func (uc *UseCase) GetTeacherPayouts(ctx context.Context, monthInput, yearInput string) ([]dto.TeacherPayoutDTO, error) {
	w := domfinance.ResolveMonthWindow(monthInput, yearInput, uc.cfg.Now())

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	payments, classes, err := uc.paidPaymentsWithClasses(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domfinance.ErrPayoutsFailed, err)
	}
	return groupPayouts(payments, classes), nil
}

// GetMonthlyReport combina resumen y desglose por profesor para el PDF.
func (uc *UseCase) GetMonthlyReport(ctx context.Context, monthInput, yearInput string) (*dto.MonthlyReportDTO, error) {
	var (
		summary  *dto.FinanceSummaryDTO
		teachers []dto.TeacherPayoutDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = uc.GetMonthlySummary(gctx, monthInput, yearInput)
		return err
	})
	g.Go(func() error {
		var err error
		teachers, err = uc.GetTeacherPayouts(gctx, monthInput, yearInput)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w := domfinance.ResolveMonthWindow(monthInput, yearInput, uc.cfg.Now())
	return &dto.MonthlyReportDTO{
		Label:    monthLabel(w.Start),
		Summary:  *summary,
		Teachers: teachers,
	}, nil
}

// DownloadMonthlyReportPDF genera el PDF del cierre mensual.
// Retorna los bytes y el nombre de archivo sugerido.
func (uc *UseCase) DownloadMonthlyReportPDF(ctx context.Context, monthInput, yearInput string) ([]byte, string, error) {
	if uc.export.PDF == nil {
		return nil, "", fmt.Errorf("finance: generador PDF no configurado")
	}
	report, err := uc.GetMonthlyReport(ctx, monthInput, yearInput)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.export.PDF.GenerateMonthlyReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("finance: pdf: %w", err)
	}
	return doc, reportFilename(report, "pdf"), nil
}

// DownloadMonthlyReportXLSX genera la planilla del cierre mensual.
func (uc *UseCase) DownloadMonthlyReportXLSX(ctx context.Context, monthInput, yearInput string) ([]byte, string, error) {
	if uc.export.XLSX == nil {
		return nil, "", fmt.Errorf("finance: generador XLSX no configurado")
	}
	report, err := uc.GetMonthlyReport(ctx, monthInput, yearInput)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.export.XLSX.GenerateMonthlyReportXLSX(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("finance: xlsx: %w", err)
	}
	return doc, reportFilename(report, "xlsx"), nil
}

func reportFilename(report *dto.MonthlyReportDTO, ext string) string {
	return fmt.Sprintf("cierre-%04d-%02d.%s", report.Summary.Year, report.Summary.Month, ext)
}

// paidPaymentsWithClasses lee los pagos cobrados del mes y las clases que referencian.
func (uc *UseCase) paidPaymentsWithClasses(ctx context.Context, w domfinance.MonthWindow) ([]*entity.Payment, map[string]*entity.Class, error) {
	payments, err := uc.payments.ListPaidBetween(ctx, w.Start, w.End)
	if err != nil {
		return nil, nil, fmt.Errorf("finance: pagos del mes: %w", err)
	}

	ids := distinctClassIDs(payments)
	byID := make(map[string]*entity.Class, len(ids))
	if len(ids) == 0 {
		return payments, byID, nil
	}
	classes, err := uc.classes.ListByIDsWithModality(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("finance: clases de los pagos: %w", err)
	}
	for _, c := range classes {
		byID[c.ID] = c
	}
	return payments, byID, nil
}

func (uc *UseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.cfg.QueryTimeout)
}

// ── Cálculos ──────────────────────────────────────────────────────────────────

// summarize aplica las reglas del cierre mensual. Los componentes se redondean
// a 2 decimales antes de derivar las utilidades para que
// grossProfit = ingresos - costTeachers y realProfit = grossProfit - totalCosts
// se cumplan exactamente.
func summarize(
	w domfinance.MonthWindow,
	payments []*entity.Payment,
	classes map[string]*entity.Class,
	rentals []*entity.Rental,
	fixed, oneOff []*entity.Cost,
) dto.FinanceSummaryDTO {
	var incomeClasses, costTeachers decimal.Decimal
	for _, p := range payments {
		incomeClasses = incomeClasses.Add(domfinance.OrZero(p.Amount))

		cls, ok := classes[p.ClassID]
		if !ok || cls.Modality == nil {
			continue
		}
		teacherPay := domfinance.OrZero(cls.Modality.TeacherPay)
		costTeachers = costTeachers.Add(teacherPay.Mul(decimal.NewFromInt(int64(p.SessionsOrOne()))))
	}

	loc := w.Start.Location()
	var incomeRentals decimal.Decimal
	for _, r := range rentals {
		date, ok := domfinance.RentalDate(*r, loc)
		if !ok || !w.Contains(date) {
			continue
		}
		incomeRentals = incomeRentals.Add(domfinance.RentalAmount(*r))
	}

	var fixedMonthly, variableMonthly decimal.Decimal
	for _, c := range fixed {
		fixedMonthly = fixedMonthly.Add(domfinance.OrZero(c.Amount))
	}
	for _, c := range oneOff {
		variableMonthly = variableMonthly.Add(domfinance.OrZero(c.Amount))
	}

	incomeClasses = incomeClasses.Round(2)
	incomeRentals = incomeRentals.Round(2)
	costTeachers = costTeachers.Round(2)
	totalCosts := fixedMonthly.Add(variableMonthly).Round(2)

	grossProfit := incomeClasses.Add(incomeRentals).Sub(costTeachers)
	realProfit := grossProfit.Sub(totalCosts)

	return dto.FinanceSummaryDTO{
		Month:         w.Month,
		Year:          w.Year,
		IncomeClasses: incomeClasses,
		IncomeRentals: incomeRentals,
		CostTeachers:  costTeachers,
		TotalCosts:    totalCosts,
		GrossProfit:   grossProfit,
		RealProfit:    realProfit,
	}
}

// groupPayouts agrupa los pagos por profesor de la clase.
// El orden es alfabético por profesor, con NoProfessorLabel al final.
func groupPayouts(payments []*entity.Payment, classes map[string]*entity.Class) []dto.TeacherPayoutDTO {
	type acc struct {
		ingress decimal.Decimal
		toPay   decimal.Decimal
	}
	groups := make(map[string]*acc)

	for _, p := range payments {
		professor := NoProfessorLabel
		if cls, ok := classes[p.ClassID]; ok && cls.Professor != "" {
			professor = cls.Professor
		}
		g, ok := groups[professor]
		if !ok {
			g = &acc{}
			groups[professor] = g
		}
		g.ingress = g.ingress.Add(domfinance.OrZero(p.Amount))
		perSession := domfinance.OrZero(p.TeacherPayPerSession)
		g.toPay = g.toPay.Add(perSession.Mul(decimal.NewFromInt(int64(p.SessionsOrOne()))))
	}

	out := make([]dto.TeacherPayoutDTO, 0, len(groups))
	for professor, g := range groups {
		ingress := g.ingress.Round(2)
		toPay := g.toPay.Round(2)
		out = append(out, dto.TeacherPayoutDTO{
			Professor:    professor,
			TotalIngress: ingress,
			TotalToPay:   toPay,
			TotalProfit:  ingress.Sub(toPay),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Professor, out[j].Professor
		if (a == NoProfessorLabel) != (b == NoProfessorLabel) {
			return b == NoProfessorLabel
		}
		return a < b
	})
	return out
}

func distinctClassIDs(payments []*entity.Payment) []string {
	seen := make(map[string]struct{}, len(payments))
	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		if p.ClassID == "" {
			continue
		}
		if _, ok := seen[p.ClassID]; ok {
			continue
		}
		seen[p.ClassID] = struct{}{}
		ids = append(ids, p.ClassID)
	}
	return ids
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Marzo 2025".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
