// Package pdf genera el PDF del cierre financiero mensual.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del espacio  │  Cierre mensual + período    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / Costo profesores / Costos / Utilidades │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Profesor | Cobrado | A pagar | Utilidad              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de generación                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
	"github.com/casaluarma/luarma-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 122, Green: 41, Blue: 84}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appfinance.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa finance.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	businessName string
	printer      *message.Printer
	now          func() time.Time
}

// NewMarotoPDFGenerator construye el generador. Los montos se formatean como
// pesos chilenos (separador de miles ".").
func NewMarotoPDFGenerator(businessName string, now func() time.Time) *MarotoPDFGenerator {
	if now == nil {
		now = time.Now
	}
	return &MarotoPDFGenerator{
		businessName: businessName,
		printer:      message.NewPrinter(language.MustParse("es-CL")),
		now:          now,
	}
}

// GenerateMonthlyReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateMonthlyReportPDF(_ context.Context, report *dto.MonthlyReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cierre mensual "+report.Label, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRows(report.Summary)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("PAGO A PROFESORES"))
	m.AddRows(tableHeaderRow())
	m.AddRows(g.teacherRows(report.Teachers)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generado el "+g.now().Format("02/01/2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Top: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(report *dto.MonthlyReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("CIERRE MENSUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Label, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func (g *MarotoPDFGenerator) summaryRows(s dto.FinanceSummaryDTO) []core.Row {
	entry := func(label string, v decimal.Decimal, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		valueProps := props.Text{Style: style, Size: 9, Align: align.Right, Top: 1, Right: 1}
		if v.IsNegative() {
			valueProps.Color = colorNegative
		}
		return row.New(6).Add(
			col.New(2),
			col.New(5).Add(text.New(label, props.Text{Style: style, Size: 9, Top: 1})),
			col.New(3).Add(text.New(g.formatPesos(v), valueProps)),
			col.New(2),
		)
	}

	return []core.Row{
		sectionTitle("RESUMEN"),
		entry("Ingresos por clases", s.IncomeClasses, false),
		entry("Ingresos por arriendos", s.IncomeRentals, false),
		entry("Pago a profesores", s.CostTeachers.Neg(), false),
		entry("Utilidad bruta", s.GrossProfit, true),
		entry("Costos operativos", s.TotalCosts.Neg(), false),
		entry("Utilidad real", s.RealProfit, true),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Profesor", 6, align.Left),
		h("Cobrado", 2, align.Right),
		h("A pagar", 2, align.Right),
		h("Utilidad", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) teacherRows(teachers []dto.TeacherPayoutDTO) []core.Row {
	if len(teachers) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin pagos registrados en el período.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		))}
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, row.New(7).Add(
			cell(t.Professor, 6, align.Left),
			cell(g.formatPesos(t.TotalIngress), 2, align.Right),
			cell(g.formatPesos(t.TotalToPay), 2, align.Right),
			cell(g.formatPesos(t.TotalProfit), 2, align.Right),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatPesos redondea a pesos enteros y agrega separador de miles.
// Ej: 1500000 → "$1.500.000", -21000 → "-$21.000"
func (g *MarotoPDFGenerator) formatPesos(v decimal.Decimal) string {
	n := v.Round(0).IntPart()
	if n < 0 {
		return "-$" + g.printer.Sprintf("%d", -n)
	}
	return "$" + g.printer.Sprintf("%d", n)
}
