// Package xlsx exporta el cierre financiero mensual como planilla Excel.
//
// La planilla tiene dos hojas: "Resumen" con los totales del mes y
// "Profesores" con el desglose por profesor. Los montos van como celdas numéricas.
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/casaluarma/luarma-api/internal/application/dto"
	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
)

// Nombres de hoja.
const (
	SheetSummary  = "Resumen"
	SheetTeachers = "Profesores"
)

// moneyFormat formato de celda "#,##0" con miles separados.
const moneyFormat = 3

var _ appfinance.ReportSpreadsheetGenerator = (*ExcelizeGenerator)(nil)

// ExcelizeGenerator implementa finance.ReportSpreadsheetGenerator con excelize.
type ExcelizeGenerator struct{}

// NewExcelizeGenerator construye el generador.
func NewExcelizeGenerator() *ExcelizeGenerator {
	return &ExcelizeGenerator{}
}

// GenerateMonthlyReportXLSX devuelve el archivo XLSX del cierre.
func (g *ExcelizeGenerator) GenerateMonthlyReportXLSX(_ context.Context, report *dto.MonthlyReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xlsx: reporte nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	// La hoja por defecto "Sheet1" pasa a ser el resumen.
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	if _, err := f.NewSheet(SheetTeachers); err != nil {
		return nil, fmt.Errorf("xlsx: hoja profesores: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeSummary(f, report, bold, money); err != nil {
		return nil, err
	}
	if err := writeTeachers(f, report.Teachers, bold, money); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, report *dto.MonthlyReportDTO, bold, money int) error {
	s := report.Summary
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Ingresos por clases", s.IncomeClasses},
		{"Ingresos por arriendos", s.IncomeRentals},
		{"Costo profesores", s.CostTeachers},
		{"Costos operativos", s.TotalCosts},
		{"Utilidad bruta", s.GrossProfit},
		{"Utilidad real", s.RealProfit},
	}

	if err := f.SetCellValue(SheetSummary, "A1", "Cierre mensual "+report.Label); err != nil {
		return fmt.Errorf("xlsx: resumen: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "A1", bold); err != nil {
		return fmt.Errorf("xlsx: resumen: %w", err)
	}
	for i, r := range rows {
		row := i + 3
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), r.label); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
		cell := fmt.Sprintf("B%d", row)
		if err := f.SetCellFloat(SheetSummary, cell, r.value.InexactFloat64(), -1, 64); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
		if err := f.SetCellStyle(SheetSummary, cell, cell, money); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 28)
}

func writeTeachers(f *excelize.File, teachers []dto.TeacherPayoutDTO, bold, money int) error {
	headers := []string{"Profesor", "Cobrado", "A pagar", "Utilidad"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetTeachers, cell, h); err != nil {
			return fmt.Errorf("xlsx: profesores: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetTeachers, "A1", "D1", bold); err != nil {
		return fmt.Errorf("xlsx: profesores: %w", err)
	}

	for i, t := range teachers {
		row := i + 2
		if err := f.SetCellValue(SheetTeachers, fmt.Sprintf("A%d", row), t.Professor); err != nil {
			return fmt.Errorf("xlsx: profesores: %w", err)
		}
		for col, v := range []decimal.Decimal{t.TotalIngress, t.TotalToPay, t.TotalProfit} {
			cell, _ := excelize.CoordinatesToCellName(col+2, row)
			if err := f.SetCellFloat(SheetTeachers, cell, v.InexactFloat64(), -1, 64); err != nil {
				return fmt.Errorf("xlsx: profesores: %w", err)
			}
		}
	}
	if len(teachers) > 0 {
		last := fmt.Sprintf("D%d", len(teachers)+1)
		if err := f.SetCellStyle(SheetTeachers, "B2", last, money); err != nil {
			return fmt.Errorf("xlsx: profesores: %w", err)
		}
	}
	return f.SetColWidth(SheetTeachers, "A", "A", 28)
}
