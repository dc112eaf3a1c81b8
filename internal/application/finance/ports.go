package finance

import (
	"context"

	"github.com/casaluarma/luarma-api/internal/application/dto"
)

// ReportPDFGenerator genera la representación en PDF del cierre mensual.
type ReportPDFGenerator interface {
	GenerateMonthlyReportPDF(ctx context.Context, report *dto.MonthlyReportDTO) ([]byte, error)
}

// ReportSpreadsheetGenerator genera el cierre mensual como planilla XLSX.
type ReportSpreadsheetGenerator interface {
	GenerateMonthlyReportXLSX(ctx context.Context, report *dto.MonthlyReportDTO) ([]byte, error)
}

// Exporters generadores de documentos del cierre. Los nil quedan deshabilitados.
type Exporters struct {
	PDF  ReportPDFGenerator
	XLSX ReportSpreadsheetGenerator
}
