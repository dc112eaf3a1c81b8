package dto

import "github.com/shopspring/decimal"

// MonthQuery parámetros de GET /api/finance/summary y /api/finance/teachers.
// Se reciben como texto: valores vacíos o no numéricos usan el mes/año actual.
type MonthQuery struct {
	Month string `query:"month"`
	Year  string `query:"year"`
}

// FinanceSummaryDTO respuesta de GET /api/finance/summary.
type FinanceSummaryDTO struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	IncomeClasses decimal.Decimal `json:"incomeClasses"` // pagos "paid" del mes
	IncomeRentals decimal.Decimal `json:"incomeRentals"` // arriendos del mes
	CostTeachers  decimal.Decimal `json:"costTeachers"`  // sesiones × pago al profesor de la modalidad
	TotalCosts    decimal.Decimal `json:"totalCosts"`    // fijos mensuales + variables del mes
	GrossProfit   decimal.Decimal `json:"grossProfit"`   // ingresos - costo profesores
	RealProfit    decimal.Decimal `json:"realProfit"`    // utilidad bruta - costos
}

// TeacherPayoutDTO fila de GET /api/finance/teachers.
type TeacherPayoutDTO struct {
	Professor    string          `json:"professor"`
	TotalIngress decimal.Decimal `json:"totalIngress"`
	TotalToPay   decimal.Decimal `json:"totalToPay"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
}

// MonthlyReportDTO datos que alimentan el PDF del cierre mensual.
type MonthlyReportDTO struct {
	Label    string             `json:"label"` // ej: "Marzo 2025"
	Summary  FinanceSummaryDTO  `json:"summary"`
	Teachers []TeacherPayoutDTO `json:"teachers"`
}
