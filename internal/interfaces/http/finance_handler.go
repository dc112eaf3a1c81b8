package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaluarma/luarma-api/internal/application/dto"
	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
	"github.com/casaluarma/luarma-api/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FinanceHandler maneja los reportes financieros mensuales.
type FinanceHandler struct {
	uc  *appfinance.UseCase
	log *logger.Logger
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *appfinance.UseCase, log *logger.Logger) *FinanceHandler {
	return &FinanceHandler{uc: uc, log: log}
}

// monthQuery lee ?month=&year= como texto; los valores inválidos se resuelven
// al mes/año actual en el caso de uso.
func monthQuery(c *fiber.Ctx) dto.MonthQuery {
	var q dto.MonthQuery
	if err := c.QueryParser(&q); err != nil {
		return dto.MonthQuery{Month: c.Query("month"), Year: c.Query("year")}
	}
	return q
}

// GetSummary godoc
// @Summary      Resumen financiero del mes
// @Description  Ingresos por clases y arriendos, pago a profesores, costos y utilidades.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "Mes 1-12 (por defecto el actual)"
// @Param        year   query  string  false  "Año (por defecto el actual)"
// @Success      200  {object}  dto.FinanceSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) GetSummary(c *fiber.Ctx) error {
	q := monthQuery(c)
	summary, err := h.uc.GetMonthlySummary(c.Context(), q.Month, q.Year)
	if err != nil {
		h.log.Error().Err(err).Str("month", q.Month).Str("year", q.Year).Msg("finance summary")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "FINANCE_SUMMARY_FAILED", Message: "Error al generar el resumen financiero",
		})
	}
	return c.JSON(summary)
}

// GetTeacherPayouts godoc
// @Summary      Pago a profesores del mes
// @Description  Por profesor: total cobrado, total a pagar y utilidad.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "Mes 1-12 (por defecto el actual)"
// @Param        year   query  string  false  "Año (por defecto el actual)"
// @Success      200  {array}   dto.TeacherPayoutDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/finance/teachers [get]
func (h *FinanceHandler) GetTeacherPayouts(c *fiber.Ctx) error {
	q := monthQuery(c)
	rows, err := h.uc.GetTeacherPayouts(c.Context(), q.Month, q.Year)
	if err != nil {
		h.log.Error().Err(err).Str("month", q.Month).Str("year", q.Year).Msg("finance teachers")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "TEACHER_PAYOUTS_FAILED", Message: "Error al calcular los pagos a profesores",
		})
	}
	return c.JSON(rows)
}

// DownloadSummaryPDF godoc
// @Summary      Cierre mensual en PDF
// @Tags         finance
// @Security     Bearer
// @Produce      application/pdf
// @Param        month  query  string  false  "Mes 1-12 (por defecto el actual)"
// @Param        year   query  string  false  "Año (por defecto el actual)"
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/finance/summary/pdf [get]
func (h *FinanceHandler) DownloadSummaryPDF(c *fiber.Ctx) error {
	q := monthQuery(c)
	doc, filename, err := h.uc.DownloadMonthlyReportPDF(c.Context(), q.Month, q.Year)
	if err != nil {
		h.log.Error().Err(err).Str("month", q.Month).Str("year", q.Year).Msg("finance pdf")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "FINANCE_REPORT_FAILED", Message: "Error al generar el PDF del cierre mensual",
		})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}

// DownloadSummaryXLSX godoc
// @Summary      Cierre mensual en Excel
// @Tags         finance
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        month  query  string  false  "Mes 1-12 (por defecto el actual)"
// @Param        year   query  string  false  "Año (por defecto el actual)"
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/finance/summary/xlsx [get]
func (h *FinanceHandler) DownloadSummaryXLSX(c *fiber.Ctx) error {
	q := monthQuery(c)
	doc, filename, err := h.uc.DownloadMonthlyReportXLSX(c.Context(), q.Month, q.Year)
	if err != nil {
		h.log.Error().Err(err).Str("month", q.Month).Str("year", q.Year).Msg("finance xlsx")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "FINANCE_REPORT_FAILED", Message: "Error al generar la planilla del cierre mensual",
		})
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
