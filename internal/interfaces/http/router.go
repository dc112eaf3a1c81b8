package http

import (
	"github.com/gofiber/fiber/v2"

	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
	"github.com/casaluarma/luarma-api/internal/application/payment"
	"github.com/casaluarma/luarma-api/pkg/logger"
)

// Roles con acceso a la API cuando hay JWT configurado.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FinanceUC   *appfinance.UseCase
	PaymentUC   *payment.UseCase
	Logger      *logger.Logger
	ServiceName string
	JWTSecret   string // vacío = rutas abiertas
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	var guard []fiber.Handler
	if deps.JWTSecret != "" {
		guard = append(guard, AuthMiddleware(deps.JWTSecret), RequireRole(RoleAdmin, RoleStaff))
	}

	financeHandler := NewFinanceHandler(deps.FinanceUC, deps.Logger)
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.Logger)

	api := app.Group("/api", guard...)

	finance := api.Group("/finance")
	finance.Get("/summary", financeHandler.GetSummary)
	finance.Get("/summary/pdf", financeHandler.DownloadSummaryPDF)
	finance.Get("/summary/xlsx", financeHandler.DownloadSummaryXLSX)
	finance.Get("/teachers", financeHandler.GetTeacherPayouts)

	api.Post("/payments", paymentHandler.Register)

	// Rutas sin prefijo /api usadas por clientes existentes.
	legacy := app.Group("/finance", guard...)
	legacy.Get("/summary", financeHandler.GetSummary)
	legacy.Get("/teachers", financeHandler.GetTeacherPayouts)
}
