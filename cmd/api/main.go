// @title        Casa Luarma API
// @version      1.0
// @description  Cierre financiero mensual: resumen, pago a profesores y registro de pagos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appfinance "github.com/casaluarma/luarma-api/internal/application/finance"
	"github.com/casaluarma/luarma-api/internal/application/payment"
	"github.com/casaluarma/luarma-api/internal/domain/repository"
	"github.com/casaluarma/luarma-api/internal/infrastructure/memory"
	infrapdf "github.com/casaluarma/luarma-api/internal/infrastructure/pdf"
	"github.com/casaluarma/luarma-api/internal/infrastructure/postgres"
	infraxlsx "github.com/casaluarma/luarma-api/internal/infrastructure/xlsx"
	httpRouter "github.com/casaluarma/luarma-api/internal/interfaces/http"
	"github.com/casaluarma/luarma-api/pkg/config"
	"github.com/casaluarma/luarma-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repos puertos de persistencia según el backend elegido.
type repos struct {
	payments repository.PaymentRepository
	classes  repository.ClassRepository
	rentals  repository.RentalRepository
	costs    repository.CostRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración")
	}
	loc, _ := cfg.App.Location()

	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Data.Backend).
		Str("timezone", loc.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r, err := openRepos(ctx, cfg, loc, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Data.Backend).Msg("almacenamiento")
	}
	defer r.close()

	now := func() time.Time { return time.Now().In(loc) }

	exporters := appfinance.Exporters{
		PDF:  infrapdf.NewMarotoPDFGenerator(cfg.App.Name, now),
		XLSX: infraxlsx.NewExcelizeGenerator(),
	}
	financeUC := appfinance.NewUseCase(r.payments, r.classes, r.rentals, r.costs, exporters, appfinance.Config{
		Now:          now,
		QueryTimeout: cfg.DB.QueryTimeout,
	})
	paymentUC := payment.NewUseCase(r.payments, r.classes, now)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Casa Luarma API",
		}))
	}

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: rutas /api sin autenticación")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		FinanceUC:   financeUC,
		PaymentUC:   paymentUC,
		Logger:      log,
		ServiceName: cfg.App.Name,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openRepos conecta el backend configurado: PostgreSQL (con migraciones
// opcionales) o un store en memoria cargado desde un export JSON.
func openRepos(ctx context.Context, cfg *config.Config, loc *time.Location, log *logger.Logger) (*repos, error) {
	switch cfg.Data.Backend {
	case config.BackendMemory:
		store := memory.NewStore()
		if cfg.Data.SeedFile != "" {
			f, err := os.Open(cfg.Data.SeedFile)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			ds, err := memory.DecodeDataset(f, loc)
			if err != nil {
				return nil, err
			}
			store = memory.NewStoreFromDataset(ds)
			log.Info().
				Str("file", cfg.Data.SeedFile).
				Int("payments", len(ds.Payments)).
				Int("classes", len(ds.Classes)).
				Int("rentals", len(ds.Rentals)).
				Int("costs", len(ds.Costs)).
				Msg("datos cargados en memoria")
		}
		return &repos{
			payments: memory.NewPaymentRepo(store),
			classes:  memory.NewClassRepo(store),
			rentals:  memory.NewRentalRepo(store),
			costs:    memory.NewCostRepo(store),
			close:    func() {},
		}, nil

	case config.BackendPostgres:
		if cfg.DB.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &repos{
			payments: postgres.NewPaymentRepository(pool),
			classes:  postgres.NewClassRepository(pool),
			rentals:  postgres.NewRentalRepository(pool),
			costs:    postgres.NewCostRepository(pool),
			close:    pool.Close,
		}, nil
	}
	return nil, errors.New("DATA_BACKEND no soportado: " + cfg.Data.Backend)
}
