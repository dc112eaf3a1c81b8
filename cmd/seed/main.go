// seed importa en PostgreSQL un export JSON de colecciones
// (modalities, classes, payments, rentals, costs).
//
// Uso: go run ./cmd/seed [-latin1] [ruta/export.json]
// Por defecto busca export.json en el directorio actual. Aplica las
// migraciones antes de importar; todo el archivo entra en una sola transacción.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/casaluarma/luarma-api/internal/application/importer"
	"github.com/casaluarma/luarma-api/internal/infrastructure/memory"
	"github.com/casaluarma/luarma-api/internal/infrastructure/postgres"
	"github.com/casaluarma/luarma-api/pkg/config"
	"github.com/casaluarma/luarma-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	timeout := flag.Duration("timeout", 2*time.Minute, "límite para la importación completa")
	flag.Parse()

	path := "export.json"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("abrir export")
	}
	defer f.Close()

	var src io.Reader = f
	if *latin1 {
		src = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	ds, err := memory.DecodeDataset(src, loc)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("decodificar export")
	}

	if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	res, err := importer.NewUseCase(postgres.NewTxRunner(pool)).Import(ctx, ds)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("importación revertida")
	}

	log.Info().
		Str("file", path).
		Int("modalities", res.Modalities).
		Int("classes", res.Classes).
		Int("payments", res.Payments).
		Int("rentals", res.Rentals).
		Int("costs", res.Costs).
		Int("total", res.Total()).
		Msg("importación completa")
}
