// token emite un JWT para consumir la API cuando JWT_SECRET está configurado.
//
// Uso: go run ./cmd/token -user <id> [-role admin|staff]
package main

import (
	"flag"
	"fmt"
	"os"

	httpRouter "github.com/casaluarma/luarma-api/internal/interfaces/http"
	"github.com/casaluarma/luarma-api/pkg/config"
	"github.com/casaluarma/luarma-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "identificador del usuario (claim user_id)")
	role := flag.String("role", httpRouter.RoleStaff, "rol: admin o staff")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "falta -user")
		os.Exit(2)
	}
	if *role != httpRouter.RoleAdmin && *role != httpRouter.RoleStaff {
		fmt.Fprintf(os.Stderr, "rol %q inválido: debe ser %s o %s\n", *role, httpRouter.RoleAdmin, httpRouter.RoleStaff)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET vacío: la API no exige token")
		os.Exit(1)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
