// promote_manager asciende un usuario registrado al rol manager.
//
// Uso: go run ./cmd/promote_manager -email ana@bodega.io
// Usa la misma configuración de base de datos que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/stockops-api/internal/application/auth"
	"github.com/jhoicas/stockops-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockops-api/pkg/config"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del usuario a promover")
	flag.Parse()
	if *email == "" {
		fmt.Fprintln(os.Stderr, "uso: promote_manager -email <email>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		fmt.Fprintln(os.Stderr, "promote_manager requiere STORAGE_DRIVER=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	user, err := authUC.PromoteToManager(ctx, *email)
	if err != nil {
		log.Error().Err(err).Str("email", *email).Msg("no se pudo promover el usuario")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("usuario promovido")
}
