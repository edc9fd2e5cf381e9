package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockops-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockops-api/pkg/config"
)

// storage repositorios del driver elegido más el runner transaccional.
type storage struct {
	products   repository.ProductRepository
	operations repository.StockOperationRepository
	moves      repository.StockMoveRepository
	sequences  repository.SequenceRepository
	users      repository.UserRepository
	tx         operation.TxRunner
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			products:   store.Products(),
			operations: store.Operations(),
			moves:      store.Moves(),
			sequences:  store.Sequences(),
			users:      store.Users(),
			tx:         store,
			close:      func() {},
		}, nil

	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		return &storage{
			products:   postgres.NewProductRepository(pool),
			operations: postgres.NewStockOperationRepository(pool),
			moves:      postgres.NewStockMoveRepository(pool),
			sequences:  postgres.NewSequenceRepository(pool),
			users:      postgres.NewUserRepository(pool),
			tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento no soportado: %q", cfg.Storage.Driver)
}
