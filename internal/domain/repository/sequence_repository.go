package repository

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// SeedFunc calcula el valor inicial de un contador que aún no existe.
type SeedFunc func(ctx context.Context) (int64, error)

// SequenceRepository contador atómico de referencias por tipo de operación.
type SequenceRepository interface {
	// Next incrementa y devuelve el contador del tipo. Si el contador no existe
	// se crea con el valor que devuelva seed, y ese es el número devuelto.
	Next(ctx context.Context, t entity.OperationType, seed SeedFunc) (int64, error)
}
