package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores de referencia en operation_sequences. Se usa fuera de las
// transacciones de negocio: un número entregado no vuelve atrás aunque la creación falle.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador con el pool.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador del tipo con UPDATE ... RETURNING. Si no existe, lo crea con el
// valor de seed; si otro proceso lo creó antes, ON CONFLICT incrementa el existente.
func (r *SequenceRepo) Next(ctx context.Context, t entity.OperationType, seed repository.SeedFunc) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`UPDATE operation_sequences SET last_value = last_value + 1 WHERE type = $1 RETURNING last_value`, string(t),
	).Scan(&n)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}

	initial, err := seed(ctx)
	if err != nil {
		return 0, err
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO operation_sequences (type, last_value) VALUES ($1, $2)
		ON CONFLICT (type) DO UPDATE SET last_value = operation_sequences.last_value + 1
		RETURNING last_value`, string(t), initial,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("create sequence: %w", err)
	}
	return n, nil
}
