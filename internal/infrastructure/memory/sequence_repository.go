package memory

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador de referencias en memoria.
type SequenceRepo struct {
	s  *Store
	tx bool
}

// Next incrementa el contador del tipo; lo crea con seed si no existe.
// seed se evalúa sin el lock para que pueda consultar otros repositorios.
func (r *SequenceRepo) Next(ctx context.Context, t entity.OperationType, seed repository.SeedFunc) (int64, error) {
	if v, ok := r.bump(t); ok {
		return v, nil
	}
	first, err := seed(ctx)
	if err != nil {
		return 0, err
	}
	defer r.s.guard(r.tx)()
	if v, ok := r.s.sequences[t]; ok {
		// Otro llamador creó el contador mientras se calculaba la semilla.
		v++
		r.s.sequences[t] = v
		return v, nil
	}
	r.s.sequences[t] = first
	return first, nil
}

func (r *SequenceRepo) bump(t entity.OperationType) (int64, bool) {
	defer r.s.guard(r.tx)()
	v, ok := r.s.sequences[t]
	if !ok {
		return 0, false
	}
	v++
	r.s.sequences[t] = v
	return v, true
}
