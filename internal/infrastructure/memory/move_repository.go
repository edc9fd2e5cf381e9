package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*MoveRepo)(nil)

// MoveRepo ledger en memoria. Solo anexa.
type MoveRepo struct {
	s  *Store
	tx bool
}

// Create anexa un movimiento al ledger.
func (r *MoveRepo) Create(_ context.Context, move *entity.StockMove) error {
	defer r.s.guard(r.tx)()
	if move.ID == "" {
		move.ID = uuid.New().String()
	}
	r.s.moves = append(r.s.moves, *move)
	return nil
}

// List recorre el ledger desde el final (más reciente primero).
func (r *MoveRepo) List(_ context.Context, filter repository.MoveFilter) ([]*entity.StockMove, error) {
	defer r.s.guard(r.tx)()
	matched := make([]*entity.StockMove, 0)
	for i := len(r.s.moves) - 1; i >= 0; i-- {
		m := r.s.moves[i]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Reference != "" && m.Reference != filter.Reference {
			continue
		}
		matched = append(matched, &m)
	}
	from, to := page(len(matched), filter.Limit, filter.Offset)
	return matched[from:to], nil
}

// SumByProduct devuelve Σ quantity por producto, sin traslados internos.
func (r *MoveRepo) SumByProduct(_ context.Context) (map[string]decimal.Decimal, error) {
	defer r.s.guard(r.tx)()
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.s.moves {
		if !m.AffectsStock() {
			continue
		}
		sums[m.ProductID] = sums[m.ProductID].Add(m.Quantity)
	}
	return sums, nil
}
