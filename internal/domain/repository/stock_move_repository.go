package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// MoveFilter criterios de consulta del ledger.
type MoveFilter struct {
	ProductID string
	Reference string
	Limit     int
	Offset    int
}

// StockMoveRepository puerto del ledger de stock. Solo anexar: no hay Update ni Delete.
type StockMoveRepository interface {
	Create(ctx context.Context, move *entity.StockMove) error
	// List devuelve los movimientos del más reciente al más antiguo.
	List(ctx context.Context, filter MoveFilter) ([]*entity.StockMove, error)
	// SumByProduct devuelve Σ quantity por producto de los asientos que afectan stock
	// (excluye traslados internos). Base de la conciliación.
	SumByProduct(ctx context.Context) (map[string]decimal.Decimal, error)
}
