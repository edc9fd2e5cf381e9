package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo ledger de stock. La tabla rechaza UPDATE y DELETE por trigger.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

// Create anexa un asiento.
func (r *StockMoveRepo) Create(ctx context.Context, m *entity.StockMove) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_moves (id, product_id, description, reference, operation_type, quantity,
			location_from, location_to, balance_after, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Description, nullIfEmpty(m.Reference), nullIfEmpty(string(m.OperationType)), m.Quantity,
		m.LocationFrom, m.LocationTo, m.BalanceAfter, nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

// List asientos del más reciente al más antiguo.
func (r *StockMoveRepo) List(ctx context.Context, filter repository.MoveFilter) ([]*entity.StockMove, error) {
	query := `
		SELECT id, product_id, description, COALESCE(reference, ''), COALESCE(operation_type, ''), quantity,
			location_from, location_to, balance_after, COALESCE(created_by::text, ''), created_at
		FROM stock_moves
		WHERE ($1 = '' OR product_id::text = $1) AND ($2 = '' OR reference = $2)
		ORDER BY created_at DESC, seq DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.ProductID, filter.Reference, limitOrAll(filter.Limit), filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMove, 0)
	for rows.Next() {
		var (
			m      entity.StockMove
			opType string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Description, &m.Reference, &opType, &m.Quantity,
			&m.LocationFrom, &m.LocationTo, &m.BalanceAfter, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		m.OperationType = entity.OperationType(opType)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct Σ quantity por producto sin traslados internos.
func (r *StockMoveRepo) SumByProduct(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id::text, SUM(quantity)
		FROM stock_moves
		WHERE operation_type IS DISTINCT FROM 'internal'
		GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("sum stock moves: %w", err)
	}
	defer rows.Close()
	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			id  string
			sum decimal.Decimal
		)
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan stock move sum: %w", err)
		}
		sums[id] = sum
	}
	return sums, rows.Err()
}
