package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Category     string
	LowStockOnly bool // solo productos con CurrentStock <= MinStockLevel
	Limit        int
	Offset       int
}

// StockSummary agregados de inventario para el dashboard.
type StockSummary struct {
	TotalProducts int
	TotalValue    decimal.Decimal // Σ price × current_stock
	LowStockCount int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update no modifica CurrentStock; el stock solo cambia vía AdjustStock.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock suma delta al stock de forma atómica y devuelve el stock resultante.
	// Uso exclusivo del motor de validación.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	Categories(ctx context.Context) ([]string, error)
	Units(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (*StockSummary, error)
}
