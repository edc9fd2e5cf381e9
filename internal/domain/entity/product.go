package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// CurrentStock es un escalar global cacheado; solo lo modifica el motor de validación
// y debe coincidir con la suma de cantidades del ledger (stock_moves) del producto.
type Product struct {
	ID            string
	SKU           string // único, normalizado en mayúsculas
	Name          string
	Category      string
	UnitOfMeasure string // kg, pcs, litros...
	Description   string
	Price         decimal.Decimal // precio unitario (>= 0)
	MinStockLevel decimal.Decimal // punto de reorden (>= 0)
	CurrentStock  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está en o por debajo del punto de reorden. Informativo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinStockLevel)
}

// StockValue devuelve precio × stock actual.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(p.CurrentStock)
}
