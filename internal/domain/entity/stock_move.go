package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMove asiento inmutable del ledger de stock.
// Quantity positiva = aumento de stock, negativa = disminución.
// BalanceAfter es la foto de Product.CurrentStock justo después del movimiento.
// Los traslados internos registran la cantidad movida sin cambiar el stock global.
type StockMove struct {
	ID            string
	ProductID     string
	Description   string        // "Receipt WH/IN/0007"
	Reference     string        // referencia de la operación de origen (puede ser vacía)
	OperationType OperationType // tipo de la operación de origen (vacío si no viene de una)
	Quantity      decimal.Decimal
	LocationFrom  string
	LocationTo    string
	BalanceAfter  decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}

// AffectsStock indica si el asiento cuenta para la suma que debe igualar CurrentStock.
func (m *StockMove) AffectsStock() bool {
	return m.OperationType != OperationInternal
}
