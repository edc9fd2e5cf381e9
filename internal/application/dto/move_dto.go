package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMoveResponse asiento del ledger.
type StockMoveResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Description  string          `json:"description"`
	Reference    string          `json:"reference,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	LocationFrom string          `json:"location_from"`
	LocationTo   string          `json:"location_to"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StockMoveListResponse página del ledger (más reciente primero).
type StockMoveListResponse struct {
	Items []StockMoveResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// StockDriftDTO diferencia entre el stock cacheado de un producto y la suma de su ledger.
type StockDriftDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	LedgerSum    decimal.Decimal `json:"ledger_sum"`
	Difference   decimal.Decimal `json:"difference"` // current_stock - ledger_sum
}

// ReconciliationReportDTO resultado de GET /api/moves/reconciliation.
type ReconciliationReportDTO struct {
	CheckedAt time.Time       `json:"checked_at"`
	Checked   int             `json:"checked"`
	Drifts    []StockDriftDTO `json:"drifts"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStockLevel      decimal.Decimal `json:"min_stock_level"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStockLevel * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * Price
	Priority           int             `json:"priority"`             // 1 = más urgente
}
