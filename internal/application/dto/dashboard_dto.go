package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalProducts int                 `json:"total_products"`
	TotalValue    decimal.Decimal     `json:"total_value"` // Σ precio × stock actual
	LowStockCount int                 `json:"low_stock_count"`
	RecentMoves   []StockMoveResponse `json:"recent_moves"` // últimos 5 asientos
}
