package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial siempre es 0:
// solo cambia validando operaciones.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock).
type UpdateProductRequest struct {
	SKU           *string          `json:"sku"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category      *string          `json:"category"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
