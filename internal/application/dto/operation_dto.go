package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationItemRequest línea de una operación. Quantity es puntero para distinguir "ausente" de 0.
type OperationItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

// CreateOperationRequest body para POST /api/operations.
// Ubicaciones vacías toman el default del tipo.
type CreateOperationRequest struct {
	Type                string                 `json:"type" validate:"required,oneof=receipt delivery internal adjustment"`
	Partner             string                 `json:"partner"`
	SourceLocation      string                 `json:"source_location"`
	DestinationLocation string                 `json:"destination_location"`
	ScheduleDate        *time.Time             `json:"schedule_date"`
	Responsible         string                 `json:"responsible"`
	DeliveryAddress     string                 `json:"delivery_address"`
	Items               []OperationItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOperationRequest body para PUT /api/operations/:id (solo en draft).
// Campos nil no se modifican; Items nil conserva las líneas actuales.
type UpdateOperationRequest struct {
	Partner             *string                `json:"partner"`
	SourceLocation      *string                `json:"source_location"`
	DestinationLocation *string                `json:"destination_location"`
	ScheduleDate        *time.Time             `json:"schedule_date"`
	Responsible         *string                `json:"responsible"`
	DeliveryAddress     *string                `json:"delivery_address"`
	Items               []OperationItemRequest `json:"items"`
}

// OperationItemResponse línea en respuestas.
type OperationItemResponse struct {
	ID           string          `json:"id"`
	Position     int             `json:"position"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	DoneQuantity decimal.Decimal `json:"done_quantity"`
}

// OperationResponse salida de una operación de stock.
type OperationResponse struct {
	ID                  string                  `json:"id"`
	Reference           string                  `json:"reference"`
	Type                string                  `json:"type"`
	Status              string                  `json:"status"`
	Partner             string                  `json:"partner,omitempty"`
	SourceLocation      string                  `json:"source_location,omitempty"`
	DestinationLocation string                  `json:"destination_location,omitempty"`
	ScheduleDate        time.Time               `json:"schedule_date"`
	Responsible         string                  `json:"responsible,omitempty"`
	DeliveryAddress     string                  `json:"delivery_address,omitempty"`
	Items               []OperationItemResponse `json:"items"`
	CreatedBy           string                  `json:"created_by"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	ValidatedAt         *time.Time              `json:"validated_at,omitempty"`
}

// OperationListResponse lista paginada de operaciones.
type OperationListResponse struct {
	Items []OperationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
