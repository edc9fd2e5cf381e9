package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType tipo cerrado de operación de stock.
type OperationType string

// Tipos de operación.
const (
	OperationReceipt    OperationType = "receipt"    // entrada desde proveedor
	OperationDelivery   OperationType = "delivery"   // salida a cliente
	OperationInternal   OperationType = "internal"   // traslado interno
	OperationAdjustment OperationType = "adjustment" // ajuste de inventario (delta con signo)
)

// OperationTypes lista los tipos válidos en orden estable.
var OperationTypes = []OperationType{OperationReceipt, OperationDelivery, OperationInternal, OperationAdjustment}

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t OperationType) Valid() bool {
	switch t {
	case OperationReceipt, OperationDelivery, OperationInternal, OperationAdjustment:
		return true
	}
	return false
}

// RequiresPartner indica si el tipo exige contraparte (proveedor o cliente).
func (t OperationType) RequiresPartner() bool {
	return t == OperationReceipt || t == OperationDelivery
}

// OperationStatus estado del ciclo de vida de una operación.
type OperationStatus string

// Estados. done y canceled son terminales.
const (
	StatusDraft    OperationStatus = "draft"
	StatusWaiting  OperationStatus = "waiting"
	StatusReady    OperationStatus = "ready"
	StatusDone     OperationStatus = "done"
	StatusCanceled OperationStatus = "canceled"
)

// Valid indica si el estado es conocido.
func (s OperationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusReady, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// Terminal indica si desde este estado no hay más transiciones.
func (s OperationStatus) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// StockOperation operación de stock (recepción, entrega, traslado o ajuste) con sus líneas.
// Solo es editable en draft; pasa a done una única vez mediante la validación.
type StockOperation struct {
	ID                  string
	Reference           string // WH/IN/0001; inmutable una vez asignada
	Type                OperationType
	Status              OperationStatus
	Partner             string // proveedor o cliente
	SourceLocation      string
	DestinationLocation string
	ScheduleDate        time.Time
	Responsible         string
	DeliveryAddress     string
	Items               []OperationItem
	CreatedBy           string // UserID
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ValidatedAt         *time.Time
}

// Editable indica si la operación aún acepta cambios.
func (o *StockOperation) Editable() bool {
	return o.Status == StatusDraft
}

// ProductIDs devuelve los IDs de producto distintos de las líneas, en orden de aparición.
func (o *StockOperation) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// OperationItem línea de una operación.
// Quantity es positiva salvo en ajustes, donde es un delta con signo.
type OperationItem struct {
	ID           string
	OperationID  string
	Position     int
	ProductID    string
	Quantity     decimal.Decimal
	DoneQuantity decimal.Decimal
}
