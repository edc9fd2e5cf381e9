package stock

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// Ubicaciones por defecto (etiquetas de texto libre).
const (
	LocationVendor     = "Vendor"
	LocationStock      = "WH/Stock"
	LocationCustomer   = "Customer"
	LocationProduction = "WH/Production"
	LocationAdjustment = "Virtual/Adjustment"
)

// DefaultLocations devuelve origen y destino por defecto del tipo.
// Los ajustes no tienen defaults: el sentido lo decide el signo de cada línea.
func DefaultLocations(t entity.OperationType) (from, to string) {
	switch t {
	case entity.OperationReceipt:
		return LocationVendor, LocationStock
	case entity.OperationDelivery:
		return LocationStock, LocationCustomer
	case entity.OperationInternal:
		return LocationStock, LocationProduction
	}
	return "", ""
}

// ValidateQuantity verifica la cantidad de una línea según el tipo:
// positiva para recepción/entrega/traslado, distinta de cero para ajustes.
func ValidateQuantity(t entity.OperationType, q decimal.Decimal) error {
	if t == entity.OperationAdjustment {
		if q.IsZero() {
			return fmt.Errorf("%w: el ajuste debe tener una cantidad distinta de cero", domain.ErrInvalidInput)
		}
		return nil
	}
	if !q.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}

// Line entrada de una regla: una línea de la operación y el stock actual de su producto.
type Line struct {
	ProductID           string
	ProductName         string
	Current             decimal.Decimal
	Quantity            decimal.Decimal
	SourceLocation      string // de la operación; vacío = default del tipo
	DestinationLocation string
}

// Effect resultado de aplicar una línea.
type Effect struct {
	Delta        decimal.Decimal // cambio a aplicar sobre CurrentStock (cero en traslados)
	MoveQuantity decimal.Decimal // cantidad con signo del asiento del ledger
	LocationFrom string
	LocationTo   string
	BalanceAfter decimal.Decimal
}

// MutatesStock indica si el efecto cambia el stock del producto.
func (e Effect) MutatesStock() bool {
	return !e.Delta.IsZero()
}

// Rule regla de negocio de un tipo de operación.
type Rule interface {
	Type() entity.OperationType
	// Label es el texto usado en la descripción del ledger ("Receipt WH/IN/0007").
	Label() string
	Apply(line Line) (Effect, error)
}

// RuleFor devuelve la regla del tipo. Un tipo fuera del conjunto cerrado es ErrInvalidInput.
func RuleFor(t entity.OperationType) (Rule, error) {
	switch t {
	case entity.OperationReceipt:
		return receiptRule{}, nil
	case entity.OperationDelivery:
		return deliveryRule{}, nil
	case entity.OperationInternal:
		return internalRule{}, nil
	case entity.OperationAdjustment:
		return adjustmentRule{}, nil
	}
	return nil, fmt.Errorf("%w: tipo de operación desconocido %q", domain.ErrInvalidInput, t)
}

// MoveDescription arma la descripción del asiento.
func MoveDescription(r Rule, reference string) string {
	return r.Label() + " " + reference
}

type receiptRule struct{}

func (receiptRule) Type() entity.OperationType { return entity.OperationReceipt }
func (receiptRule) Label() string              { return "Receipt" }

func (r receiptRule) Apply(line Line) (Effect, error) {
	from, to := locations(r.Type(), line)
	return Effect{
		Delta:        line.Quantity,
		MoveQuantity: line.Quantity,
		LocationFrom: from,
		LocationTo:   to,
		BalanceAfter: line.Current.Add(line.Quantity),
	}, nil
}

type deliveryRule struct{}

func (deliveryRule) Type() entity.OperationType { return entity.OperationDelivery }
func (deliveryRule) Label() string              { return "Delivery" }

func (r deliveryRule) Apply(line Line) (Effect, error) {
	if err := checkAvailable(line); err != nil {
		return Effect{}, err
	}
	from, to := locations(r.Type(), line)
	return Effect{
		Delta:        line.Quantity.Neg(),
		MoveQuantity: line.Quantity.Neg(),
		LocationFrom: from,
		LocationTo:   to,
		BalanceAfter: line.Current.Sub(line.Quantity),
	}, nil
}

// internalRule: el modelo de stock global no distingue ubicaciones, así que el traslado
// no cambia el stock pero sí exige que alcance para la cantidad trasladada.
type internalRule struct{}

func (internalRule) Type() entity.OperationType { return entity.OperationInternal }
func (internalRule) Label() string              { return "Internal Transfer" }

func (r internalRule) Apply(line Line) (Effect, error) {
	if err := checkAvailable(line); err != nil {
		return Effect{}, err
	}
	from, to := locations(r.Type(), line)
	return Effect{
		Delta:        decimal.Zero,
		MoveQuantity: line.Quantity,
		LocationFrom: from,
		LocationTo:   to,
		BalanceAfter: line.Current,
	}, nil
}

// adjustmentRule: delta con signo, sin control de suficiencia (puede dejar stock negativo).
type adjustmentRule struct{}

func (adjustmentRule) Type() entity.OperationType { return entity.OperationAdjustment }
func (adjustmentRule) Label() string              { return "Adjustment" }

func (adjustmentRule) Apply(line Line) (Effect, error) {
	from, to := LocationAdjustment, LocationStock
	if line.Quantity.IsNegative() {
		from, to = LocationStock, LocationAdjustment
	}
	return Effect{
		Delta:        line.Quantity,
		MoveQuantity: line.Quantity,
		LocationFrom: from,
		LocationTo:   to,
		BalanceAfter: line.Current.Add(line.Quantity),
	}, nil
}

func checkAvailable(line Line) error {
	if line.Current.LessThan(line.Quantity) {
		return &domain.InsufficientStockError{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Available:   line.Current,
			Requested:   line.Quantity,
		}
	}
	return nil
}

func locations(t entity.OperationType, line Line) (from, to string) {
	from, to = DefaultLocations(t)
	if line.SourceLocation != "" {
		from = line.SourceLocation
	}
	if line.DestinationLocation != "" {
		to = line.DestinationLocation
	}
	return from, to
}
