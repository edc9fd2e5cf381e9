package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrMissingField       = errors.New("campo obligatorio ausente")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrDuplicateReference = errors.New("referencia de operación duplicada")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("la operación no admite este cambio en su estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// ErrAlreadyValidated se devuelve al validar una operación que ya está en done.
// Envuelve ErrInvalidState para que errors.Is funcione con ambos.
var ErrAlreadyValidated = fmt.Errorf("operación ya validada: %w", ErrInvalidState)

// InsufficientStockError detalla un faltante de stock para mostrar al usuario.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.ProductName, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// MissingFieldError indica qué campo obligatorio falta.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s es requerido", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// MissingField construye un MissingFieldError.
func MissingField(field string) error {
	return &MissingFieldError{Field: field}
}
