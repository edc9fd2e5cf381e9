package repository

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// OperationFilter criterios de listado de operaciones (campos vacíos = sin filtro).
type OperationFilter struct {
	Type   entity.OperationType
	Status entity.OperationStatus
	Limit  int
	Offset int
}

// StockOperationRepository define el puerto de persistencia para StockOperation y sus líneas.
type StockOperationRepository interface {
	// Create inserta cabecera y líneas. Una referencia repetida devuelve domain.ErrDuplicateReference.
	Create(ctx context.Context, op *entity.StockOperation) error
	GetByID(ctx context.Context, id string) (*entity.StockOperation, error)
	// GetForUpdate carga la operación bloqueando su fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockOperation, error)
	List(ctx context.Context, filter OperationFilter) ([]*entity.StockOperation, error)
	// Update persiste los campos de cabecera (estado incluido). La referencia nunca cambia.
	Update(ctx context.Context, op *entity.StockOperation) error
	// ReplaceItems reemplaza todas las líneas de la operación.
	ReplaceItems(ctx context.Context, operationID string, items []entity.OperationItem) error
	// UpdateItemDone persiste DoneQuantity de una línea.
	UpdateItemDone(ctx context.Context, item entity.OperationItem) error
	// LastReference devuelve la referencia de la operación más reciente del tipo ("" si no hay).
	LastReference(ctx context.Context, t entity.OperationType) (string, error)
}
