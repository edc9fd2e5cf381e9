package operation

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún cambio aplicado (rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		opRepo repository.StockOperationRepository,
		productRepo repository.ProductRepository,
		moveRepo repository.StockMoveRepository,
	) error) error
}

// SlipLine línea de la operación enriquecida con datos del producto para el PDF.
type SlipLine struct {
	entity.OperationItem
	SKU         string
	ProductName string
	Unit        string
}

// SlipPDFGenerator genera el comprobante imprimible de una operación.
type SlipPDFGenerator interface {
	GenerateOperationPDF(ctx context.Context, op *entity.StockOperation, lines []SlipLine) ([]byte, error)
}
