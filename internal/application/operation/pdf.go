package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// PDFUseCase genera el comprobante imprimible de una operación (recepción, entrega, traslado o ajuste).
type PDFUseCase struct {
	opRepo      repository.StockOperationRepository
	productRepo repository.ProductRepository
	generator   SlipPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(opRepo repository.StockOperationRepository, productRepo repository.ProductRepository, generator SlipPDFGenerator) *PDFUseCase {
	return &PDFUseCase{opRepo: opRepo, productRepo: productRepo, generator: generator}
}

// DownloadSlipPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadSlipPDF(ctx context.Context, operationID string) (pdfBytes []byte, filename string, err error) {
	op, err := uc.opRepo.GetByID(ctx, operationID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener operación: %w", err)
	}
	if op == nil {
		return nil, "", domain.ErrNotFound
	}

	lines := make([]SlipLine, 0, len(op.Items))
	for _, it := range op.Items {
		line := SlipLine{OperationItem: it, ProductName: "Producto " + it.ProductID}
		// Un producto eliminado no impide imprimir la operación.
		if p, pErr := uc.productRepo.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			line.SKU = p.SKU
			line.ProductName = p.Name
			line.Unit = p.UnitOfMeasure
		}
		lines = append(lines, line)
	}

	pdfBytes, err = uc.generator.GenerateOperationPDF(ctx, op, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = strings.ReplaceAll(op.Reference, "/", "_") + ".pdf"
	return pdfBytes, filename, nil
}
