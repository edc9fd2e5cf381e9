// Package inventory contiene la lista de reposición de productos bajo mínimo.
package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición a partir del stock mínimo de cada producto.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve los productos en o bajo su stock mínimo con la cantidad
// sugerida de pedido (hasta 1.5 × mínimo) y la prioridad por mayor déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos en o bajo el punto de reorden
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{LowStockOnly: true})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Construir los DTOs
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		idealStock := p.MinStockLevel.Mul(idealStockFactor)
		suggestedQty := idealStock.Sub(p.CurrentStock)
		if suggestedQty.LessThanOrEqual(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.CurrentStock,
			MinStockLevel:      p.MinStockLevel,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			EstimatedOrderCost: suggestedQty.Mul(p.Price).Round(2),
		})
	}

	// 3. Ordenar por mayor déficit bajo el mínimo; empate por SKU
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.MinStockLevel.Sub(a.CurrentStock)
		defB := b.MinStockLevel.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.SKU < b.SKU
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
