// Package dashboard contiene el caso de uso del resumen de inventario.
package dashboard

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/ledger"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

const dashboardRecentMoves = 5 // asientos recientes en el widget del dashboard

// DashboardUseCase genera el resumen del inventario.
// Solo lectura: delega los agregados en los repositorios.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	moveRepo    repository.StockMoveRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(productRepo repository.ProductRepository, moveRepo repository.StockMoveRepository) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, moveRepo: moveRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos llamadas en paralelo:
//  1. Summary()          → TotalProducts + TotalValue + LowStockCount
//  2. List(limit 5)      → RecentMoves
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type summaryResult struct {
		sum *repository.StockSummary
		err error
	}
	type movesResult struct {
		moves []*entity.StockMove
		err   error
	}

	sumCh := make(chan summaryResult, 1)
	movesCh := make(chan movesResult, 1)

	go func() {
		sum, err := uc.productRepo.Summary(ctx)
		sumCh <- summaryResult{sum, err}
	}()
	go func() {
		moves, err := uc.moveRepo.List(ctx, repository.MoveFilter{Limit: dashboardRecentMoves})
		movesCh <- movesResult{moves, err}
	}()

	sum := <-sumCh
	moves := <-movesCh

	if sum.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de productos: %w", sum.err)
	}
	if moves.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", moves.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts: sum.sum.TotalProducts,
		TotalValue:    sum.sum.TotalValue.Round(2),
		LowStockCount: sum.sum.LowStockCount,
		RecentMoves:   ledger.ToMoveResponses(moves.moves),
	}, nil
}
