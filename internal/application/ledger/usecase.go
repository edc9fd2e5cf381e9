// Package ledger expone la consulta del ledger de stock y la conciliación
// entre el stock cacheado de cada producto y la suma de sus asientos.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// LedgerUseCase consultas de solo lectura sobre stock_moves.
type LedgerUseCase struct {
	moveRepo    repository.StockMoveRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(moveRepo repository.StockMoveRepository, productRepo repository.ProductRepository, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		moveRepo:    moveRepo,
		productRepo: productRepo,
		log:         log.With().Str("component", "ledger").Logger(),
	}
}

// List devuelve asientos del más reciente al más antiguo, filtrando por producto y/o referencia.
func (uc *LedgerUseCase) List(ctx context.Context, productID, reference string, limit, offset int) (*dto.StockMoveListResponse, error) {
	moves, err := uc.moveRepo.List(ctx, repository.MoveFilter{
		ProductID: strings.TrimSpace(productID),
		Reference: strings.TrimSpace(reference),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockMoveListResponse{
		Items: ToMoveResponses(moves),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Reconcile compara CurrentStock de cada producto con la suma de su ledger y reporta las diferencias.
// No corrige nada: las correcciones se hacen con operaciones de ajuste.
func (uc *LedgerUseCase) Reconcile(ctx context.Context) (*dto.ReconciliationReportDTO, error) {
	sums, err := uc.moveRepo.SumByProduct(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	report := &dto.ReconciliationReportDTO{
		CheckedAt: time.Now(),
		Checked:   len(products),
		Drifts:    []dto.StockDriftDTO{},
	}
	for _, p := range products {
		sum, ok := sums[p.ID]
		if !ok {
			sum = decimal.Zero
		}
		if p.CurrentStock.Equal(sum) {
			continue
		}
		report.Drifts = append(report.Drifts, dto.StockDriftDTO{
			ProductID:    p.ID,
			SKU:          p.SKU,
			CurrentStock: p.CurrentStock,
			LedgerSum:    sum,
			Difference:   p.CurrentStock.Sub(sum),
		})
	}
	sort.Slice(report.Drifts, func(i, j int) bool { return report.Drifts[i].SKU < report.Drifts[j].SKU })

	for _, d := range report.Drifts {
		uc.log.Error().
			Str("product_id", d.ProductID).
			Str("sku", d.SKU).
			Str("current_stock", d.CurrentStock.String()).
			Str("ledger_sum", d.LedgerSum.String()).
			Msg("stock descuadrado respecto al ledger")
	}
	uc.log.Info().Int("checked", report.Checked).Int("drifts", len(report.Drifts)).Msg("conciliación terminada")
	return report, nil
}

// ToMoveResponses convierte asientos a DTO.
func ToMoveResponses(moves []*entity.StockMove) []dto.StockMoveResponse {
	out := make([]dto.StockMoveResponse, 0, len(moves))
	for _, m := range moves {
		out = append(out, dto.StockMoveResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			Description:  m.Description,
			Reference:    m.Reference,
			Quantity:     m.Quantity,
			LocationFrom: m.LocationFrom,
			LocationTo:   m.LocationTo,
			BalanceAfter: m.BalanceAfter,
			CreatedBy:    m.CreatedBy,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}
