package operation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/internal/domain/stock"
)

// Validate aplica la operación sobre el stock y la pasa a done dentro de una única transacción:
// bloquea la operación y sus productos (en orden de ID), aplica la regla del tipo línea por línea,
// anexa un asiento al ledger por línea y marca done. Cualquier error deshace todo y la operación
// conserva su estado.
//
// Validar una operación ya done no tiene efectos: devuelve la operación junto con ErrAlreadyValidated.
func (uc *OperationUseCase) Validate(ctx context.Context, userID, id string) (*dto.OperationResponse, error) {
	var (
		out     *entity.StockOperation
		already bool
	)
	err := uc.txRunner.Run(ctx, func(
		opRepo repository.StockOperationRepository,
		productRepo repository.ProductRepository,
		moveRepo repository.StockMoveRepository,
	) error {
		op, err := opRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		switch op.Status {
		case entity.StatusDone:
			out, already = op, true
			return nil
		case entity.StatusCanceled:
			return fmt.Errorf("%w: la operación %s está cancelada", domain.ErrInvalidState, op.Reference)
		}
		if len(op.Items) == 0 {
			return domain.MissingField("items")
		}
		rule, err := stock.RuleFor(op.Type)
		if err != nil {
			return err
		}
		products, err := lockProducts(ctx, productRepo, op.ProductIDs())
		if err != nil {
			return err
		}

		now := uc.now()
		description := stock.MoveDescription(rule, op.Reference)
		for i := range op.Items {
			item := &op.Items[i]
			product := products[item.ProductID]
			eff, err := rule.Apply(stock.Line{
				ProductID:           product.ID,
				ProductName:         product.Name,
				Current:             product.CurrentStock,
				Quantity:            item.Quantity,
				SourceLocation:      op.SourceLocation,
				DestinationLocation: op.DestinationLocation,
			})
			if err != nil {
				return err
			}
			balance := eff.BalanceAfter
			if eff.MutatesStock() {
				if balance, err = productRepo.AdjustStock(ctx, product.ID, eff.Delta); err != nil {
					return fmt.Errorf("ajustar stock de %s: %w", product.SKU, err)
				}
			}
			// Líneas posteriores del mismo producto parten del stock ya actualizado.
			product.CurrentStock = balance

			move := &entity.StockMove{
				ProductID:     product.ID,
				Description:   description,
				Reference:     op.Reference,
				OperationType: op.Type,
				Quantity:      eff.MoveQuantity,
				LocationFrom:  eff.LocationFrom,
				LocationTo:    eff.LocationTo,
				BalanceAfter:  balance,
				CreatedBy:     userID,
				CreatedAt:     now,
			}
			if err := moveRepo.Create(ctx, move); err != nil {
				return err
			}
			item.DoneQuantity = item.Quantity
			if err := opRepo.UpdateItemDone(ctx, *item); err != nil {
				return err
			}
		}

		op.Status = entity.StatusDone
		op.ValidatedAt = &now
		op.UpdatedAt = now
		if err := opRepo.Update(ctx, op); err != nil {
			return err
		}
		out = op
		return nil
	})
	if err != nil {
		var ise *domain.InsufficientStockError
		if errors.As(err, &ise) {
			uc.log.Warn().
				Str("operation_id", id).
				Str("product_id", ise.ProductID).
				Str("available", ise.Available.String()).
				Str("requested", ise.Requested.String()).
				Msg("validación rechazada por stock insuficiente")
		}
		return nil, err
	}
	if already {
		return toOperationResponse(out), domain.ErrAlreadyValidated
	}

	uc.log.Info().
		Str("operation_id", out.ID).
		Str("reference", out.Reference).
		Str("type", string(out.Type)).
		Int("items", len(out.Items)).
		Str("validated_by", userID).
		Msg("operación validada")
	return toOperationResponse(out), nil
}

// lockProducts bloquea los productos en orden ascendente de ID para que dos validaciones
// concurrentes sobre productos compartidos no se bloqueen mutuamente.
func lockProducts(ctx context.Context, productRepo repository.ProductRepository, ids []string) (map[string]*entity.Product, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	products := make(map[string]*entity.Product, len(sorted))
	for _, id := range sorted {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		products[id] = p
	}
	return products, nil
}
