// Package operation contiene los casos de uso de operaciones de stock: creación en borrador,
// edición, cancelación y el motor de validación que convierte un borrador en cambios de stock.
package operation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/internal/domain/stock"
)

// OperationUseCase casos de uso de StockOperation.
type OperationUseCase struct {
	txRunner    TxRunner
	opRepo      repository.StockOperationRepository
	productRepo repository.ProductRepository
	refGen      *ReferenceGenerator
	log         zerolog.Logger
	now         func() time.Time
}

// NewOperationUseCase construye el caso de uso. Los repositorios son los de fuera de transacción.
func NewOperationUseCase(
	txRunner TxRunner,
	opRepo repository.StockOperationRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.SequenceRepository,
	log zerolog.Logger,
) *OperationUseCase {
	log = log.With().Str("component", "operation").Logger()
	return &OperationUseCase{
		txRunner:    txRunner,
		opRepo:      opRepo,
		productRepo: productRepo,
		refGen:      NewReferenceGenerator(seqRepo, opRepo, log),
		log:         log,
		now:         time.Now,
	}
}

// Create crea una operación en draft con referencia asignada.
func (uc *OperationUseCase) Create(ctx context.Context, userID string, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	t, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}
	items, err := uc.buildItems(ctx, t, in.Items)
	if err != nil {
		return nil, err
	}
	partner := strings.TrimSpace(in.Partner)
	if t.RequiresPartner() && partner == "" {
		return nil, domain.MissingField("partner")
	}
	from, to := stock.DefaultLocations(t)
	if v := strings.TrimSpace(in.SourceLocation); v != "" {
		from = v
	}
	if v := strings.TrimSpace(in.DestinationLocation); v != "" {
		to = v
	}

	now := uc.now()
	schedule := now
	if in.ScheduleDate != nil {
		schedule = *in.ScheduleDate
	}
	op := &entity.StockOperation{
		ID:                  uuid.New().String(),
		Type:                t,
		Status:              entity.StatusDraft,
		Partner:             partner,
		SourceLocation:      from,
		DestinationLocation: to,
		ScheduleDate:        schedule,
		Responsible:         strings.TrimSpace(in.Responsible),
		DeliveryAddress:     strings.TrimSpace(in.DeliveryAddress),
		Items:               items,
		CreatedBy:           userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	for attempt := 1; ; attempt++ {
		ref, err := uc.refGen.Next(ctx, t)
		if err != nil {
			return nil, err
		}
		op.Reference = ref
		err = uc.txRunner.Run(ctx, func(
			opRepo repository.StockOperationRepository,
			_ repository.ProductRepository,
			_ repository.StockMoveRepository,
		) error {
			return opRepo.Create(ctx, op)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateReference) || attempt >= maxReferenceAttempts {
			return nil, err
		}
		uc.log.Warn().Str("reference", ref).Int("attempt", attempt).Msg("referencia ocupada, se genera otra")
	}

	uc.log.Info().
		Str("operation_id", op.ID).
		Str("reference", op.Reference).
		Str("type", string(op.Type)).
		Int("items", len(op.Items)).
		Msg("operación creada")
	return toOperationResponse(op), nil
}

// Get obtiene una operación por ID.
func (uc *OperationUseCase) Get(ctx context.Context, id string) (*dto.OperationResponse, error) {
	op, err := uc.opRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return toOperationResponse(op), nil
}

// List lista operaciones filtrando por tipo y estado (vacíos = todos), más recientes primero.
func (uc *OperationUseCase) List(ctx context.Context, opType, status string, limit, offset int) (*dto.OperationListResponse, error) {
	filter := repository.OperationFilter{Limit: limit, Offset: offset}
	if opType != "" {
		t := entity.OperationType(strings.ToLower(opType))
		if !t.Valid() {
			return nil, fmt.Errorf("%w: tipo de operación desconocido %q", domain.ErrInvalidInput, opType)
		}
		filter.Type = t
	}
	if status != "" {
		s := entity.OperationStatus(strings.ToLower(status))
		if !s.Valid() {
			return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
		}
		filter.Status = s
	}
	list, err := uc.opRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OperationResponse, 0, len(list))
	for _, op := range list {
		items = append(items, *toOperationResponse(op))
	}
	return &dto.OperationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update modifica una operación en draft. Las líneas nuevas pasan por las mismas reglas que en Create.
func (uc *OperationUseCase) Update(ctx context.Context, id string, in dto.UpdateOperationRequest) (*dto.OperationResponse, error) {
	var items []entity.OperationItem
	var out *entity.StockOperation
	err := uc.txRunner.Run(ctx, func(
		opRepo repository.StockOperationRepository,
		productRepo repository.ProductRepository,
		_ repository.StockMoveRepository,
	) error {
		op, err := opRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if !op.Editable() {
			return fmt.Errorf("%w: solo se edita en draft (estado actual %s)", domain.ErrInvalidState, op.Status)
		}

		if in.Partner != nil {
			op.Partner = strings.TrimSpace(*in.Partner)
		}
		if op.Type.RequiresPartner() && op.Partner == "" {
			return domain.MissingField("partner")
		}
		if in.SourceLocation != nil {
			op.SourceLocation = strings.TrimSpace(*in.SourceLocation)
		}
		if in.DestinationLocation != nil {
			op.DestinationLocation = strings.TrimSpace(*in.DestinationLocation)
		}
		if in.ScheduleDate != nil {
			op.ScheduleDate = *in.ScheduleDate
		}
		if in.Responsible != nil {
			op.Responsible = strings.TrimSpace(*in.Responsible)
		}
		if in.DeliveryAddress != nil {
			op.DeliveryAddress = strings.TrimSpace(*in.DeliveryAddress)
		}
		if in.Items != nil {
			items, err = buildItems(ctx, productRepo, op.Type, in.Items)
			if err != nil {
				return err
			}
			if err := opRepo.ReplaceItems(ctx, op.ID, items); err != nil {
				return err
			}
			op.Items = items
		}
		op.UpdatedAt = uc.now()
		if err := opRepo.Update(ctx, op); err != nil {
			return err
		}
		out = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("operation_id", out.ID).Str("reference", out.Reference).Msg("operación actualizada")
	return toOperationResponse(out), nil
}

// Cancel pasa una operación no terminal a canceled. done y canceled no admiten el cambio.
func (uc *OperationUseCase) Cancel(ctx context.Context, id string) (*dto.OperationResponse, error) {
	var out *entity.StockOperation
	err := uc.txRunner.Run(ctx, func(
		opRepo repository.StockOperationRepository,
		_ repository.ProductRepository,
		_ repository.StockMoveRepository,
	) error {
		op, err := opRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if op.Status.Terminal() {
			return fmt.Errorf("%w: no se puede cancelar una operación en estado %s", domain.ErrInvalidState, op.Status)
		}
		op.Status = entity.StatusCanceled
		op.UpdatedAt = uc.now()
		if err := opRepo.Update(ctx, op); err != nil {
			return err
		}
		out = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("operation_id", out.ID).Str("reference", out.Reference).Msg("operación cancelada")
	return toOperationResponse(out), nil
}

func (uc *OperationUseCase) buildItems(ctx context.Context, t entity.OperationType, in []dto.OperationItemRequest) ([]entity.OperationItem, error) {
	return buildItems(ctx, uc.productRepo, t, in)
}

// buildItems valida las líneas y las convierte a entidad.
func buildItems(ctx context.Context, productRepo repository.ProductRepository, t entity.OperationType, in []dto.OperationItemRequest) ([]entity.OperationItem, error) {
	if len(in) == 0 {
		return nil, domain.MissingField("items")
	}
	items := make([]entity.OperationItem, 0, len(in))
	for i, it := range in {
		productID := strings.TrimSpace(it.ProductID)
		if productID == "" {
			return nil, domain.MissingField(fmt.Sprintf("items[%d].product_id", i))
		}
		if it.Quantity == nil {
			return nil, domain.MissingField(fmt.Sprintf("items[%d].quantity", i))
		}
		if err := stock.ValidateQuantity(t, *it.Quantity); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		items = append(items, entity.OperationItem{
			Position:  i + 1,
			ProductID: productID,
			Quantity:  *it.Quantity,
		})
	}
	return items, nil
}

func parseType(raw string) (entity.OperationType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.MissingField("type")
	}
	t := entity.OperationType(strings.ToLower(raw))
	if !t.Valid() {
		return "", fmt.Errorf("%w: tipo de operación desconocido %q", domain.ErrInvalidInput, raw)
	}
	return t, nil
}

func toOperationResponse(op *entity.StockOperation) *dto.OperationResponse {
	if op == nil {
		return nil
	}
	items := make([]dto.OperationItemResponse, 0, len(op.Items))
	for _, it := range op.Items {
		items = append(items, dto.OperationItemResponse{
			ID:           it.ID,
			Position:     it.Position,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			DoneQuantity: it.DoneQuantity,
		})
	}
	return &dto.OperationResponse{
		ID:                  op.ID,
		Reference:           op.Reference,
		Type:                string(op.Type),
		Status:              string(op.Status),
		Partner:             op.Partner,
		SourceLocation:      op.SourceLocation,
		DestinationLocation: op.DestinationLocation,
		ScheduleDate:        op.ScheduleDate,
		Responsible:         op.Responsible,
		DeliveryAddress:     op.DeliveryAddress,
		Items:               items,
		CreatedBy:           op.CreatedBy,
		CreatedAt:           op.CreatedAt,
		UpdatedAt:           op.UpdatedAt,
		ValidatedAt:         op.ValidatedAt,
	}
}
