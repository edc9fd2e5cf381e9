package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.StockOperationRepository = (*StockOperationRepo)(nil)

const operationColumns = `id, reference, type, status, partner, source_location, destination_location,
	schedule_date, responsible, delivery_address, COALESCE(created_by::text, ''), created_at, updated_at, validated_at`

// StockOperationRepo operaciones de stock y sus líneas (operation_items). Pasar pool o tx.
type StockOperationRepo struct {
	q Querier
}

// NewStockOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockOperationRepository(q Querier) *StockOperationRepo {
	return &StockOperationRepo{q: q}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *StockOperationRepo) Create(ctx context.Context, op *entity.StockOperation) error {
	query := `
		INSERT INTO stock_operations (id, reference, type, status, partner, source_location, destination_location,
			schedule_date, responsible, delivery_address, created_by, created_at, updated_at, validated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Reference, string(op.Type), string(op.Status), op.Partner, op.SourceLocation, op.DestinationLocation,
		op.ScheduleDate, op.Responsible, op.DeliveryAddress, nullIfEmpty(op.CreatedBy), op.CreatedAt, op.UpdatedAt, op.ValidatedAt,
	)
	if err != nil {
		if isConstraint(err, "stock_operations_reference_key") {
			return domain.ErrDuplicateReference
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock operation: %w", err)
	}
	stampItems(op.ID, op.Items)
	return r.insertItems(ctx, op.Items)
}

// GetByID obtiene la operación con sus líneas.
func (r *StockOperationRepo) GetByID(ctx context.Context, id string) (*entity.StockOperation, error) {
	return r.getOne(ctx, `SELECT `+operationColumns+` FROM stock_operations WHERE id = $1`, id)
}

// GetForUpdate obtiene la operación bloqueando su fila hasta el fin de la transacción.
func (r *StockOperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockOperation, error) {
	return r.getOne(ctx, `SELECT `+operationColumns+` FROM stock_operations WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockOperationRepo) getOne(ctx context.Context, query, id string) (*entity.StockOperation, error) {
	if !isUUID(id) {
		return nil, nil
	}
	op, err := scanOperation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock operation: %w", err)
	}
	items, err := r.loadItems(ctx, []string{op.ID})
	if err != nil {
		return nil, err
	}
	op.Items = items[op.ID]
	return op, nil
}

// List lista operaciones filtrando por tipo y estado, de la más reciente a la más antigua.
func (r *StockOperationRepo) List(ctx context.Context, filter repository.OperationFilter) ([]*entity.StockOperation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM stock_operations
		WHERE ($1 = '' OR type = $1) AND ($2 = '' OR status = $2)
		ORDER BY seq DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(filter.Type), string(filter.Status), limitOrAll(filter.Limit), filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock operations: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockOperation, 0)
	ids := make([]string, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock operation: %w", err)
		}
		list = append(list, op)
		ids = append(ids, op.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, op := range list {
		op.Items = items[op.ID]
	}
	return list, nil
}

// Update persiste la cabecera. reference, created_by y created_at no se tocan.
func (r *StockOperationRepo) Update(ctx context.Context, op *entity.StockOperation) error {
	query := `
		UPDATE stock_operations SET status = $2, partner = $3, source_location = $4, destination_location = $5,
			schedule_date = $6, responsible = $7, delivery_address = $8, updated_at = $9, validated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		op.ID, string(op.Status), op.Partner, op.SourceLocation, op.DestinationLocation,
		op.ScheduleDate, op.Responsible, op.DeliveryAddress, op.UpdatedAt, op.ValidatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock operation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra las líneas actuales e inserta las nuevas.
func (r *StockOperationRepo) ReplaceItems(ctx context.Context, operationID string, items []entity.OperationItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM operation_items WHERE operation_id = $1`, operationID); err != nil {
		return fmt.Errorf("delete operation items: %w", err)
	}
	stampItems(operationID, items)
	return r.insertItems(ctx, items)
}

// UpdateItemDone persiste done_quantity de una línea.
func (r *StockOperationRepo) UpdateItemDone(ctx context.Context, item entity.OperationItem) error {
	cmd, err := r.q.Exec(ctx, `UPDATE operation_items SET done_quantity = $2 WHERE id = $1`, item.ID, item.DoneQuantity)
	if err != nil {
		return fmt.Errorf("update operation item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastReference referencia de la operación más reciente del tipo; "" si no hay ninguna.
func (r *StockOperationRepo) LastReference(ctx context.Context, t entity.OperationType) (string, error) {
	var ref string
	err := r.q.QueryRow(ctx,
		`SELECT reference FROM stock_operations WHERE type = $1 ORDER BY seq DESC LIMIT 1`, string(t),
	).Scan(&ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last reference: %w", err)
	}
	return ref, nil
}

func (r *StockOperationRepo) insertItems(ctx context.Context, items []entity.OperationItem) error {
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO operation_items (id, operation_id, position, product_id, quantity, done_quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.OperationID, it.Position, it.ProductID, it.Quantity, it.DoneQuantity,
		)
		if err != nil {
			return fmt.Errorf("insert operation item: %w", err)
		}
	}
	return nil
}

// loadItems carga las líneas de varias operaciones en una sola consulta.
func (r *StockOperationRepo) loadItems(ctx context.Context, operationIDs []string) (map[string][]entity.OperationItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, operation_id, position, product_id, quantity, done_quantity
		FROM operation_items
		WHERE operation_id = ANY($1::uuid[])
		ORDER BY operation_id, position`, operationIDs)
	if err != nil {
		return nil, fmt.Errorf("list operation items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OperationItem, len(operationIDs))
	for rows.Next() {
		var it entity.OperationItem
		if err := rows.Scan(&it.ID, &it.OperationID, &it.Position, &it.ProductID, &it.Quantity, &it.DoneQuantity); err != nil {
			return nil, fmt.Errorf("scan operation item: %w", err)
		}
		out[it.OperationID] = append(out[it.OperationID], it)
	}
	return out, rows.Err()
}

func scanOperation(row pgx.Row) (*entity.StockOperation, error) {
	var (
		op           entity.StockOperation
		opType, stat string
	)
	err := row.Scan(
		&op.ID, &op.Reference, &opType, &stat, &op.Partner, &op.SourceLocation, &op.DestinationLocation,
		&op.ScheduleDate, &op.Responsible, &op.DeliveryAddress, &op.CreatedBy, &op.CreatedAt, &op.UpdatedAt, &op.ValidatedAt,
	)
	if err != nil {
		return nil, err
	}
	op.Type = entity.OperationType(opType)
	op.Status = entity.OperationStatus(stat)
	return &op, nil
}

// stampItems completa ID, OperationID y Position de las líneas.
func stampItems(operationID string, items []entity.OperationItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OperationID = operationID
		items[i].Position = i + 1
	}
}
