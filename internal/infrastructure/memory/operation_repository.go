package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.StockOperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación en memoria de StockOperationRepository.
type OperationRepo struct {
	s  *Store
	tx bool
}

// Create persiste la operación con sus líneas. Referencia repetida: ErrDuplicateReference.
func (r *OperationRepo) Create(_ context.Context, op *entity.StockOperation) error {
	defer r.s.guard(r.tx)()
	for _, rec := range r.s.operations {
		if rec.op.Reference == op.Reference {
			return domain.ErrDuplicateReference
		}
	}
	if _, ok := r.s.operations[op.ID]; ok {
		return domain.ErrDuplicate
	}
	stampItems(op.ID, op.Items)
	r.s.operations[op.ID] = &operationRecord{op: cloneOperation(*op), seq: r.s.nextSeq()}
	return nil
}

// GetByID obtiene la operación con sus líneas; (nil, nil) si no existe.
func (r *OperationRepo) GetByID(_ context.Context, id string) (*entity.StockOperation, error) {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.operations[id]
	if !ok {
		return nil, nil
	}
	op := cloneOperation(rec.op)
	return &op, nil
}

// GetForUpdate equivale a GetByID dentro de Run.
func (r *OperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockOperation, error) {
	return r.GetByID(ctx, id)
}

// List lista operaciones de la más reciente a la más antigua.
func (r *OperationRepo) List(_ context.Context, filter repository.OperationFilter) ([]*entity.StockOperation, error) {
	defer r.s.guard(r.tx)()
	recs := make([]*operationRecord, 0, len(r.s.operations))
	for _, rec := range r.s.operations {
		if filter.Type != "" && rec.op.Type != filter.Type {
			continue
		}
		if filter.Status != "" && rec.op.Status != filter.Status {
			continue
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	from, to := page(len(recs), filter.Limit, filter.Offset)
	list := make([]*entity.StockOperation, 0, to-from)
	for _, rec := range recs[from:to] {
		op := cloneOperation(rec.op)
		list = append(list, &op)
	}
	return list, nil
}

// Update persiste la cabecera. Referencia y líneas no se tocan aquí.
func (r *OperationRepo) Update(_ context.Context, op *entity.StockOperation) error {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.operations[op.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := cloneOperation(*op)
	updated.Reference = rec.op.Reference
	updated.CreatedAt = rec.op.CreatedAt
	updated.CreatedBy = rec.op.CreatedBy
	updated.Items = rec.op.Items
	rec.op = updated
	return nil
}

// ReplaceItems reemplaza todas las líneas de la operación.
func (r *OperationRepo) ReplaceItems(_ context.Context, operationID string, items []entity.OperationItem) error {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.operations[operationID]
	if !ok {
		return domain.ErrNotFound
	}
	stampItems(operationID, items)
	rec.op.Items = append([]entity.OperationItem(nil), items...)
	return nil
}

// UpdateItemDone persiste DoneQuantity de una línea.
func (r *OperationRepo) UpdateItemDone(_ context.Context, item entity.OperationItem) error {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.operations[item.OperationID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range rec.op.Items {
		if rec.op.Items[i].ID == item.ID {
			rec.op.Items[i].DoneQuantity = item.DoneQuantity
			return nil
		}
	}
	return domain.ErrNotFound
}

// LastReference devuelve la referencia de la operación más reciente del tipo.
func (r *OperationRepo) LastReference(_ context.Context, t entity.OperationType) (string, error) {
	defer r.s.guard(r.tx)()
	var (
		ref  string
		best int64 = -1
	)
	for _, rec := range r.s.operations {
		if rec.op.Type == t && rec.seq > best {
			best, ref = rec.seq, rec.op.Reference
		}
	}
	return ref, nil
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
