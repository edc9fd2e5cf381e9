package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s  *Store
	tx bool
}

// Create persiste un nuevo producto. SKU repetido devuelve ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.guard(r.tx)()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, rec := range r.s.products {
		if rec.p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = &productRecord{p: *product, seq: r.s.nextSeq()}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p := rec.p
	return &p, nil
}

// GetBySKU obtiene un producto por SKU; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.s.guard(r.tx)()
	for _, rec := range r.s.products {
		if rec.p.SKU == sku {
			p := rec.p
			return &p, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: dentro de Run el store completo ya está bloqueado.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List lista productos del más reciente al más antiguo.
func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	defer r.s.guard(r.tx)()
	recs := make([]*productRecord, 0, len(r.s.products))
	for _, rec := range r.s.products {
		if filter.Category != "" && rec.p.Category != filter.Category {
			continue
		}
		if filter.LowStockOnly && !rec.p.IsLowStock() {
			continue
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	from, to := page(len(recs), filter.Limit, filter.Offset)
	list := make([]*entity.Product, 0, to-from)
	for _, rec := range recs[from:to] {
		p := rec.p
		list = append(list, &p)
	}
	return list, nil
}

// Update actualiza datos maestros. CurrentStock se conserva.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.products {
		if id != product.ID && other.p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	stock := rec.p.CurrentStock
	rec.p = *product
	rec.p.CurrentStock = stock
	return nil
}

// Delete elimina un producto. No toca operaciones ni ledger.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.guard(r.tx)()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// AdjustStock suma delta al stock del producto y devuelve el nuevo valor.
func (r *ProductRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	defer r.s.guard(r.tx)()
	rec, ok := r.s.products[id]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	rec.p.CurrentStock = rec.p.CurrentStock.Add(delta)
	rec.p.UpdatedAt = time.Now()
	return rec.p.CurrentStock, nil
}

// Categories devuelve las categorías distintas no vacías, ordenadas.
func (r *ProductRepo) Categories(_ context.Context) ([]string, error) {
	defer r.s.guard(r.tx)()
	return r.distinct(func(p entity.Product) string { return p.Category }), nil
}

// Units devuelve las unidades de medida distintas no vacías, ordenadas.
func (r *ProductRepo) Units(_ context.Context) ([]string, error) {
	defer r.s.guard(r.tx)()
	return r.distinct(func(p entity.Product) string { return p.UnitOfMeasure }), nil
}

func (r *ProductRepo) distinct(field func(entity.Product) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, rec := range r.s.products {
		v := field(rec.p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Summary calcula los agregados del dashboard.
func (r *ProductRepo) Summary(_ context.Context) (*repository.StockSummary, error) {
	defer r.s.guard(r.tx)()
	sum := &repository.StockSummary{TotalValue: decimal.Zero}
	for _, rec := range r.s.products {
		sum.TotalProducts++
		sum.TotalValue = sum.TotalValue.Add(rec.p.StockValue())
		if rec.p.IsLowStock() {
			sum.LowStockCount++
		}
	}
	return sum, nil
}
