package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia validando operaciones.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// NormalizeSKU recorta espacios y pasa a mayúsculas ("  ab-1 " -> "AB-1").
func NormalizeSKU(sku string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := NormalizeSKU(in.SKU)
	if sku == "" {
		return nil, domain.MissingField("sku")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.MissingField("name")
	}
	if err := validateAmounts(in.Price, in.MinStockLevel); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el SKU %s ya existe", domain.ErrDuplicate, sku)
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          name,
		Category:      strings.TrimSpace(in.Category),
		UnitOfMeasure: strings.TrimSpace(in.UnitOfMeasure),
		Description:   in.Description,
		Price:         in.Price,
		MinStockLevel: in.MinStockLevel,
		CurrentStock:  decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil {
		sku := NormalizeSKU(*in.SKU)
		if sku == "" {
			return nil, domain.MissingField("sku")
		}
		if sku != product.SKU {
			other, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("%w: el SKU %s ya existe", domain.ErrDuplicate, sku)
			}
		}
		product.SKU = sku
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.MissingField("name")
		}
		product.Name = name
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = strings.TrimSpace(*in.UnitOfMeasure)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}
	if err := validateAmounts(product.Price, product.MinStockLevel); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación, opcionalmente por categoría o solo los de stock bajo.
func (uc *ProductUseCase) List(ctx context.Context, category string, lowStockOnly bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category:     strings.TrimSpace(category),
		LowStockOnly: lowStockOnly,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto por ID. El historial del ledger se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// Categories devuelve las categorías en uso.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.Categories(ctx)
}

// Units devuelve las unidades de medida en uso.
func (uc *ProductUseCase) Units(ctx context.Context) ([]string, error) {
	return uc.repo.Units(ctx)
}

func validateAmounts(price, minStock decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if minStock.IsNegative() {
		return fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// ToProductResponse convierte la entidad a DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return toProductResponse(p)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		UnitOfMeasure: p.UnitOfMeasure,
		Description:   p.Description,
		Price:         p.Price,
		MinStockLevel: p.MinStockLevel,
		CurrentStock:  p.CurrentStock,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
