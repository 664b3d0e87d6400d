package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
	"github.com/jhoicas/Tienda-api/pkg/textnorm"
)

// ProductUseCase casos de uso CRUD para productos. AverageCost y stock se manejan vía entradas y ventas.
type ProductUseCase struct {
	repo         repository.ProductRepository
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	inputRepo    repository.StockInputRepository
	stats        statsInvalidator
	now          Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
	inputRepo repository.StockInputRepository,
	cache ports.StatsCache,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		inputRepo:    inputRepo,
		stats:        newStatsInvalidator(cache, log),
		now:          time.Now,
	}
}

// Create crea un nuevo producto. AverageCost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" || in.Price < 0 || in.Price > inventory.MaxUnitAmount || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetActiveBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkReferences(ctx, in.BrandID, in.CategoryID); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         sku,
		Name:        name,
		SearchKey:   textnorm.SearchKey(name),
		Description: in.Description,
		BrandID:     in.BrandID,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		AverageCost: decimal.Zero,
		MinStock:    in.MinStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.stats.invalidate(ctx)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con su stock actual.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.inputRepo.StockByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	resp.Stock = &stock
	return resp, nil
}

// Update actualiza un producto. No permite modificar AverageCost ni stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		if sku != product.SKU {
			existing, err := uc.repo.GetActiveBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, domain.ErrDuplicate
			}
		}
		product.SKU = sku
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
		product.SearchKey = textnorm.SearchKey(name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.BrandID != nil || in.CategoryID != nil {
		brandID, categoryID := product.BrandID, product.CategoryID
		if in.BrandID != nil {
			brandID = *in.BrandID
		}
		if in.CategoryID != nil {
			categoryID = *in.CategoryID
		}
		if err := uc.checkReferences(ctx, brandID, categoryID); err != nil {
			return nil, err
		}
		product.BrandID, product.CategoryID = brandID, categoryID
	}
	if in.Price != nil {
		if *in.Price < 0 || *in.Price > inventory.MaxUnitAmount {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.stats.invalidate(ctx)
	return toProductResponse(product), nil
}

// List lista productos con paginación; Q filtra por nombre sin importar tildes ni mayúsculas.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	f := toFilter(page)
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: toPage(f)}, nil
}

// ListBatches expone la cola FIFO viva del producto.
func (uc *ProductUseCase) ListBatches(ctx context.Context, id string) (*dto.BatchListResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	batches, err := uc.inputRepo.ListBatchesByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.BatchListResponse{ProductID: id, Items: make([]dto.BatchResponse, 0, len(batches))}
	for _, b := range batches {
		resp.Stock += b.RemainingCount
		resp.Items = append(resp.Items, dto.BatchResponse{
			ID:             b.ID,
			InputID:        b.InputID,
			Count:          b.Count,
			RemainingCount: b.RemainingCount,
			UnitCost:       b.UnitCost,
			CreatedAt:      b.CreatedAt,
		})
	}
	return resp, nil
}

// Delete envía el producto a la papelera; un producto borrado no admite nuevas entradas ni ventas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil || !product.MarkDeleted(uc.now()) {
		return domain.ErrNotFound
	}
	if err := uc.repo.SoftDelete(ctx, id, *product.DeletedAt); err != nil {
		return err
	}
	uc.stats.invalidate(ctx)
	return nil
}

// Restore saca el producto de la papelera si su SKU sigue libre.
func (uc *ProductUseCase) Restore(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsDeleted() {
		return nil, domain.ErrConflict
	}
	taken, err := uc.repo.GetActiveBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	product.Restore()
	uc.stats.invalidate(ctx)
	return toProductResponse(product), nil
}

// checkReferences verifica que marca y categoría existan y no estén en la papelera.
func (uc *ProductUseCase) checkReferences(ctx context.Context, brandID, categoryID string) error {
	brand, err := uc.brandRepo.GetByID(ctx, brandID)
	if err != nil {
		return err
	}
	if brand == nil || brand.IsDeleted() {
		return fmt.Errorf("%w: la marca %s no existe", domain.ErrInvalidInput, brandID)
	}
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil || category.IsDeleted() {
		return fmt.Errorf("%w: la categoría %s no existe", domain.ErrInvalidInput, categoryID)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		AverageCost: p.AverageCost,
		MinStock:    p.MinStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
}
