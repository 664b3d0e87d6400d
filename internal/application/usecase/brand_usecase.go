package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// BrandUseCase casos de uso CRUD para marcas, con papelera.
type BrandUseCase struct {
	repo  repository.BrandRepository
	stats statsInvalidator
	now   Clock
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(repo repository.BrandRepository, cache ports.StatsCache, log *logger.Logger) *BrandUseCase {
	return &BrandUseCase{repo: repo, stats: newStatsInvalidator(cache, log), now: time.Now}
}

// Create crea una marca. El nombre es único entre marcas activas.
func (uc *BrandUseCase) Create(ctx context.Context, in dto.BrandRequest) (*dto.BrandResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetActiveByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	brand := &entity.Brand{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, brand); err != nil {
		return nil, err
	}
	uc.stats.invalidate(ctx)
	return toBrandResponse(brand), nil
}

// GetByID obtiene una marca (también si está en la papelera).
func (uc *BrandUseCase) GetByID(ctx context.Context, id string) (*dto.BrandResponse, error) {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrNotFound
	}
	return toBrandResponse(brand), nil
}

// Update actualiza nombre y descripción de una marca activa.
func (uc *BrandUseCase) Update(ctx context.Context, id string, in dto.BrandRequest) (*dto.BrandResponse, error) {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand == nil || brand.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if name != brand.Name {
		existing, err := uc.repo.GetActiveByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != brand.ID {
			return nil, domain.ErrDuplicate
		}
	}
	brand.Name = name
	brand.Description = in.Description
	brand.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, brand); err != nil {
		return nil, err
	}
	return toBrandResponse(brand), nil
}

// List lista marcas activas o, con Deleted, la papelera.
func (uc *BrandUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.BrandListResponse, error) {
	f := toFilter(page)
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBrandResponse(b))
	}
	return &dto.BrandListResponse{Items: items, Page: toPage(f)}, nil
}

// Delete envía la marca a la papelera.
func (uc *BrandUseCase) Delete(ctx context.Context, id string) error {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if brand == nil || !brand.MarkDeleted(uc.now()) {
		return domain.ErrNotFound
	}
	if err := uc.repo.SoftDelete(ctx, id, *brand.DeletedAt); err != nil {
		return err
	}
	uc.stats.invalidate(ctx)
	return nil
}

// Restore saca la marca de la papelera si su nombre sigue libre.
func (uc *BrandUseCase) Restore(ctx context.Context, id string) (*dto.BrandResponse, error) {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrNotFound
	}
	if !brand.IsDeleted() {
		return nil, domain.ErrConflict
	}
	taken, err := uc.repo.GetActiveByName(ctx, brand.Name)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	brand.Restore()
	uc.stats.invalidate(ctx)
	return toBrandResponse(brand), nil
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		DeletedAt:   b.DeletedAt,
	}
}
