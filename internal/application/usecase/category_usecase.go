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

// CategoryUseCase casos de uso CRUD para categorías, con papelera.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	stats statsInvalidator
	now   Clock
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, cache ports.StatsCache, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, stats: newStatsInvalidator(cache, log), now: time.Now}
}

// Create crea una categoría. El nombre es único entre categorías activas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
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
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	uc.stats.invalidate(ctx)
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría (también si está en la papelera).
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(category), nil
}

// Update actualiza nombre y descripción de una categoría activa.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil || category.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if name != category.Name {
		existing, err := uc.repo.GetActiveByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, domain.ErrDuplicate
		}
	}
	category.Name = name
	category.Description = in.Description
	category.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List lista categorías activas o, con Deleted, la papelera.
func (uc *CategoryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CategoryListResponse, error) {
	f := toFilter(page)
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toCategoryResponse(b))
	}
	return &dto.CategoryListResponse{Items: items, Page: toPage(f)}, nil
}

// Delete envía la categoría a la papelera.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil || !category.MarkDeleted(uc.now()) {
		return domain.ErrNotFound
	}
	if err := uc.repo.SoftDelete(ctx, id, *category.DeletedAt); err != nil {
		return err
	}
	uc.stats.invalidate(ctx)
	return nil
}

// Restore saca la categoría de la papelera si su nombre sigue libre.
func (uc *CategoryUseCase) Restore(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if !category.IsDeleted() {
		return nil, domain.ErrConflict
	}
	taken, err := uc.repo.GetActiveByName(ctx, category.Name)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	category.Restore()
	uc.stats.invalidate(ctx)
	return toCategoryResponse(category), nil
}

func toCategoryResponse(b *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		DeletedAt:   b.DeletedAt,
	}
}
