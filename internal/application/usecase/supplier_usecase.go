package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
	"github.com/jhoicas/Tienda-api/pkg/taxid"
)

// SupplierUseCase casos de uso para proveedores. El NIT (TaxID) es único entre activos.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	stats statsInvalidator
	now   Clock
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, cache ports.StatsCache, log *logger.Logger) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, stats: newStatsInvalidator(cache, log), now: time.Now}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := normalizeSupplier(&in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetActiveByTaxID(ctx, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySupplier(s, in)
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.stats.invalidate(ctx)
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update reemplaza los datos del proveedor activo.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	if err := normalizeSupplier(&in); err != nil {
		return nil, err
	}
	if in.TaxID != s.TaxID {
		existing, err := uc.repo.GetActiveByTaxID(ctx, in.TaxID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != s.ID {
			return nil, domain.ErrDuplicate
		}
	}
	applySupplier(s, in)
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	f := toFilter(page)
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{Items: items, Page: toPage(f)}, nil
}

// Delete envía el proveedor a la papelera. Sus entradas históricas se conservan.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil || !s.MarkDeleted(uc.now()) {
		return domain.ErrNotFound
	}
	if err := uc.repo.SoftDelete(ctx, id, *s.DeletedAt); err != nil {
		return err
	}
	uc.stats.invalidate(ctx)
	return nil
}

func (uc *SupplierUseCase) Restore(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if !s.IsDeleted() {
		return nil, domain.ErrConflict
	}
	taken, err := uc.repo.GetActiveByTaxID(ctx, s.TaxID)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	s.Restore()
	uc.stats.invalidate(ctx)
	return toSupplierResponse(s), nil
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest) {
	s.Name = strings.TrimSpace(in.Name)
	s.TaxID = in.TaxID
	s.Phone = in.Phone
	s.Email = strings.ToLower(strings.TrimSpace(in.Email))
	s.Address = in.Address
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: s.DeletedAt,
	}
}

func normalizeSupplier(in *dto.SupplierRequest) error {
	in.TaxID = taxid.Normalize(in.TaxID)
	if strings.TrimSpace(in.Name) == "" || in.TaxID == "" {
		return domain.ErrInvalidInput
	}
	if err := taxid.Validate(in.TaxID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
