package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// RoleUseCase administra roles y sus permisos.
type RoleUseCase struct {
	repo     repository.RoleRepository
	userRepo repository.UserRepository
	now      Clock
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository, userRepo repository.UserRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo, userRepo: userRepo, now: time.Now}
}

func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	perms, err := normalizePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
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
	role := &entity.Role{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	return toRoleResponse(role), nil
}

func (uc *RoleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.RoleListResponse, error) {
	f := toFilter(page)
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRoleResponse(r))
	}
	return &dto.RoleListResponse{Items: items, Page: toPage(f)}, nil
}

// Update reemplaza nombre, descripción y permisos. Los tokens ya emitidos conservan
// los permisos anteriores hasta que expiran.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil || role.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	perms, err := normalizePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	if name != role.Name {
		existing, err := uc.repo.GetActiveByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != role.ID {
			return nil, domain.ErrDuplicate
		}
	}
	role.Name = name
	role.Description = in.Description
	role.Permissions = perms
	role.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// Delete envía el rol a la papelera; falla con ErrConflict mientras haya usuarios con ese rol.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil || role.IsDeleted() {
		return domain.ErrNotFound
	}
	n, err := uc.userRepo.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d usuarios tienen el rol %s", domain.ErrConflict, n, role.Name)
	}
	role.MarkDeleted(uc.now())
	return uc.repo.SoftDelete(ctx, id, *role.DeletedAt)
}

func (uc *RoleUseCase) Restore(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	if !role.IsDeleted() {
		return nil, domain.ErrConflict
	}
	taken, err := uc.repo.GetActiveByName(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	role.Restore()
	return toRoleResponse(role), nil
}

// ListPermissions devuelve el catálogo de permisos asignables.
func (uc *RoleUseCase) ListPermissions() []string {
	return entity.AllPermissions()
}

// normalizePermissions valida contra el catálogo y elimina duplicados conservando el orden.
func normalizePermissions(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el rol necesita al menos un permiso", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if !entity.IsValidPermission(p) {
			return nil, fmt.Errorf("%w: permiso desconocido %q", domain.ErrInvalidInput, p)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func toRoleResponse(r *entity.Role) *dto.RoleResponse {
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DeletedAt:   r.DeletedAt,
	}
}
