package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// AdminSeed credenciales del administrador inicial.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// SeedResult lo que creó una ejecución del seed.
type SeedResult struct {
	RolesCreated []string
	AdminCreated bool
}

// SeedUseCase crea los roles base y el usuario administrador. Es idempotente:
// lo que ya existe (activo) no se toca.
type SeedUseCase struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	now      Clock
}

func NewSeedUseCase(roleRepo repository.RoleRepository, userRepo repository.UserRepository) *SeedUseCase {
	return &SeedUseCase{roleRepo: roleRepo, userRepo: userRepo, now: time.Now}
}

func (uc *SeedUseCase) Run(ctx context.Context, admin AdminSeed) (*SeedResult, error) {
	res := &SeedResult{}
	var adminRoleID string
	for _, def := range entity.DefaultRoles() {
		existing, err := uc.roleRepo.GetActiveByName(ctx, def.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if def.Name == entity.RoleAdmin {
				adminRoleID = existing.ID
			}
			continue
		}
		now := uc.now()
		role := def
		role.ID = uuid.New().String()
		role.CreatedAt, role.UpdatedAt = now, now
		if err := uc.roleRepo.Create(ctx, &role); err != nil {
			return nil, fmt.Errorf("seed: crear rol %s: %w", role.Name, err)
		}
		if role.Name == entity.RoleAdmin {
			adminRoleID = role.ID
		}
		res.RolesCreated = append(res.RolesCreated, role.Name)
	}

	email := normalizeEmail(admin.Email)
	existing, err := uc.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return res, nil
	}
	if email == "" || len(admin.Password) < 8 {
		return nil, fmt.Errorf("%w: el administrador requiere email y una contraseña de al menos 8 caracteres", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         admin.Name,
		RoleID:       adminRoleID,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Name == "" {
		user.Name = email
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("seed: crear administrador: %w", err)
	}
	res.AdminCreated = true
	return res, nil
}
