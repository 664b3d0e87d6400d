package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

const roleID = "33333333-3333-3333-3333-333333333333"

func newUserUC() (*UserUseCase, *fakeUserRepo, *fakeRoleRepo) {
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	roles.items[roleID] = &entity.Role{ID: roleID, Name: entity.RoleVendedor}
	uc := NewUserUseCase(users, roles)
	uc.now = fixedClock
	return uc, users, roles
}

func TestUser_CreateHasheaPassword(t *testing.T) {
	uc, users, _ := newUserUC()
	u, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Email: " Ana@Tienda.CO ", Password: "secreta123", Name: "Ana", RoleID: roleID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@tienda.co", u.Email)
	assert.Equal(t, entity.UserStatusActive, u.Status)

	stored := users.items[u.ID]
	assert.NotEqual(t, "secreta123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))
}

func TestUser_EmailDuplicadoYRolInexistente(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUserUC()
	in := dto.CreateUserRequest{Email: "a@b.co", Password: "12345678", Name: "A", RoleID: roleID}
	_, err := uc.Create(ctx, in)
	require.NoError(t, err)

	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	in.Email, in.RoleID = "c@d.co", "44444444-4444-4444-4444-444444444444"
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_UpdateEstado(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUserUC()
	u, _ := uc.Create(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "12345678", Name: "A", RoleID: roleID})

	bad := "suspendido"
	_, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inactive := entity.UserStatusInactive
	got, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, got.Status)
}

func TestUser_ChangePassword(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newUserUC()
	u, _ := uc.Create(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "12345678", Name: "A", RoleID: roleID})

	assert.ErrorIs(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{Password: "corta"}), domain.ErrInvalidInput)
	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{Password: "nueva-clave"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.items[u.ID].PasswordHash), []byte("nueva-clave")))
	assert.ErrorIs(t, uc.ChangePassword(ctx, "nope", dto.ChangePasswordRequest{Password: "nueva-clave"}), domain.ErrUserNotFound)
}

func TestUser_RestoreConEmailTomado(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUserUC()
	in := dto.CreateUserRequest{Email: "a@b.co", Password: "12345678", Name: "A", RoleID: roleID}
	old, _ := uc.Create(ctx, in)
	require.NoError(t, uc.Delete(ctx, old.ID))
	assert.ErrorIs(t, uc.Delete(ctx, old.ID), domain.ErrUserNotFound)

	_, err := uc.Create(ctx, in)
	require.NoError(t, err)
	_, err = uc.Restore(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
