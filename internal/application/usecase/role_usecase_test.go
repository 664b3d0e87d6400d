package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

func newRoleUC() (*RoleUseCase, *fakeUserRepo) {
	users := newFakeUserRepo()
	uc := NewRoleUseCase(newFakeRoleRepo(), users)
	uc.now = fixedClock
	return uc, users
}

func TestRole_PermisosValidadosYSinDuplicados(t *testing.T) {
	ctx := context.Background()
	uc, _ := newRoleUC()

	_, err := uc.Create(ctx, dto.RoleRequest{Name: "cajero", Permissions: []string{"products.delete"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r, err := uc.Create(ctx, dto.RoleRequest{
		Name:        " Cajero ",
		Permissions: []string{entity.PermOutputsWrite, entity.PermProductsRead, entity.PermOutputsWrite},
	})
	require.NoError(t, err)
	assert.Equal(t, "cajero", r.Name)
	assert.Equal(t, []string{entity.PermOutputsWrite, entity.PermProductsRead}, r.Permissions)

	_, err = uc.Create(ctx, dto.RoleRequest{Name: "cajero", Permissions: []string{entity.PermProductsRead}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRole_DeleteConUsuarios(t *testing.T) {
	ctx := context.Background()
	uc, users := newRoleUC()
	r, err := uc.Create(ctx, dto.RoleRequest{Name: "cajero", Permissions: []string{entity.PermOutputsRead}})
	require.NoError(t, err)
	users.items["u1"] = &entity.User{ID: "u1", RoleID: r.ID, Status: entity.UserStatusActive}

	assert.ErrorIs(t, uc.Delete(ctx, r.ID), domain.ErrConflict)

	delete(users.items, "u1")
	require.NoError(t, uc.Delete(ctx, r.ID))
	assert.ErrorIs(t, uc.Delete(ctx, r.ID), domain.ErrNotFound)

	restored, err := uc.Restore(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
}

func TestRole_ListPermissions(t *testing.T) {
	uc, _ := newRoleUC()
	assert.Equal(t, entity.AllPermissions(), uc.ListPermissions())
}
