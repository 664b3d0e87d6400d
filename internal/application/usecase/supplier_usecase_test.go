package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

type fakeSupplierRepo struct{ items map[string]*entity.Supplier }

func (f *fakeSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	c := *s
	f.items[s.ID] = &c
	return nil
}
func (f *fakeSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}
func (f *fakeSupplierRepo) GetActiveByTaxID(_ context.Context, taxID string) (*entity.Supplier, error) {
	for _, s := range f.items {
		if s.TaxID == taxID && !s.IsDeleted() {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}
func (f *fakeSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	c := *s
	f.items[s.ID] = &c
	return nil
}
func (f *fakeSupplierRepo) List(context.Context, repository.ListFilter) ([]*entity.Supplier, error) {
	return nil, nil
}
func (f *fakeSupplierRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.items[id].DeletedAt = &at
	return nil
}
func (f *fakeSupplierRepo) Restore(_ context.Context, id string) error {
	f.items[id].DeletedAt = nil
	return nil
}

func TestSupplier_NITUnico(t *testing.T) {
	ctx := context.Background()
	uc := NewSupplierUseCase(&fakeSupplierRepo{items: map[string]*entity.Supplier{}}, newMemCache(), logger.Nop())

	s, err := uc.Create(ctx, dto.SupplierRequest{Name: "Distri", TaxID: " 900123 ", Email: "Ventas@Distri.CO"})
	require.NoError(t, err)
	assert.Equal(t, "900123", s.TaxID)
	assert.Equal(t, "ventas@distri.co", s.Email)

	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "Otro", TaxID: "900123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, uc.Delete(ctx, s.ID))
	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "Otro", TaxID: "900123"})
	require.NoError(t, err)
	_, err = uc.Restore(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSupplierUseCase_NITNormalizadoYValidado(t *testing.T) {
	ctx := context.Background()
	uc := NewSupplierUseCase(&fakeSupplierRepo{items: map[string]*entity.Supplier{}}, newMemCache(), logger.Nop())

	s, err := uc.Create(ctx, dto.SupplierRequest{Name: "Mayorista", TaxID: "900.123.456-8"})
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", s.TaxID)

	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "Copia", TaxID: "900123456-8"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "Errado", TaxID: "800.123.456-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
