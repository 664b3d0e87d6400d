package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const (
	prodA    = "aaaaaaaa-0000-0000-0000-000000000001"
	prodB    = "aaaaaaaa-0000-0000-0000-000000000002"
	supplier = "bbbbbbbb-0000-0000-0000-000000000001"
	userID   = "u-1"
)

var day1 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memStore
	tx      *memTx
	cache   *countingCache
	inputs  *StockInputUseCase
	outputs *StockOutputUseCase
}

func newFixture() *fixture {
	s := newMemStore()
	s.products[prodA] = &entity.Product{ID: prodA, SKU: "A", Name: "Arroz", Price: 30, AverageCost: decimal.Zero}
	s.products[prodB] = &entity.Product{ID: prodB, SKU: "B", Name: "Frijol", Price: 50, AverageCost: decimal.Zero}
	s.suppliers[supplier] = &entity.Supplier{ID: supplier, Name: "Distri", TaxID: "900"}
	tx := &memTx{s: s}
	cache := &countingCache{}
	return &fixture{
		store:   s,
		tx:      tx,
		cache:   cache,
		inputs:  NewStockInputUseCase(tx, memInputRepo{s}, memSupplierRepo{s: s}, cache, logger.Nop()),
		outputs: NewStockOutputUseCase(tx, memOutputRepo{s}, cache, logger.Nop()),
	}
}

func (f *fixture) receive(t *testing.T, date time.Time, lines ...dto.InputLineRequest) *dto.InputResponse {
	t.Helper()
	in, err := f.inputs.CreateInput(context.Background(), userID, dto.CreateInputRequest{
		SupplierID: supplier, Date: &date, Lines: lines,
	})
	require.NoError(t, err)
	return in
}

func (f *fixture) sell(lines ...dto.OutputLineRequest) (*dto.OutputResponse, error) {
	return f.outputs.CreateOutput(context.Background(), userID, dto.CreateOutputRequest{Customer: "Mostrador", Lines: lines})
}

func (f *fixture) stock(t *testing.T, productID string) int64 {
	t.Helper()
	n, err := memInputRepo{f.store}.StockByProduct(context.Background(), productID)
	require.NoError(t, err)
	return n
}

func TestCreateInput_CostoPromedio(t *testing.T) {
	f := newFixture()
	in := f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 10, UnitCost: 100})
	assert.Equal(t, int64(1000), in.Total)
	assert.Equal(t, int64(10), in.Lines[0].RemainingCount)
	assert.Equal(t, "100", f.store.products[prodA].AverageCost.String())

	// Mismo producto repetido en una entrada: el segundo renglón ve el stock del primero.
	f.receive(t, day1.AddDate(0, 0, 1),
		dto.InputLineRequest{ProductID: prodA, Count: 10, UnitCost: 200},
		dto.InputLineRequest{ProductID: prodA, Count: 20, UnitCost: 300},
	)
	// (10*100 + 10*200 + 20*300) / 40 = 225
	assert.Equal(t, "225", f.store.products[prodA].AverageCost.String())
	assert.Equal(t, int64(40), f.stock(t, prodA))
	assert.Equal(t, 2, f.cache.invalidations)
}

func TestCreateInput_ReferenciasInvalidasRevierten(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.inputs.CreateInput(ctx, userID, dto.CreateInputRequest{
		SupplierID: "no-existe", Lines: []dto.InputLineRequest{{ProductID: prodA, Count: 1, UnitCost: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.inputs.CreateInput(ctx, userID, dto.CreateInputRequest{
		SupplierID: supplier,
		Lines: []dto.InputLineRequest{
			{ProductID: prodA, Count: 5, UnitCost: 10},
			{ProductID: "no-existe", Count: 1, UnitCost: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.inputs)
	assert.True(t, f.store.products[prodA].AverageCost.IsZero(), "rollback del costo promedio")
	assert.Equal(t, 0, f.cache.invalidations)
}

func TestCreateOutput_CostoFIFO(t *testing.T) {
	f := newFixture()
	f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	f.receive(t, day1.AddDate(0, 0, 1), dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 20})

	out, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 7})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	line := out.Lines[0]
	assert.Equal(t, int64(13), line.UnitCost)
	assert.Equal(t, int64(30), line.UnitPrice, "precio de lista por defecto")
	assert.Equal(t, int64(210), line.Revenue)
	assert.Equal(t, int64(91), line.Cost)
	require.Len(t, line.Allocations, 2)
	assert.Equal(t, int64(5), line.Allocations[0].Quantity)
	assert.Equal(t, int64(2), line.Allocations[1].Quantity)
	assert.Equal(t, int64(3), f.stock(t, prodA))
	assert.Equal(t, 3, f.cache.invalidations)
}

func TestCreateOutput_VariasLineasMismoProducto(t *testing.T) {
	f := newFixture()
	f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	f.receive(t, day1.AddDate(0, 0, 1), dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 20})

	price := int64(99)
	out, err := f.sell(
		dto.OutputLineRequest{ProductID: prodA, Count: 4},
		dto.OutputLineRequest{ProductID: prodA, Count: 4, UnitPrice: &price},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.Lines[0].UnitCost)
	// 1*10 + 3*20 = 70 / 4 = 17.5 -> 18 (mitad al par)
	assert.Equal(t, int64(18), out.Lines[1].UnitCost)
	assert.Equal(t, int64(99), out.Lines[1].UnitPrice)
	assert.Equal(t, int64(2), f.stock(t, prodA))
}

func TestCreateOutput_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture()
	f.receive(t, day1,
		dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10},
		dto.InputLineRequest{ProductID: prodB, Count: 2, UnitCost: 40},
	)

	_, err := f.sell(
		dto.OutputLineRequest{ProductID: prodA, Count: 3},
		dto.OutputLineRequest{ProductID: prodB, Count: 5},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	ie, ok := inventory.AsInsufficientInventory(err)
	require.True(t, ok)
	assert.Equal(t, prodB, ie.ProductID)
	assert.Equal(t, int64(3), ie.Missing)

	assert.Equal(t, int64(5), f.stock(t, prodA), "la línea que sí alcanzaba también se revierte")
	assert.Equal(t, int64(2), f.stock(t, prodB))
	assert.Empty(t, f.store.outputs)
}

func TestCreateOutput_ProductoEnPapelera(t *testing.T) {
	f := newFixture()
	f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	f.store.products[prodA].MarkDeleted(day1)

	_, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteOutput_DevuelveStockALosLotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	in1 := f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	in2 := f.receive(t, day1.AddDate(0, 0, 1), dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 20})
	out, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 7})
	require.NoError(t, err)

	require.NoError(t, f.outputs.DeleteOutput(ctx, out.ID))
	assert.Equal(t, int64(5), f.store.inputs[in1.ID].Lines[0].RemainingCount)
	assert.Equal(t, int64(5), f.store.inputs[in2.ID].Lines[0].RemainingCount)
	assert.ErrorIs(t, f.outputs.DeleteOutput(ctx, out.ID), domain.ErrNotFound)

	trash, err := f.outputs.ListOutputs(ctx, dto.PageRequest{Deleted: true}, emptyRange())
	require.NoError(t, err)
	require.Len(t, trash.Items, 1)
}

func TestRestoreOutput_RecalculaFIFO(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	out, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 4})
	require.NoError(t, err)

	_, err = f.outputs.RestoreOutput(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "la venta no está anulada")

	require.NoError(t, f.outputs.DeleteOutput(ctx, out.ID))
	f.receive(t, day1.AddDate(0, 0, -1), dto.InputLineRequest{ProductID: prodA, Count: 2, UnitCost: 40})

	restored, err := f.outputs.RestoreOutput(ctx, out.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	// Ahora el lote más antiguo es el de costo 40: (2*40 + 2*10) / 4 = 25
	assert.Equal(t, int64(25), restored.Lines[0].UnitCost)
	assert.Equal(t, int64(3), f.stock(t, prodA))
	assert.Equal(t, int64(25), f.store.outputs[out.ID].Lines[0].UnitCost)
}

func TestRestoreOutput_SinStockQuedaAnulada(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	first, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 4})
	require.NoError(t, err)
	require.NoError(t, f.outputs.DeleteOutput(ctx, first.ID))
	_, err = f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 3})
	require.NoError(t, err)

	_, err = f.outputs.RestoreOutput(ctx, first.ID)
	ie, ok := inventory.AsInsufficientInventory(err)
	require.True(t, ok)
	assert.Equal(t, int64(2), ie.Missing)
	assert.True(t, f.store.outputs[first.ID].IsDeleted())
	assert.Equal(t, int64(2), f.stock(t, prodA))
}

func TestDeleteInput_SoloSiNoFueConsumida(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	consumed := f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	fresh := f.receive(t, day1.AddDate(0, 0, 1), dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 20})
	_, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, f.inputs.DeleteInput(ctx, consumed.ID), domain.ErrConflict)
	require.NoError(t, f.inputs.DeleteInput(ctx, fresh.ID))
	assert.ErrorIs(t, f.inputs.DeleteInput(ctx, fresh.ID), domain.ErrNotFound)

	// Los lotes de entradas borradas no participan del FIFO.
	assert.Equal(t, int64(4), f.stock(t, prodA))
	_, err = f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.inputs.RestoreInput(ctx, consumed.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	restored, err := f.inputs.RestoreInput(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, int64(9), f.stock(t, prodA))
}

func TestCreateOutput_EntradaInvalida(t *testing.T) {
	f := newFixture()
	_, err := f.sell()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.sell(dto.OutputLineRequest{ProductID: prodA, Count: inventory.MaxLineCount + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	huge := inventory.MaxUnitAmount + 1
	_, err = f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 1, UnitPrice: &huge})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.sell(make([]dto.OutputLineRequest, inventory.MaxLines+1)...)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.inputs.CreateInput(context.Background(), userID, dto.CreateInputRequest{
		SupplierID: supplier,
		Lines:      []dto.InputLineRequest{{ProductID: prodA, Count: 1, UnitCost: inventory.MaxUnitAmount + 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.tx.runs, "no abre transacción con datos inválidos")
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.True(t, r.From.Equal(day1.Add(-9*time.Hour)))
	assert.Equal(t, 31, r.To.Day())
	assert.Equal(t, 23, r.To.Hour())

	r, err = ParseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)

	_, err = ParseDateRange("ayer", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ParseDateRange("2024-02-01", "2024-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInput_BloqueaProductosEnOrden(t *testing.T) {
	f := newFixture()
	*f.store.locks = nil
	f.receive(t, day1,
		dto.InputLineRequest{ProductID: prodB, Count: 1, UnitCost: 10},
		dto.InputLineRequest{ProductID: prodA, Count: 1, UnitCost: 10},
		dto.InputLineRequest{ProductID: prodB, Count: 1, UnitCost: 30},
	)
	assert.Equal(t, []string{prodA, prodB}, *f.store.locks, "un lock por producto, en orden de ID")
	assert.Equal(t, "20", f.store.products[prodB].AverageCost.String())

	*f.store.locks = nil
	_, err := f.sell(
		dto.OutputLineRequest{ProductID: prodB, Count: 1},
		dto.OutputLineRequest{ProductID: prodA, Count: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{prodA, prodB}, *f.store.locks)
}

func TestRestoreOutput_ProductoEnPapelera(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.receive(t, day1, dto.InputLineRequest{ProductID: prodA, Count: 5, UnitCost: 10})
	out, err := f.sell(dto.OutputLineRequest{ProductID: prodA, Count: 2})
	require.NoError(t, err)
	require.NoError(t, f.outputs.DeleteOutput(ctx, out.ID))
	f.store.products[prodA].MarkDeleted(day1)

	_, err = f.outputs.RestoreOutput(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.store.outputs[out.ID].IsDeleted())
	assert.Equal(t, int64(5), f.stock(t, prodA))
}
