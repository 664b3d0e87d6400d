package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// memStore estado en memoria; memTx lo restaura si la función devuelve error (rollback).
type memStore struct {
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	inputs    map[string]*entity.StockInput
	outputs   map[string]*entity.StockOutput
	// locks orden en que se bloquearon productos; sobrevive al rollback.
	locks *[]string
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*entity.Product{},
		suppliers: map[string]*entity.Supplier{},
		inputs:    map[string]*entity.StockInput{},
		outputs:   map[string]*entity.StockOutput{},
		locks:     new([]string),
	}
}

func copyInput(in *entity.StockInput) *entity.StockInput {
	c := *in
	c.Lines = make([]*entity.InputInfo, len(in.Lines))
	for i, l := range in.Lines {
		lc := *l
		c.Lines[i] = &lc
	}
	return &c
}

func copyOutput(o *entity.StockOutput) *entity.StockOutput {
	c := *o
	c.Lines = make([]*entity.OutputInfo, len(o.Lines))
	for i, l := range o.Lines {
		lc := *l
		lc.Allocations = make([]*entity.OutputAllocation, len(l.Allocations))
		for j, a := range l.Allocations {
			ac := *a
			lc.Allocations[j] = &ac
		}
		c.Lines[i] = &lc
	}
	return &c
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.locks = s.locks
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.suppliers {
		sp := *v
		c.suppliers[k] = &sp
	}
	for k, v := range s.inputs {
		c.inputs[k] = copyInput(v)
	}
	for k, v := range s.outputs {
		c.outputs[k] = copyOutput(v)
	}
	return c
}

type memTx struct {
	s    *memStore
	runs int
}

func (t *memTx) Run(_ context.Context, fn func(
	inputRepo repository.StockInputRepository,
	outputRepo repository.StockOutputRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.runs++
	snap := t.s.clone()
	if err := fn(memInputRepo{t.s}, memOutputRepo{t.s}, memProductRepo{s: t.s}); err != nil {
		*t.s = *snap
		return err
	}
	return nil
}

// ── productos ───────────────────────────────────────────────────────────────

type memProductRepo struct {
	repository.ProductRepository
	s *memStore
}

func (r memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}
func (r memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	*r.s.locks = append(*r.s.locks, id)
	return r.GetByID(ctx, id)
}
func (r memProductRepo) UpdateAverageCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.s.products[id].AverageCost = cost
	return nil
}

type memSupplierRepo struct {
	repository.SupplierRepository
	s *memStore
}

func (r memSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *sp
	return &c, nil
}

// ── entradas / lotes ────────────────────────────────────────────────────────

type memInputRepo struct{ s *memStore }

func (r memInputRepo) Create(_ context.Context, in *entity.StockInput) error {
	r.s.inputs[in.ID] = copyInput(in)
	return nil
}
func (r memInputRepo) GetByID(_ context.Context, id string) (*entity.StockInput, error) {
	in, ok := r.s.inputs[id]
	if !ok {
		return nil, nil
	}
	return copyInput(in), nil
}
func (r memInputRepo) List(_ context.Context, f repository.ListFilter, _ repository.DateRange) ([]*entity.StockInput, error) {
	var out []*entity.StockInput
	for _, in := range r.s.inputs {
		if in.IsDeleted() == f.Deleted {
			out = append(out, copyInput(in))
		}
	}
	return out, nil
}
func (r memInputRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.s.inputs[id].DeletedAt = &at
	return nil
}
func (r memInputRepo) Restore(_ context.Context, id string) error {
	r.s.inputs[id].DeletedAt = nil
	return nil
}

// fifoLines lotes vivos del producto en entradas activas, por fecha de entrada y luego creación.
func (r memInputRepo) fifoLines(productID string) []*entity.InputInfo {
	if p, ok := r.s.products[productID]; !ok || p.IsDeleted() {
		return nil
	}
	type row struct {
		date time.Time
		line *entity.InputInfo
	}
	var rows []row
	for _, in := range r.s.inputs {
		if in.IsDeleted() {
			continue
		}
		for _, l := range in.Lines {
			if l.ProductID == productID && l.RemainingCount > 0 {
				lc := *l
				rows = append(rows, row{date: in.Date, line: &lc})
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].date.Equal(rows[j].date) {
			return rows[i].date.Before(rows[j].date)
		}
		return rows[i].line.ID < rows[j].line.ID
	})
	out := make([]*entity.InputInfo, len(rows))
	for i, r := range rows {
		out[i] = r.line
	}
	return out
}

func (r memInputRepo) ListAvailableForUpdate(_ context.Context, productID string) ([]*entity.InputInfo, error) {
	*r.s.locks = append(*r.s.locks, productID)
	return r.fifoLines(productID), nil
}
func (r memInputRepo) ListBatchesByProduct(_ context.Context, productID string) ([]*entity.InputInfo, error) {
	return r.fifoLines(productID), nil
}
func (r memInputRepo) GetLinesForUpdate(_ context.Context, ids []string) ([]*entity.InputInfo, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.InputInfo
	for _, in := range r.s.inputs {
		for _, l := range in.Lines {
			if want[l.ID] {
				lc := *l
				out = append(out, &lc)
			}
		}
	}
	return out, nil
}
func (r memInputRepo) UpdateRemaining(_ context.Context, lineID string, remaining int64) error {
	for _, in := range r.s.inputs {
		for _, l := range in.Lines {
			if l.ID == lineID {
				l.RemainingCount = remaining
			}
		}
	}
	return nil
}
func (r memInputRepo) StockByProduct(_ context.Context, productID string) (int64, error) {
	var n int64
	for _, l := range r.fifoLines(productID) {
		n += l.RemainingCount
	}
	return n, nil
}

// ── ventas ──────────────────────────────────────────────────────────────────

type memOutputRepo struct{ s *memStore }

func (r memOutputRepo) Create(_ context.Context, o *entity.StockOutput) error {
	r.s.outputs[o.ID] = copyOutput(o)
	return nil
}
func (r memOutputRepo) GetByID(_ context.Context, id string) (*entity.StockOutput, error) {
	o, ok := r.s.outputs[id]
	if !ok {
		return nil, nil
	}
	return copyOutput(o), nil
}
func (r memOutputRepo) List(_ context.Context, f repository.ListFilter, _ repository.DateRange) ([]*entity.StockOutput, error) {
	var out []*entity.StockOutput
	for _, o := range r.s.outputs {
		if o.IsDeleted() == f.Deleted {
			out = append(out, copyOutput(o))
		}
	}
	return out, nil
}
func (r memOutputRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.s.outputs[id].DeletedAt = &at
	return nil
}
func (r memOutputRepo) Restore(_ context.Context, id string) error {
	r.s.outputs[id].DeletedAt = nil
	return nil
}
func (r memOutputRepo) ReplaceAllocations(_ context.Context, lines []*entity.OutputInfo) error {
	for _, o := range r.s.outputs {
		for _, stored := range o.Lines {
			for _, l := range lines {
				if l.ID == stored.ID {
					c := copyOutput(&entity.StockOutput{Lines: []*entity.OutputInfo{l}})
					stored.UnitCost = l.UnitCost
					stored.Allocations = c.Lines[0].Allocations
				}
			}
		}
	}
	return nil
}

// countingCache registra invalidaciones.
type countingCache struct{ invalidations int }

func (c *countingCache) Get(context.Context, string, any) (int64, bool, error) {
	return int64(c.invalidations), false, nil
}
func (c *countingCache) Set(context.Context, int64, string, any) error { return nil }
func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

var _ ports.StatsCache = (*countingCache)(nil)

func emptyRange() repository.DateRange { return repository.DateRange{} }
