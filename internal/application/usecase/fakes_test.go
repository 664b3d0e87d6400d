package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ── marcas / categorías ─────────────────────────────────────────────────────

type fakeBrandRepo struct{ items map[string]*entity.Brand }

func newFakeBrandRepo() *fakeBrandRepo { return &fakeBrandRepo{items: map[string]*entity.Brand{}} }

func (f *fakeBrandRepo) Create(_ context.Context, b *entity.Brand) error {
	c := *b
	f.items[b.ID] = &c
	return nil
}
func (f *fakeBrandRepo) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}
func (f *fakeBrandRepo) GetActiveByName(_ context.Context, name string) (*entity.Brand, error) {
	for _, b := range f.items {
		if b.Name == name && !b.IsDeleted() {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}
func (f *fakeBrandRepo) Update(_ context.Context, b *entity.Brand) error {
	c := *b
	f.items[b.ID] = &c
	return nil
}
func (f *fakeBrandRepo) List(_ context.Context, lf repository.ListFilter) ([]*entity.Brand, error) {
	var out []*entity.Brand
	for _, b := range f.items {
		if b.IsDeleted() == lf.Deleted {
			out = append(out, b)
		}
	}
	return out, nil
}
func (f *fakeBrandRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.items[id].DeletedAt = &at
	return nil
}
func (f *fakeBrandRepo) Restore(_ context.Context, id string) error {
	f.items[id].DeletedAt = nil
	return nil
}

type fakeCategoryRepo struct{ items map[string]*entity.Category }

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[string]*entity.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	f.items[c.ID] = &cp
	return nil
}
func (f *fakeCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (f *fakeCategoryRepo) GetActiveByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range f.items {
		if c.Name == name && !c.IsDeleted() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}
func (f *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	f.items[c.ID] = &cp
	return nil
}
func (f *fakeCategoryRepo) List(_ context.Context, lf repository.ListFilter) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range f.items {
		if c.IsDeleted() == lf.Deleted {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCategoryRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.items[id].DeletedAt = &at
	return nil
}
func (f *fakeCategoryRepo) Restore(_ context.Context, id string) error {
	f.items[id].DeletedAt = nil
	return nil
}

// ── productos ───────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	items      map[string]*entity.Product
	lastFilter repository.ListFilter
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]*entity.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	c := *p
	f.items[p.ID] = &c
	return nil
}
func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}
func (f *fakeProductRepo) GetActiveBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.SKU == sku && !p.IsDeleted() {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}
func (f *fakeProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}
func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	c := *p
	f.items[p.ID] = &c
	return nil
}
func (f *fakeProductRepo) UpdateAverageCost(_ context.Context, id string, cost decimal.Decimal) error {
	f.items[id].AverageCost = cost
	return nil
}
func (f *fakeProductRepo) List(_ context.Context, lf repository.ListFilter) ([]*entity.Product, error) {
	f.lastFilter = lf
	var out []*entity.Product
	for _, p := range f.items {
		if p.IsDeleted() == lf.Deleted {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakeProductRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.items[id].DeletedAt = &at
	return nil
}
func (f *fakeProductRepo) Restore(_ context.Context, id string) error {
	f.items[id].DeletedAt = nil
	return nil
}

// fakeBatchRepo implementa solo las consultas de lotes que usa ProductUseCase.
type fakeBatchRepo struct {
	repository.StockInputRepository
	batches map[string][]*entity.InputInfo
}

func (f *fakeBatchRepo) ListBatchesByProduct(_ context.Context, productID string) ([]*entity.InputInfo, error) {
	var out []*entity.InputInfo
	for _, b := range f.batches[productID] {
		if b.RemainingCount > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}
func (f *fakeBatchRepo) StockByProduct(_ context.Context, productID string) (int64, error) {
	var n int64
	for _, b := range f.batches[productID] {
		n += b.RemainingCount
	}
	return n, nil
}

// ── usuarios / roles ────────────────────────────────────────────────────────

type fakeUserRepo struct{ items map[string]*entity.User }

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{items: map[string]*entity.User{}} }

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	c := *u
	f.items[u.ID] = &c
	return nil
}
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}
func (f *fakeUserRepo) GetActiveByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.items {
		if u.Email == email && !u.IsDeleted() {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	c := *u
	f.items[u.ID] = &c
	return nil
}
func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.items[id].PasswordHash = hash
	return nil
}
func (f *fakeUserRepo) List(_ context.Context, lf repository.ListFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.items {
		if u.IsDeleted() == lf.Deleted {
			out = append(out, u)
		}
	}
	return out, nil
}
func (f *fakeUserRepo) CountByRole(_ context.Context, roleID string) (int, error) {
	n := 0
	for _, u := range f.items {
		if u.RoleID == roleID && !u.IsDeleted() {
			n++
		}
	}
	return n, nil
}
func (f *fakeUserRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.items[id].DeletedAt = &at
	return nil
}
func (f *fakeUserRepo) Restore(_ context.Context, id string) error {
	f.items[id].DeletedAt = nil
	return nil
}

type fakeRoleRepo struct{ items map[string]*entity.Role }

func newFakeRoleRepo() *fakeRoleRepo { return &fakeRoleRepo{items: map[string]*entity.Role{}} }

func (f *fakeRoleRepo) Create(_ context.Context, r *entity.Role) error {
	c := *r
	f.items[r.ID] = &c
	return nil
}
func (f *fakeRoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}
func (f *fakeRoleRepo) GetActiveByName(_ context.Context, name string) (*entity.Role, error) {
	for _, r := range f.items {
		if r.Name == name && !r.IsDeleted() {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}
func (f *fakeRoleRepo) Update(_ context.Context, r *entity.Role) error {
	c := *r
	f.items[r.ID] = &c
	return nil
}
func (f *fakeRoleRepo) List(_ context.Context, lf repository.ListFilter) ([]*entity.Role, error) {
	var out []*entity.Role
	for _, r := range f.items {
		if r.IsDeleted() == lf.Deleted {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRoleRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.items[id].DeletedAt = &at
	return nil
}
func (f *fakeRoleRepo) Restore(_ context.Context, id string) error {
	f.items[id].DeletedAt = nil
	return nil
}

// ── estadísticas ────────────────────────────────────────────────────────────

type fakeStatsRepo struct {
	calls    int
	counts   repository.CatalogCounts
	stock    repository.StockTotals
	sales    repository.SalesTotals
	top      []repository.ProductSales
	lowStock []repository.LowStockRow
	// onCounts corre mientras se calcula el resumen.
	onCounts func()
}

func (f *fakeStatsRepo) CatalogCounts(context.Context) (repository.CatalogCounts, error) {
	f.calls++
	if f.onCounts != nil {
		f.onCounts()
	}
	return f.counts, nil
}
func (f *fakeStatsRepo) StockTotals(context.Context) (repository.StockTotals, error) {
	return f.stock, nil
}
func (f *fakeStatsRepo) SalesTotals(context.Context, repository.DateRange) (repository.SalesTotals, error) {
	return f.sales, nil
}
func (f *fakeStatsRepo) TopProducts(_ context.Context, _ repository.DateRange, limit int) ([]repository.ProductSales, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}
func (f *fakeStatsRepo) LowStock(context.Context) ([]repository.LowStockRow, error) {
	return f.lowStock, nil
}

func repositoryCounts(products int) repository.CatalogCounts {
	return repository.CatalogCounts{Products: products}
}

// memCache caché en memoria versionada que serializa a JSON como lo haría Redis.
type memCache struct {
	data        map[string][]byte
	version     int64
	invalidated int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func memKey(version int64, key string) string { return fmt.Sprintf("v%d:%s", version, key) }

func (m *memCache) Get(_ context.Context, key string, dst any) (int64, bool, error) {
	raw, ok := m.data[memKey(m.version, key)]
	if !ok {
		return m.version, false, nil
	}
	return m.version, true, json.Unmarshal(raw, dst)
}
func (m *memCache) Set(_ context.Context, version int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[memKey(version, key)] = raw
	return nil
}
func (m *memCache) Invalidate(context.Context) error {
	m.version++
	m.invalidated++
	return nil
}
