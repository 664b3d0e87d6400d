package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
)

const brandID = "7b0a3c1e-5f2d-4e8a-9c61-2d4f8e1a0b3c"

// fakeBrands resourceService en memoria.
type fakeBrands struct {
	items   map[string]*dto.BrandResponse
	deleted map[string]bool
	page    dto.PageRequest
}

func newFakeBrands() *fakeBrands {
	return &fakeBrands{
		items:   map[string]*dto.BrandResponse{brandID: {ID: brandID, Name: "Acme"}},
		deleted: map[string]bool{},
	}
}

func (f *fakeBrands) Create(_ context.Context, in dto.BrandRequest) (*dto.BrandResponse, error) {
	for _, b := range f.items {
		if b.Name == in.Name {
			return nil, domain.ErrDuplicate
		}
	}
	b := &dto.BrandResponse{ID: "nuevo", Name: in.Name, Description: in.Description}
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBrands) GetByID(_ context.Context, id string) (*dto.BrandResponse, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBrands) Update(ctx context.Context, id string, in dto.BrandRequest) (*dto.BrandResponse, error) {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Name = in.Name
	return b, nil
}

func (f *fakeBrands) List(_ context.Context, page dto.PageRequest) (*dto.BrandListResponse, error) {
	f.page = page
	out := &dto.BrandListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, b := range f.items {
		out.Items = append(out.Items, *b)
	}
	return out, nil
}

func (f *fakeBrands) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok || f.deleted[id] {
		return domain.ErrNotFound
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeBrands) Restore(_ context.Context, id string) (*dto.BrandResponse, error) {
	if !f.deleted[id] {
		return nil, fmt.Errorf("%w: no está en la papelera", domain.ErrConflict)
	}
	delete(f.deleted, id)
	return f.items[id], nil
}

// withPerms simula el AuthMiddleware cargando la identidad en Locals.
func withPerms(perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, "u-1")
		c.Locals(LocalRole, "test")
		c.Locals(LocalPermissions, perms)
		return c.Next()
	}
}

func brandApp(svc *fakeBrands, perms ...string) *fiber.App {
	app := fiber.New()
	g := app.Group("/brands", withPerms(perms...))
	NewResourceHandler[dto.BrandRequest, dto.BrandRequest, dto.BrandResponse, dto.BrandListResponse](svc).
		register(g, "catalog.read", "catalog.write")
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(raw)
}

func TestResource_CrearYDuplicado(t *testing.T) {
	app := brandApp(newFakeBrands(), "catalog.read", "catalog.write")

	resp, body := call(t, app, http.MethodPost, "/brands", `{"name":"Nueva"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, body, `"name":"Nueva"`)

	resp, body = call(t, app, http.MethodPost, "/brands", `{"name":"Acme"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "DUPLICATE")
}

func TestResource_ValidacionPorCampo(t *testing.T) {
	app := brandApp(newFakeBrands(), "catalog.write")

	resp, body := call(t, app, http.MethodPost, "/brands", `{"description":"sin nombre"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &er))
	assert.Equal(t, "VALIDATION", er.Code)
	assert.Contains(t, er.Fields, "name")
}

func TestResource_CuerpoInvalido(t *testing.T) {
	app := brandApp(newFakeBrands(), "catalog.write")
	resp, body := call(t, app, http.MethodPost, "/brands", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "INVALID_BODY")
}

func TestResource_SoloLecturaNoEscribe(t *testing.T) {
	app := brandApp(newFakeBrands(), "catalog.read")

	resp, _ := call(t, app, http.MethodGet, "/brands/"+brandID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodDelete, "/brands/"+brandID, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestResource_IDMalFormadoEs404(t *testing.T) {
	app := brandApp(newFakeBrands(), "catalog.read")
	resp, body := call(t, app, http.MethodGet, "/brands/no-es-uuid", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "NOT_FOUND")
}

func TestResource_CicloPapelera(t *testing.T) {
	app := brandApp(newFakeBrands(), "catalog.read", "catalog.write")

	resp, _ := call(t, app, http.MethodPost, "/brands/"+brandID+"/restore", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "restaurar algo activo es conflicto")

	resp, _ = call(t, app, http.MethodDelete, "/brands/"+brandID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = call(t, app, http.MethodDelete, "/brands/"+brandID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "borrar dos veces es 404")

	resp, _ = call(t, app, http.MethodPost, "/brands/"+brandID+"/restore", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResource_ListPaginacion(t *testing.T) {
	svc := newFakeBrands()
	app := brandApp(svc, "catalog.read")

	resp, _ := call(t, app, http.MethodGet, "/brands?offset=10&deleted=true&q=acm", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 20, svc.page.Limit, "limit por defecto")
	assert.Equal(t, 10, svc.page.Offset)
	assert.True(t, svc.page.Deleted)
	assert.Equal(t, "acm", svc.page.Q)

	resp, body := call(t, app, http.MethodGet, "/brands?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "limit")
}

func TestErrorResponse_StockInsuficiente(t *testing.T) {
	err := fmt.Errorf("crear venta: %w", &inventory.InsufficientInventoryError{ProductID: "p-1", Missing: 3})
	status, body := errorResponse(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "p-1", body.ProductID)
	assert.Equal(t, int64(3), body.Missing)
}

func TestErrorResponse_Mapeo(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_EXISTS"},
		{fmt.Errorf("x: %w", domain.ErrConflict), http.StatusConflict, "CONFLICT"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, body := errorResponse(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code, tc.err.Error())
	}
}

func TestValidateStruct_LineasAnidadas(t *testing.T) {
	err := validateStruct(&dto.CreateInputRequest{
		SupplierID: brandID,
		Lines:      []dto.InputLineRequest{{ProductID: "x", Count: 0}},
	})
	var verr *validationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, verr.fields, "lines[0].product_id")
	assert.Contains(t, verr.fields, "lines[0].count")
}

func TestValidateStruct_LimitesDeImportes(t *testing.T) {
	price := int64(10_000_000_001)
	err := validateStruct(&dto.CreateOutputRequest{
		Lines: []dto.OutputLineRequest{{ProductID: brandID, Count: 1_000_001, UnitPrice: &price}},
	})
	var verr *validationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.fields, "lines[0].count")
	assert.Contains(t, verr.fields, "lines[0].unit_price")
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	Router(app, RouterDeps{JWTSecret: "s", Health: func(context.Context) error { return nil }})
	resp, body := call(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ok")

	app = fiber.New()
	Router(app, RouterDeps{JWTSecret: "s", Health: func(context.Context) error { return errors.New("down") }})
	resp, _ = call(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_RutasProtegidas(t *testing.T) {
	app := fiber.New()
	Router(app, RouterDeps{JWTSecret: "s"})
	resp, _ := call(t, app, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
