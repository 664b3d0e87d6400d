package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
)

// resourceService operaciones comunes de los recursos con papelera (marcas, categorías,
// proveedores, productos, usuarios y roles). C y U son los DTO de alta y edición.
type resourceService[C, U, R, L any] interface {
	Create(ctx context.Context, in C) (*R, error)
	GetByID(ctx context.Context, id string) (*R, error)
	Update(ctx context.Context, id string, in U) (*R, error)
	List(ctx context.Context, page dto.PageRequest) (*L, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*R, error)
}

// ResourceHandler expone un resourceService como CRUD REST.
type ResourceHandler[C, U, R, L any] struct {
	svc resourceService[C, U, R, L]
}

// NewResourceHandler construye el handler.
func NewResourceHandler[C, U, R, L any](svc resourceService[C, U, R, L]) *ResourceHandler[C, U, R, L] {
	return &ResourceHandler[C, U, R, L]{svc: svc}
}

// register monta las rutas estándar: lectura con readPerm, escritura con writePerm.
func (h *ResourceHandler[C, U, R, L]) register(g fiber.Router, readPerm, writePerm string) {
	read := RequirePermission(readPerm)
	write := RequirePermission(writePerm)
	g.Get("/", read, h.List)
	g.Post("/", write, h.Create)
	g.Get("/:id", read, h.GetByID)
	g.Put("/:id", write, h.Update)
	g.Delete("/:id", write, h.Delete)
	g.Post("/:id/restore", write, h.Restore)
}

func (h *ResourceHandler[C, U, R, L]) Create(c *fiber.Ctx) error {
	var in C
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID también devuelve registros en la papelera (deleted_at informado).
func (h *ResourceHandler[C, U, R, L]) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List acepta limit, offset, q y deleted=true para ver la papelera.
func (h *ResourceHandler[C, U, R, L]) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *ResourceHandler[C, U, R, L]) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in U
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete envía a la papelera; 204 sin cuerpo.
func (h *ResourceHandler[C, U, R, L]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ResourceHandler[C, U, R, L]) Restore(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Restore(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
