package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
)

// ProductHandler CRUD de productos más la consulta de lotes FIFO.
type ProductHandler struct {
	*ResourceHandler[dto.CreateProductRequest, dto.UpdateProductRequest, dto.ProductResponse, dto.ProductListResponse]
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		ResourceHandler: NewResourceHandler[dto.CreateProductRequest, dto.UpdateProductRequest, dto.ProductResponse, dto.ProductListResponse](uc),
		uc:              uc,
	}
}

// Batches godoc
// @Summary      Lotes con stock de un producto, en orden FIFO
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [get]
func (h *ProductHandler) Batches(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListBatches(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
