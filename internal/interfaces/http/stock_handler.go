package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// StockHandler entradas (compras) y salidas (ventas) de stock.
type StockHandler struct {
	inputs   *inventory.StockInputUseCase
	outputs  *inventory.StockOutputUseCase
	receipts *inventory.ReceiptUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(inputs *inventory.StockInputUseCase, outputs *inventory.StockOutputUseCase, receipts *inventory.ReceiptUseCase) *StockHandler {
	return &StockHandler{inputs: inputs, outputs: outputs, receipts: receipts}
}

// parseRange lee from/to del query string.
func parseRange(c *fiber.Ctx) (repository.DateRange, error) {
	var in dto.DateRangeRequest
	if err := c.QueryParser(&in); err != nil {
		return repository.DateRange{}, errInvalidBody
	}
	return inventory.ParseDateRange(in.From, in.To)
}

// CreateInput godoc
// @Summary      Registrar entrada de stock
// @Description  Cada línea crea un lote FIFO y recalcula el costo promedio del producto.
// @Tags         inputs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInputRequest  true  "proveedor y líneas"
// @Success      201   {object}  dto.InputResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inputs [post]
func (h *StockHandler) CreateInput(c *fiber.Ctx) error {
	var in dto.CreateInputRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.inputs.CreateInput(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *StockHandler) GetInput(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.inputs.GetInput(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) ListInputs(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := parseRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.inputs.ListInputs(c.UserContext(), page, r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteInput falla con 409 si algún lote ya fue vendido.
func (h *StockHandler) DeleteInput(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.inputs.DeleteInput(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StockHandler) RestoreInput(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.inputs.RestoreInput(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateOutput godoc
// @Summary      Registrar venta
// @Description  Descuenta stock en orden FIFO; el costo unitario de cada línea es el promedio ponderado de los lotes consumidos.
// @Tags         outputs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutputRequest  true  "cliente y líneas"
// @Success      201   {object}  dto.OutputResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con product_id y missing"
// @Router       /api/outputs [post]
func (h *StockHandler) CreateOutput(c *fiber.Ctx) error {
	var in dto.CreateOutputRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.outputs.CreateOutput(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *StockHandler) GetOutput(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.outputs.GetOutput(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) ListOutputs(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := parseRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.outputs.ListOutputs(c.UserContext(), page, r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteOutput anula la venta y devuelve las unidades a sus lotes de origen.
func (h *StockHandler) DeleteOutput(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.outputs.DeleteOutput(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RestoreOutput vuelve a asignar la venta por FIFO; 409 si ya no hay stock.
func (h *StockHandler) RestoreOutput(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.outputs.RestoreOutput(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OutputPDF godoc
// @Summary      Comprobante PDF de la venta
// @Tags         outputs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outputs/{id}/pdf [get]
func (h *StockHandler) OutputPDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, filename, err := h.receipts.OutputReceiptPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(doc)
}
