package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/usecase"
)

// StatisticsHandler tablero de estadísticas.
type StatisticsHandler struct {
	uc *usecase.StatisticsUseCase
}

func NewStatisticsHandler(uc *usecase.StatisticsUseCase) *StatisticsHandler {
	return &StatisticsHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de inventario y ventas
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query  string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Param        top   query  int     false  "Cantidad de productos en el ranking"  default(5)
// @Success      200   {object}  dto.StatisticsSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/statistics/summary [get]
func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	r, err := parseRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), r.From, r.To, c.QueryInt("top", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *StatisticsHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}
