package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// StockInputRepository persistencia de entradas de stock y de sus lotes (InputInfo).
type StockInputRepository interface {
	// Create inserta la cabecera y todas sus líneas.
	Create(ctx context.Context, input *entity.StockInput) error
	// GetByID devuelve la entrada con sus líneas (incluye borradas); nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockInput, error)
	List(ctx context.Context, f ListFilter, r DateRange) ([]*entity.StockInput, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error

	// ListAvailableForUpdate devuelve los lotes con RemainingCount > 0 del producto, de entradas
	// activas, en orden FIFO (fecha de entrada, luego creación) y bloqueados con FOR UPDATE.
	ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.InputInfo, error)
	// ListBatchesByProduct igual que el anterior pero sin bloqueo (consultas).
	ListBatchesByProduct(ctx context.Context, productID string) ([]*entity.InputInfo, error)
	// GetLinesForUpdate bloquea lotes concretos por ID (devolución de stock al anular ventas).
	GetLinesForUpdate(ctx context.Context, ids []string) ([]*entity.InputInfo, error)
	// UpdateRemaining persiste el nuevo RemainingCount de un lote.
	UpdateRemaining(ctx context.Context, lineID string, remaining int64) error
	// StockByProduct suma RemainingCount de lotes activos del producto.
	StockByProduct(ctx context.Context, productID string) (int64, error)
}
