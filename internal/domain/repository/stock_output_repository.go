package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// StockOutputRepository persistencia de ventas, sus líneas y las asignaciones a lotes.
type StockOutputRepository interface {
	// Create inserta cabecera, líneas y asignaciones.
	Create(ctx context.Context, output *entity.StockOutput) error
	// GetByID devuelve la venta con líneas y asignaciones (incluye borradas); nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockOutput, error)
	List(ctx context.Context, f ListFilter, r DateRange) ([]*entity.StockOutput, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	// ReplaceAllocations reemplaza costo unitario y asignaciones de cada línea (restaurar venta).
	ReplaceAllocations(ctx context.Context, lines []*entity.OutputInfo) error
}
