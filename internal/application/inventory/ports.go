package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		inputRepo repository.StockInputRepository,
		outputRepo repository.StockOutputRepository,
		productRepo repository.ProductRepository,
	) error) error
}
