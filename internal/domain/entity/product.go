package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// El stock no se guarda en el producto: es la suma de RemainingCount de sus lotes (InputInfo).
type Product struct {
	ID          string
	SKU         string // único entre productos activos
	Name        string
	SearchKey   string // Name normalizado (sin tildes, minúsculas) para búsquedas
	Description string
	BrandID     string
	CategoryID  string
	Price       int64           // precio de venta en la unidad mínima de moneda
	AverageCost decimal.Decimal // costo promedio ponderado de las entradas (referencial)
	MinStock    int64           // umbral de alerta de stock bajo
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SoftDelete
}
