package entity

import "time"

// StockOutput cabecera de una salida de stock (venta).
type StockOutput struct {
	ID        string
	Customer  string
	Reference string
	Date      time.Time
	Notes     string
	CreatedBy string
	Lines     []*OutputInfo
	CreatedAt time.Time
	UpdatedAt time.Time
	SoftDelete
}

// OutputInfo línea de venta. UnitCost es el costo FIFO ponderado de las unidades despachadas.
type OutputInfo struct {
	ID          string
	OutputID    string
	ProductID   string
	Count       int64
	UnitPrice   int64
	UnitCost    int64
	Allocations []*OutputAllocation
}

// Revenue ingreso de la línea.
func (l *OutputInfo) Revenue() int64 { return l.Count * l.UnitPrice }

// Cost costo de ventas de la línea.
func (l *OutputInfo) Cost() int64 { return l.Count * l.UnitCost }

// OutputAllocation indica cuántas unidades de un lote (InputInfo) cubrió una línea de venta.
// Permite devolver exactamente ese stock al anular la venta.
type OutputAllocation struct {
	OutputInfoID string
	InputInfoID  string
	Quantity     int64
	UnitCost     int64
}
