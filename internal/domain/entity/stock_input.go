package entity

import "time"

// StockInput cabecera de una entrada de stock (compra a proveedor).
type StockInput struct {
	ID         string
	SupplierID string
	Reference  string // factura o remisión del proveedor
	Date       time.Time
	Notes      string
	CreatedBy  string
	Lines      []*InputInfo
	CreatedAt  time.Time
	UpdatedAt  time.Time
	SoftDelete
}

// InputInfo es una línea de entrada y a la vez un lote FIFO: RemainingCount baja con cada venta.
// Invariante: 0 <= RemainingCount <= Count.
type InputInfo struct {
	ID             string
	InputID        string
	ProductID      string
	Count          int64
	RemainingCount int64
	UnitCost       int64
	CreatedAt      time.Time
}

// Consumed informa si alguna unidad del lote ya salió en una venta.
func (l *InputInfo) Consumed() bool {
	return l.RemainingCount != l.Count
}

// TotalCost costo total de la línea recibida.
func (l *InputInfo) TotalCost() int64 {
	return l.Count * l.UnitCost
}
