package ports

import "time"

// SaleReceiptLine línea del comprobante de venta.
type SaleReceiptLine struct {
	SKU       string
	Name      string
	Count     int64
	UnitPrice int64
	UnitCost  int64
}

// SaleReceipt datos que necesita el generador del comprobante.
type SaleReceipt struct {
	StoreName string
	OutputID  string
	Reference string
	Customer  string
	Date      time.Time
	Cancelled bool
	Lines     []SaleReceiptLine
}

// SaleReceiptGenerator genera la representación PDF de una venta.
type SaleReceiptGenerator interface {
	GenerateSaleReceipt(r *SaleReceipt) ([]byte, error)
}
