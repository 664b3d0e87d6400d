package entity

import "time"

// Supplier representa un proveedor al que se le compran las entradas de stock.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // NIT / documento, único entre proveedores activos
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	SoftDelete
}
