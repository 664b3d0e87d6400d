package entity

import "time"

// Brand representa una marca comercial de productos.
type Brand struct {
	ID          string
	Name        string // único entre marcas activas
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SoftDelete
}
