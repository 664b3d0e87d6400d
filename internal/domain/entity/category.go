package entity

import "time"

// Category representa una categoría de productos.
type Category struct {
	ID          string
	Name        string // único entre categorías activas
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SoftDelete
}
