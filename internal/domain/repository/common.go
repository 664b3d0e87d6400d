package repository

import "time"

// ListFilter filtros comunes de listados paginados.
// Deleted=true lista solo la papelera (registros con borrado lógico).
type ListFilter struct {
	Limit   int
	Offset  int
	Deleted bool
	Search  string // clave normalizada (ver textnorm.SearchKey); vacío = sin filtro
}

// DateRange rango opcional de fechas (nil = abierto).
type DateRange struct {
	From *time.Time
	To   *time.Time
}
