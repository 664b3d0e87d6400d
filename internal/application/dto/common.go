package dto

// PageRequest paginación para listados. Deleted=true lista la papelera.
type PageRequest struct {
	Limit   int    `query:"limit" validate:"min=0,max=100"`
	Offset  int    `query:"offset" validate:"min=0"`
	Deleted bool   `query:"deleted"`
	Q       string `query:"q" validate:"max=200"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	// Solo en INSUFFICIENT_STOCK: producto y unidades que faltan.
	ProductID string `json:"product_id,omitempty"`
	Missing   int64  `json:"missing,omitempty"`
}
