package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InputLineRequest línea de una entrada de stock.
type InputLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Count     int64  `json:"count" validate:"required,min=1,max=1000000"`
	UnitCost  int64  `json:"unit_cost" validate:"min=0,max=10000000000"`
}

// CreateInputRequest body para POST /api/inputs.
type CreateInputRequest struct {
	SupplierID string             `json:"supplier_id" validate:"required,uuid"`
	Reference  string             `json:"reference" validate:"max=100"`
	Date       *time.Time         `json:"date"`
	Notes      string             `json:"notes" validate:"max=1000"`
	Lines      []InputLineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

// InputLineResponse salida de un lote de entrada.
type InputLineResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	Count          int64  `json:"count"`
	RemainingCount int64  `json:"remaining_count"`
	UnitCost       int64  `json:"unit_cost"`
	TotalCost      int64  `json:"total_cost"`
}

// InputResponse salida de una entrada de stock.
type InputResponse struct {
	ID         string              `json:"id"`
	SupplierID string              `json:"supplier_id"`
	Reference  string              `json:"reference"`
	Date       time.Time           `json:"date"`
	Notes      string              `json:"notes"`
	CreatedBy  string              `json:"created_by"`
	Total      int64               `json:"total"`
	Lines      []InputLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	DeletedAt  *time.Time          `json:"deleted_at,omitempty"`
}

// InputListResponse lista paginada de entradas.
type InputListResponse struct {
	Items []InputResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OutputLineRequest línea de una venta.
type OutputLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Count     int64  `json:"count" validate:"required,min=1,max=1000000"`
	UnitPrice *int64 `json:"unit_price" validate:"omitempty,min=0,max=10000000000"` // nil = precio de lista
}

// CreateOutputRequest body para POST /api/outputs.
type CreateOutputRequest struct {
	Customer  string              `json:"customer" validate:"max=200"`
	Reference string              `json:"reference" validate:"max=100"`
	Date      *time.Time          `json:"date"`
	Notes     string              `json:"notes" validate:"max=1000"`
	Lines     []OutputLineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

// AllocationResponse unidades tomadas de un lote.
type AllocationResponse struct {
	InputInfoID string `json:"input_info_id"`
	Quantity    int64  `json:"quantity"`
	UnitCost    int64  `json:"unit_cost"`
}

// OutputLineResponse salida de una línea de venta con su costo FIFO.
type OutputLineResponse struct {
	ID          string               `json:"id"`
	ProductID   string               `json:"product_id"`
	Count       int64                `json:"count"`
	UnitPrice   int64                `json:"unit_price"`
	UnitCost    int64                `json:"unit_cost"`
	Revenue     int64                `json:"revenue"`
	Cost        int64                `json:"cost"`
	MarginPct   decimal.Decimal      `json:"margin_pct"`
	Allocations []AllocationResponse `json:"allocations"`
}

// OutputResponse salida de una venta.
type OutputResponse struct {
	ID        string               `json:"id"`
	Customer  string               `json:"customer"`
	Reference string               `json:"reference"`
	Date      time.Time            `json:"date"`
	Notes     string               `json:"notes"`
	CreatedBy string               `json:"created_by"`
	Revenue   int64                `json:"revenue"`
	Cost      int64                `json:"cost"`
	Lines     []OutputLineResponse `json:"lines"`
	CreatedAt time.Time            `json:"created_at"`
	DeletedAt *time.Time           `json:"deleted_at,omitempty"`
}

// OutputListResponse lista paginada de ventas.
type OutputListResponse struct {
	Items []OutputResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// DateRangeRequest filtros de fecha en query (RFC3339 o YYYY-MM-DD).
type DateRangeRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}
