package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El costo se calcula con las entradas de stock.
type CreateProductRequest struct {
	SKU         string `json:"sku" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	BrandID     string `json:"brand_id" validate:"required,uuid"`
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	Price       int64  `json:"price" validate:"min=0,max=10000000000"`
	MinStock    int64  `json:"min_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni stock).
type UpdateProductRequest struct {
	SKU         *string `json:"sku" validate:"omitempty,min=1,max=100"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	BrandID     *string `json:"brand_id" validate:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	Price       *int64  `json:"price" validate:"omitempty,min=0,max=10000000000"`
	MinStock    *int64  `json:"min_stock" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto. Stock solo se informa en el detalle.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BrandID     string          `json:"brand_id"`
	CategoryID  string          `json:"category_id"`
	Price       int64           `json:"price"`
	AverageCost decimal.Decimal `json:"average_cost"`
	MinStock    int64           `json:"min_stock"`
	Stock       *int64          `json:"stock,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BatchResponse lote FIFO vivo de un producto.
type BatchResponse struct {
	ID             string    `json:"id"`
	InputID        string    `json:"input_id"`
	Count          int64     `json:"count"`
	RemainingCount int64     `json:"remaining_count"`
	UnitCost       int64     `json:"unit_cost"`
	CreatedAt      time.Time `json:"created_at"`
}

// BatchListResponse cola FIFO del producto, del lote más antiguo al más nuevo.
type BatchListResponse struct {
	ProductID string          `json:"product_id"`
	Stock     int64           `json:"stock"`
	Items     []BatchResponse `json:"items"`
}
