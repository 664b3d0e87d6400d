package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProductDTO producto entre los más vendidos por ingreso.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Units     int64           `json:"units"`
	Revenue   int64           `json:"revenue"`
	COGS      int64           `json:"cogs"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// StatisticsSummary tablero general de la tienda.
type StatisticsSummary struct {
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	Products    int             `json:"products"`
	Brands      int             `json:"brands"`
	Categories  int             `json:"categories"`
	Suppliers   int             `json:"suppliers"`
	StockUnits  int64           `json:"stock_units"`
	StockValue  int64           `json:"stock_value"`
	SalesCount  int             `json:"sales_count"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     int64           `json:"revenue"`
	COGS        int64           `json:"cogs"`
	GrossProfit int64           `json:"gross_profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
	TopProducts []TopProductDTO `json:"top_products"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// LowStockDTO producto con stock igual o inferior a su mínimo.
type LowStockDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"min_stock"`
	Missing   int64  `json:"missing"`
}
