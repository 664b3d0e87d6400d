package repository

import (
	"context"
)

// CatalogCounts cantidad de registros activos por catálogo.
type CatalogCounts struct {
	Products   int
	Brands     int
	Categories int
	Suppliers  int
}

// StockTotals unidades y valor (Σ RemainingCount × UnitCost) del stock vivo.
type StockTotals struct {
	Units int64
	Value int64
}

// SalesTotals agregados de ventas activas en un rango.
type SalesTotals struct {
	Count   int
	Units   int64
	Revenue int64
	COGS    int64
}

// ProductSales ventas agregadas por producto.
type ProductSales struct {
	ProductID string
	SKU       string
	Name      string
	Units     int64
	Revenue   int64
	COGS      int64
}

// LowStockRow producto con stock igual o inferior a su mínimo.
type LowStockRow struct {
	ProductID string
	SKU       string
	Name      string
	Stock     int64
	MinStock  int64
}

// StatisticsRepository consultas de lectura para el tablero de estadísticas.
type StatisticsRepository interface {
	CatalogCounts(ctx context.Context) (CatalogCounts, error)
	StockTotals(ctx context.Context) (StockTotals, error)
	SalesTotals(ctx context.Context, r DateRange) (SalesTotals, error)
	TopProducts(ctx context.Context, r DateRange, limit int) ([]ProductSales, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
}
