package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepo)(nil)

// StatisticsRepo consultas agregadas de solo lectura para el tablero.
type StatisticsRepo struct {
	q Querier
}

func NewStatisticsRepository(q Querier) *StatisticsRepo {
	return &StatisticsRepo{q: q}
}

// liveBatches lotes con stock de entradas activas y productos activos.
const liveBatches = `
	FROM input_infos ii
	JOIN stock_inputs si ON si.id = ii.input_id AND si.deleted_at IS NULL
	JOIN products p ON p.id = ii.product_id AND p.deleted_at IS NULL`

// activeSales líneas de ventas activas.
const activeSales = `
	FROM output_infos oi
	JOIN stock_outputs so ON so.id = oi.output_id AND so.deleted_at IS NULL`

func (r *StatisticsRepo) CatalogCounts(ctx context.Context) (repository.CatalogCounts, error) {
	query := `
		SELECT
			(SELECT count(*) FROM products WHERE deleted_at IS NULL),
			(SELECT count(*) FROM brands WHERE deleted_at IS NULL),
			(SELECT count(*) FROM categories WHERE deleted_at IS NULL),
			(SELECT count(*) FROM suppliers WHERE deleted_at IS NULL)`
	var c repository.CatalogCounts
	if err := r.q.QueryRow(ctx, query).Scan(&c.Products, &c.Brands, &c.Categories, &c.Suppliers); err != nil {
		return c, fmt.Errorf("catalog counts: %w", err)
	}
	return c, nil
}

func (r *StatisticsRepo) StockTotals(ctx context.Context) (repository.StockTotals, error) {
	query := `SELECT COALESCE(SUM(ii.remaining_count), 0)::BIGINT, COALESCE(SUM(ii.remaining_count * ii.unit_cost), 0)::BIGINT` + liveBatches
	var t repository.StockTotals
	if err := r.q.QueryRow(ctx, query).Scan(&t.Units, &t.Value); err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}

func (r *StatisticsRepo) SalesTotals(ctx context.Context, dr repository.DateRange) (repository.SalesTotals, error) {
	where, args := dateRangeClause("so.date", dr, nil)
	query := `
		SELECT count(DISTINCT so.id), COALESCE(SUM(oi.count), 0)::BIGINT,
			COALESCE(SUM(oi.count * oi.unit_price), 0)::BIGINT, COALESCE(SUM(oi.count * oi.unit_cost), 0)::BIGINT` +
		activeSales + ` WHERE TRUE` + where
	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, args...).Scan(&t.Count, &t.Units, &t.Revenue, &t.COGS); err != nil {
		return t, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}

func (r *StatisticsRepo) TopProducts(ctx context.Context, dr repository.DateRange, limit int) ([]repository.ProductSales, error) {
	args := []any{limit}
	where, args := dateRangeClause("so.date", dr, args)
	query := `
		SELECT p.id, p.sku, p.name, SUM(oi.count)::BIGINT, SUM(oi.count * oi.unit_price)::BIGINT, SUM(oi.count * oi.unit_cost)::BIGINT` +
		activeSales + `
		JOIN products p ON p.id = oi.product_id
		WHERE TRUE` + where + `
		GROUP BY p.id, p.sku, p.name
		ORDER BY 5 DESC, p.sku
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductSales
	for rows.Next() {
		var s repository.ProductSales
		if err := rows.Scan(&s.ProductID, &s.SKU, &s.Name, &s.Units, &s.Revenue, &s.COGS); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StatisticsRepo) LowStock(ctx context.Context) ([]repository.LowStockRow, error) {
	query := `
		SELECT p.id, p.sku, p.name, COALESCE(s.stock, 0), p.min_stock
		FROM products p
		LEFT JOIN (
			SELECT ii.product_id, SUM(ii.remaining_count)::BIGINT AS stock
			FROM input_infos ii
			JOIN stock_inputs si ON si.id = ii.input_id AND si.deleted_at IS NULL
			GROUP BY ii.product_id
		) s ON s.product_id = p.id
		WHERE p.deleted_at IS NULL AND COALESCE(s.stock, 0) <= p.min_stock
		ORDER BY p.min_stock - COALESCE(s.stock, 0) DESC, p.sku`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRow
	for rows.Next() {
		var l repository.LowStockRow
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.Stock, &l.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
