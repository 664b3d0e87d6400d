package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const (
	defaultTopProducts = 5
	maxTopProducts     = 50
)

// StatisticsUseCase arma el tablero de estadísticas. Los resúmenes se guardan en caché
// hasta que una entrada o venta invalida la caché.
type StatisticsUseCase struct {
	repo  repository.StatisticsRepository
	cache ports.StatsCache
	log   *logger.Logger
	now   Clock
}

// NewStatisticsUseCase construye el caso de uso. cache y log son obligatorios (usar no-op si no aplica).
func NewStatisticsUseCase(repo repository.StatisticsRepository, cache ports.StatsCache, log *logger.Logger) *StatisticsUseCase {
	return &StatisticsUseCase{repo: repo, cache: cache, log: log.Component("statistics"), now: time.Now}
}

// Summary calcula (o lee de caché) el resumen para el rango dado; top <= 0 usa el valor por defecto.
func (uc *StatisticsUseCase) Summary(ctx context.Context, from, to *time.Time, top int) (*dto.StatisticsSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: 'to' es anterior a 'from'", domain.ErrInvalidInput)
	}
	if top <= 0 {
		top = defaultTopProducts
	}
	if top > maxTopProducts {
		top = maxTopProducts
	}

	key := summaryKey(from, to, top)
	var cached dto.StatisticsSummary
	version, hit, cacheErr := uc.cache.Get(ctx, key, &cached)
	if cacheErr != nil {
		uc.log.Warn().Err(cacheErr).Str("key", key).Msg("No se pudo leer la caché de estadísticas")
	}
	if hit {
		return &cached, nil
	}

	r := repository.DateRange{From: from, To: to}
	counts, err := uc.repo.CatalogCounts(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := uc.repo.StockTotals(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := uc.repo.SalesTotals(ctx, r)
	if err != nil {
		return nil, err
	}
	topRows, err := uc.repo.TopProducts(ctx, r, top)
	if err != nil {
		return nil, err
	}

	out := &dto.StatisticsSummary{
		From:        from,
		To:          to,
		Products:    counts.Products,
		Brands:      counts.Brands,
		Categories:  counts.Categories,
		Suppliers:   counts.Suppliers,
		StockUnits:  stock.Units,
		StockValue:  stock.Value,
		SalesCount:  sales.Count,
		UnitsSold:   sales.Units,
		Revenue:     sales.Revenue,
		COGS:        sales.COGS,
		GrossProfit: sales.Revenue - sales.COGS,
		MarginPct:   inventory.MarginPct(sales.Revenue, sales.COGS),
		TopProducts: make([]dto.TopProductDTO, 0, len(topRows)),
		GeneratedAt: uc.now().UTC(),
	}
	for _, p := range topRows {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID: p.ProductID,
			SKU:       p.SKU,
			Name:      p.Name,
			Units:     p.Units,
			Revenue:   p.Revenue,
			COGS:      p.COGS,
			MarginPct: inventory.MarginPct(p.Revenue, p.COGS),
		})
	}

	// Sin versión confiable no se guarda.
	if cacheErr == nil {
		if err := uc.cache.Set(ctx, version, key, out); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("No se pudo guardar la caché de estadísticas")
		}
	}
	return out, nil
}

// LowStock lista los productos activos con stock igual o inferior a su mínimo.
func (uc *StatisticsUseCase) LowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	rows, err := uc.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockDTO{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			Stock:     r.Stock,
			MinStock:  r.MinStock,
			Missing:   r.MinStock - r.Stock,
		})
	}
	return out, nil
}

func summaryKey(from, to *time.Time, top int) string {
	return fmt.Sprintf("summary:%s:%s:%d", keyTime(from), keyTime(to), top)
}

func keyTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
