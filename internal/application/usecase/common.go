package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
	"github.com/jhoicas/Tienda-api/pkg/textnorm"
)

// Clock permite fijar la hora en tests.
type Clock func() time.Time

func toFilter(p dto.PageRequest) repository.ListFilter {
	p.DefaultPage()
	return repository.ListFilter{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Deleted: p.Deleted,
		Search:  textnorm.SearchKey(p.Q),
	}
}

func toPage(f repository.ListFilter) dto.PageResponse {
	return dto.PageResponse{Limit: f.Limit, Offset: f.Offset}
}

// statsInvalidator descarta la caché de estadísticas tras mutar el catálogo: el resumen
// cuenta productos, marcas, categorías y proveedores activos.
type statsInvalidator struct {
	cache ports.StatsCache
	log   *logger.Logger
}

func newStatsInvalidator(cache ports.StatsCache, log *logger.Logger) statsInvalidator {
	return statsInvalidator{cache: cache, log: log.Component("catalog")}
}

func (s statsInvalidator) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("No se pudo invalidar la caché de estadísticas")
	}
}
