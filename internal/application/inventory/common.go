package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// ParseDateRange interpreta from/to en RFC3339 o YYYY-MM-DD. Un "to" sin hora incluye el día completo.
func ParseDateRange(from, to string) (repository.DateRange, error) {
	var r repository.DateRange
	if from != "" {
		t, err := parseDate(from, false)
		if err != nil {
			return r, err
		}
		r.From = &t
	}
	if to != "" {
		t, err := parseDate(to, true)
		if err != nil {
			return r, err
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, fmt.Errorf("%w: 'to' es anterior a 'from'", domain.ErrInvalidInput)
	}
	return r, nil
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// invalidate descarta la caché de estadísticas; un fallo de caché no revierte la operación ya confirmada.
func invalidate(ctx context.Context, cache ports.StatsCache, log *logger.Logger) {
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("No se pudo invalidar la caché de estadísticas")
	}
}
