package cache

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
)

var _ ports.StatsCache = Noop{}

// Noop caché deshabilitada (REDIS_ADDR vacío): nunca hay aciertos.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (int64, bool, error) { return 0, false, nil }
func (Noop) Set(context.Context, int64, string, any) error         { return nil }
func (Noop) Invalidate(context.Context) error                      { return nil }
