package ports

import (
	"context"
)

// StatsCache define el puerto de caché para los resultados de estadísticas.
// Cualquier adaptador (Redis, memoria, no-op) debe implementar esta interfaz.
// Get devuelve la versión vigente junto con el resultado; Set escribe bajo esa misma versión,
// así un resumen calculado antes de una invalidación nunca queda visible después de ella.
// Los errores de caché nunca deben impedir calcular la respuesta.
type StatsCache interface {
	Get(ctx context.Context, key string, dst any) (version int64, hit bool, err error)
	Set(ctx context.Context, version int64, key string, value any) error
	// Invalidate descarta todas las entradas (cambió el inventario o el catálogo).
	Invalidate(ctx context.Context) error
}
