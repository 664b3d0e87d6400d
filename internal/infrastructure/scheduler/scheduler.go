package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// StatisticsService lo que el scheduler necesita del caso de uso de estadísticas.
type StatisticsService interface {
	LowStock(ctx context.Context) ([]dto.LowStockDTO, error)
	Summary(ctx context.Context, from, to *time.Time, top int) (*dto.StatisticsSummary, error)
}

// Scheduler ejecuta los trabajos periódicos: alerta de stock bajo y precarga del resumen.
type Scheduler struct {
	cron  *cron.Cron
	stats StatisticsService
	spec  string
	log   *logger.Logger
}

// New crea el scheduler. spec es una expresión cron estándar de 5 campos; vacío = deshabilitado.
func New(spec string, stats StatisticsService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		stats: stats,
		spec:  spec,
		log:   log.Component("scheduler"),
	}
}

// Start registra los trabajos y arranca el cron.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info().Msg("Scheduler deshabilitado")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.lowStockJob); err != nil {
		return fmt.Errorf("scheduler: expresión cron inválida %q: %w", s.spec, err)
	}
	s.log.Info().Str("spec", s.spec).Msg("Scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine el trabajo en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler detenido")
}

func (s *Scheduler) lowStockJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.run(ctx)
}

// run revisa el stock bajo y deja el resumen general en caché. Devuelve cuántos productos alertó.
func (s *Scheduler) run(ctx context.Context) int {
	rows, err := s.stats.LowStock(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("No se pudo consultar el stock bajo")
		return 0
	}
	for _, r := range rows {
		s.log.Warn().
			Str("product_id", r.ProductID).
			Str("sku", r.SKU).
			Int64("stock", r.Stock).
			Int64("min_stock", r.MinStock).
			Msg("Stock bajo")
	}

	if _, err := s.stats.Summary(ctx, nil, nil, 0); err != nil {
		s.log.Error().Err(err).Msg("No se pudo precargar el resumen de estadísticas")
	}
	return len(rows)
}
