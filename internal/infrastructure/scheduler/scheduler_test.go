package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

type fakeStats struct {
	rows        []dto.LowStockDTO
	lowErr      error
	summaryHits int
}

func (f *fakeStats) LowStock(context.Context) ([]dto.LowStockDTO, error) {
	return f.rows, f.lowErr
}

func (f *fakeStats) Summary(context.Context, *time.Time, *time.Time, int) (*dto.StatisticsSummary, error) {
	f.summaryHits++
	return &dto.StatisticsSummary{}, nil
}

func TestRun_AlertaYPrecarga(t *testing.T) {
	stats := &fakeStats{rows: []dto.LowStockDTO{
		{ProductID: "p1", SKU: "A", Stock: 1, MinStock: 5, Missing: 4},
		{ProductID: "p2", SKU: "B", Stock: 0, MinStock: 2, Missing: 2},
	}}
	s := New("@hourly", stats, logger.Nop())

	assert.Equal(t, 2, s.run(context.Background()))
	assert.Equal(t, 1, stats.summaryHits)
}

func TestRun_ErrorDeConsulta(t *testing.T) {
	stats := &fakeStats{lowErr: errors.New("db caída")}
	s := New("@hourly", stats, logger.Nop())

	assert.Equal(t, 0, s.run(context.Background()))
	assert.Equal(t, 0, stats.summaryHits)
}

func TestStart_ExpresionInvalida(t *testing.T) {
	s := New("no es cron", &fakeStats{}, logger.Nop())
	assert.Error(t, s.Start())
}

func TestStart_Deshabilitado(t *testing.T) {
	s := New("", &fakeStats{}, logger.Nop())
	require.NoError(t, s.Start())
	s.Stop()
}

func TestStart_Valido(t *testing.T) {
	s := New("0 * * * *", &fakeStats{}, logger.Nop())
	require.NoError(t, s.Start())
	s.Stop()
}
