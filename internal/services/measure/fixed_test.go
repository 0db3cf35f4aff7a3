package measure

import (
	"context"
	"testing"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/stretchr/testify/require"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
}

func TestFixedServiceReturnsConfiguredGap(t *testing.T) {
	s := NewFixedService(config.MeasureConfig{FixedGapMm: 2.35}, testLogger())

	frame := models.Frame{Side: models.SideLeft, Timestamp: time.Now(), Width: 8, Height: 4}
	res, err := s.ComputeSideGap(context.Background(), frame)
	require.NoError(t, err)
	require.InDelta(t, 2.35, res.GapMm, 1e-9)
	require.Equal(t, 1.0, res.Quality)
	require.Equal(t, models.SideLeft, res.Side)
	require.Equal(t, frame.Timestamp, res.Timestamp, "Результат несет время кадра, а не настенных часов")
}

func TestFixedServiceJitterStaysBounded(t *testing.T) {
	s := NewFixedService(config.MeasureConfig{FixedGapMm: 2.0, FixedJitter: 0.1}, testLogger())

	for i := 0; i < 50; i++ {
		res, err := s.ComputeSideGap(context.Background(), models.Frame{Side: models.SideRight, Timestamp: time.Now()})
		require.NoError(t, err)
		require.InDelta(t, 2.0, res.GapMm, 0.1+1e-9, "Джиттер не должен выходить за настроенную амплитуду")
	}
}

func TestFixedServiceHonorsCanceledContext(t *testing.T) {
	s := NewFixedService(config.MeasureConfig{FixedGapMm: 2.0}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ComputeSideGap(ctx, models.Frame{Side: models.SideLeft})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewServiceSelectsBackend(t *testing.T) {
	logger := testLogger()

	svc, err := NewService(&config.AppConfig{Measure: config.MeasureConfig{Backend: "fixed"}}, logger)
	require.NoError(t, err)
	require.NotNil(t, svc)

	svc, err = NewService(&config.AppConfig{Measure: config.MeasureConfig{Backend: "none"}}, logger)
	require.NoError(t, err)
	require.Nil(t, svc, "Бэкенд 'none' полностью отключает измерение")

	_, err = NewService(&config.AppConfig{Measure: config.MeasureConfig{Backend: "laser"}}, logger)
	require.Error(t, err)
}
