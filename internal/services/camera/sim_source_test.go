package camera

import (
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

func TestSimSourceProducesFramesForBothSides(t *testing.T) {
	s := NewSimSource(config.CameraConfig{
		Fps:          100,
		PollInterval: time.Millisecond,
	}, testLogger())

	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()

	require.Eventually(t, func() bool {
		left, lok := s.Latest(models.SideLeft)
		right, rok := s.Latest(models.SideRight)
		return lok && rok && left != nil && right != nil
	}, time.Second, 5*time.Millisecond, "Источник должен дать кадры обеих сторон")

	frame, ok := s.Latest(models.SideLeft)
	require.True(t, ok)
	require.Equal(t, models.SideLeft, frame.Side)
	require.Equal(t, frame.Width*frame.Height, len(frame.Pixels))
	require.Equal(t, frame.Width, frame.Stride)
}

func TestSimSourceStartIsExclusive(t *testing.T) {
	s := NewSimSource(config.CameraConfig{Fps: 10, PollInterval: time.Millisecond}, testLogger())

	require.NoError(t, s.Start())
	require.Error(t, s.Start(), "Повторный запуск должен отклоняться")
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "Повторная остановка безвредна")
}

func TestNewSourceSelectsBackend(t *testing.T) {
	logger := testLogger()

	src, err := NewSource(&config.AppConfig{Camera: config.CameraConfig{Backend: "sim"}}, logger)
	require.NoError(t, err)
	require.IsType(t, &SimSource{}, src)

	src, err = NewSource(&config.AppConfig{Camera: config.CameraConfig{Backend: "dir"}}, logger)
	require.NoError(t, err)
	require.IsType(t, &DirSource{}, src)

	_, err = NewSource(&config.AppConfig{Camera: config.CameraConfig{Backend: "gige"}}, logger)
	require.Error(t, err)
}
