package camera

import (
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// Геометрия синтетического кадра.
const (
	simFrameWidth  = 64
	simFrameHeight = 16
)

// SimSource генерирует синтетические кадры обеих сторон с заданной
// частотой. Используется при пусконаладке и в тестах.
type SimSource struct {
	cfg    config.CameraConfig
	logger *logging.Logger

	mu     sync.Mutex
	latest map[models.Side]*models.Frame
	done   chan bool
	seq    uint64
}

func NewSimSource(cfg config.CameraConfig, logger *logging.Logger) *SimSource {
	return &SimSource{
		cfg:    cfg,
		logger: logger.WithPrefix("CAM-SIM"),
		latest: make(map[models.Side]*models.Frame, 2),
	}
}

func (s *SimSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return fmt.Errorf("источник кадров уже запущен")
	}

	fps := s.cfg.Fps
	if fps <= 0 {
		fps = 10
	}
	frameInterval := time.Duration(float64(time.Second) / fps)

	done := make(chan bool)
	s.done = done

	go func() {
		s.logger.Info("Starting simulated frame source", "fps", fps)
		// Тикер короче интервала кадра, чтобы остановка замечалась
		// на границе опроса, а не раз в кадр
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		var lastGen time.Time
		for {
			select {
			case <-done:
				s.logger.Info("Simulated frame source stopped")
				return
			case <-ticker.C:
				now := time.Now()
				if now.Sub(lastGen) < frameInterval {
					continue
				}
				lastGen = now
				s.generate(now, models.SideLeft)
				s.generate(now, models.SideRight)
			}
		}
	}()

	return nil
}

func (s *SimSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return nil
	}
	close(s.done)
	s.done = nil
	return nil
}

func (s *SimSource) Latest(side models.Side) (*models.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, ok := s.latest[side]
	return frame, ok
}

// generate создает кадр с простым градиентом, достаточным для
// измерительного модуля-заглушки.
func (s *SimSource) generate(ts time.Time, side models.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	pixels := make([]byte, simFrameWidth*simFrameHeight)
	for y := 0; y < simFrameHeight; y++ {
		for x := 0; x < simFrameWidth; x++ {
			pixels[y*simFrameWidth+x] = byte((x + int(s.seq)) % 256)
		}
	}

	s.latest[side] = &models.Frame{
		Side:      side,
		Timestamp: ts,
		Pixels:    pixels,
		Width:     simFrameWidth,
		Height:    simFrameHeight,
		Stride:    simFrameWidth,
	}
}
