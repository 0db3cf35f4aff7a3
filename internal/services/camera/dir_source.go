package camera

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// DirSource читает кадры из двух директорий (по одной на сторону):
// последним кадром стороны считается самый новый файл по времени
// модификации. Бэкенд для линий, где камеры складывают снимки на диск.
type DirSource struct {
	cfg    config.CameraConfig
	logger *logging.Logger

	mu     sync.Mutex
	latest map[models.Side]*models.Frame
	seen   map[models.Side]time.Time
	done   chan bool
}

func NewDirSource(cfg config.CameraConfig, logger *logging.Logger) *DirSource {
	return &DirSource{
		cfg:    cfg,
		logger: logger.WithPrefix("CAM-DIR"),
		latest: make(map[models.Side]*models.Frame, 2),
		seen:   make(map[models.Side]time.Time, 2),
	}
}

func (s *DirSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return fmt.Errorf("источник кадров уже запущен")
	}

	done := make(chan bool)
	s.done = done

	go func() {
		s.logger.Info("Starting directory frame source", "left", s.cfg.LeftDir, "right", s.cfg.RightDir)
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				s.logger.Info("Directory frame source stopped")
				return
			case <-ticker.C:
				s.scan(models.SideLeft, s.cfg.LeftDir)
				s.scan(models.SideRight, s.cfg.RightDir)
			}
		}
	}()

	return nil
}

func (s *DirSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return nil
	}
	close(s.done)
	s.done = nil
	return nil
}

func (s *DirSource) Latest(side models.Side) (*models.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, ok := s.latest[side]
	return frame, ok
}

// scan находит самый новый файл директории и при необходимости
// загружает его как кадр стороны. Ошибки не фатальны: сторона просто
// остается без свежего кадра.
func (s *DirSource) scan(side models.Side, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("Failed to read frame directory", "side", side, "dir", dir, "error", err)
		return
	}

	var newestPath string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newestTime) {
			newestTime = info.ModTime()
			newestPath = filepath.Join(dir, entry.Name())
		}
	}
	if newestPath == "" {
		return
	}

	s.mu.Lock()
	alreadySeen := !newestTime.After(s.seen[side])
	s.mu.Unlock()
	if alreadySeen {
		return
	}

	data, err := os.ReadFile(newestPath)
	if err != nil {
		s.logger.Warn("Failed to read frame file", "side", side, "file", newestPath, "error", err)
		return
	}

	width, height := 0, 0
	if cfgImg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height = cfgImg.Width, cfgImg.Height
	}

	s.mu.Lock()
	s.seen[side] = newestTime
	s.latest[side] = &models.Frame{
		Side:      side,
		Timestamp: newestTime,
		Pixels:    data,
		Width:     width,
		Height:    height,
		Stride:    width,
	}
	s.mu.Unlock()

	s.logger.Debug("New frame loaded", "side", side, "file", newestPath)
}
