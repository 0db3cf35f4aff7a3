package measure

import (
	"context"
	"math"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// FixedService возвращает настроенное значение зазора с качеством 1.0.
// Бэкенд для пусконаладки и сухих прогонов контура без реального
// измерительного модуля. Небольшой детерминированный джиттер позволяет
// проверить сквозную реакцию регулятора.
type FixedService struct {
	cfg    config.MeasureConfig
	logger *logging.Logger
	calls  uint64
}

func NewFixedService(cfg config.MeasureConfig, logger *logging.Logger) *FixedService {
	return &FixedService{
		cfg:    cfg,
		logger: logger.WithPrefix("MEASURE-FIXED"),
	}
}

func (s *FixedService) ComputeSideGap(ctx context.Context, frame models.Frame) (models.SideGapResult, error) {
	if err := ctx.Err(); err != nil {
		return models.SideGapResult{}, err
	}

	s.calls++
	gap := s.cfg.FixedGapMm
	if s.cfg.FixedJitter > 0 {
		gap += s.cfg.FixedJitter * math.Sin(float64(s.calls)/7)
	}

	return models.SideGapResult{
		Timestamp: frame.Timestamp,
		Side:      frame.Side,
		GapMm:     gap,
		Quality:   1.0,
		Diag:      "fixed backend",
	}, nil
}
