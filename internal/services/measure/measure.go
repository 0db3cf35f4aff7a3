package measure

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// Service - внешняя измерительная способность. Сам алгоритм измерения
// по изображению в сервис не входит: здесь только его граница.
// Ошибка измерения пропускает композицию для этой стороны только
// в текущем цикле.
type Service interface {
	ComputeSideGap(ctx context.Context, frame models.Frame) (models.SideGapResult, error)
}

// NewService выбирает реализацию измерителя на основе строки из
// конфигурации. 'none' полностью отключает измерение.
func NewService(cfg *config.AppConfig, logger *logging.Logger) (Service, error) {
	switch strings.ToLower(cfg.Measure.Backend) {
	case "fixed":
		return NewFixedService(cfg.Measure, logger), nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("неизвестный бэкенд измерения: '%s'", cfg.Measure.Backend)
}
