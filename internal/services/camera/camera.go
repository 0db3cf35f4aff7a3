package camera

import (
	"fmt"
	"strings"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// Source - источник кадров обеих сторон. Источник не дает гарантий
// свежести: контроль устаревания кадров выполняет оркестратор.
type Source interface {
	Start() error
	Stop() error
	Latest(side models.Side) (*models.Frame, bool)
}

// NewSource выбирает реализацию источника кадров на основе строки
// из конфигурации. Выбор во время выполнения позволяет тестировать
// оба бэкенда одним бинарником.
func NewSource(cfg *config.AppConfig, logger *logging.Logger) (Source, error) {
	switch strings.ToLower(cfg.Camera.Backend) {
	case "sim", "":
		return NewSimSource(cfg.Camera, logger), nil
	case "dir":
		return NewDirSource(cfg.Camera, logger), nil
	}
	return nil, fmt.Errorf("неизвестный бэкенд камеры: '%s'", cfg.Camera.Backend)
}
