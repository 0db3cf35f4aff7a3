package interfaces

import (
	"github.com/iwtcode/gapService/internal/domain/entities"
)

// CorrectionEventRepository определяет контракт для работы с историей
// коррекций в БД
type CorrectionEventRepository interface {
	Create(event *entities.CorrectionEvent) error
	GetRecent(limit int) ([]entities.CorrectionEvent, error)
}

// ControlSettingRepository определяет контракт для сохраняемых настроек
// контура регулирования
type ControlSettingRepository interface {
	Get(key string) (*entities.ControlSetting, error)
	Set(key, value string) error
}

// Repositories агрегирует все репозитории сервиса
type Repositories interface {
	CorrectionEvents() CorrectionEventRepository
	ControlSettings() ControlSettingRepository
}
