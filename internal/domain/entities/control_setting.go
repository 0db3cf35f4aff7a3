package entities

import "time"

// Ключи настроек, сохраняемых между перезапусками сервиса.
const (
	SettingControlMode = "control_mode"
)

// ControlSetting - сохраненная настройка контура регулирования.
// Используется для восстановления режима при старте сервиса.
type ControlSetting struct {
	Key       string    `gorm:"primaryKey;not null" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
