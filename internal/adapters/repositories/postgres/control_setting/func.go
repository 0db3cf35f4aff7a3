package control_setting

import (
	"github.com/iwtcode/gapService/internal/domain/entities"
	"gorm.io/gorm/clause"
)

func (r *ControlSettingRepositoryImpl) Get(key string) (*entities.ControlSetting, error) {
	var setting entities.ControlSetting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Set создает или обновляет настройку по ключу
func (r *ControlSettingRepositoryImpl) Set(key, value string) error {
	setting := entities.ControlSetting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
