package control_setting

import (
	"github.com/iwtcode/gapService/internal/interfaces"
	"gorm.io/gorm"
)

type ControlSettingRepositoryImpl struct {
	db *gorm.DB
}

func NewControlSettingRepository(db *gorm.DB) interfaces.ControlSettingRepository {
	return &ControlSettingRepositoryImpl{db: db}
}
