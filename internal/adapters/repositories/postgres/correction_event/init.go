package correction_event

import (
	"github.com/iwtcode/gapService/internal/interfaces"
	"gorm.io/gorm"
)

type CorrectionEventRepositoryImpl struct {
	db *gorm.DB
}

func NewCorrectionEventRepository(db *gorm.DB) interfaces.CorrectionEventRepository {
	return &CorrectionEventRepositoryImpl{db: db}
}
