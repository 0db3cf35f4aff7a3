package correction_event

import (
	"github.com/iwtcode/gapService/internal/domain/entities"
)

func (r *CorrectionEventRepositoryImpl) Create(event *entities.CorrectionEvent) error {
	return r.db.Create(event).Error
}

// GetRecent возвращает последние события коррекции, от новых к старым
func (r *CorrectionEventRepositoryImpl) GetRecent(limit int) ([]entities.CorrectionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []entities.CorrectionEvent
	if err := r.db.Order("timestamp desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
