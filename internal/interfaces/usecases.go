package interfaces

import (
	"github.com/iwtcode/gapService/internal/domain/entities"
	"github.com/iwtcode/gapService/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	Snapshot() *models.SystemSnapshot
	Mode() models.ControlMode
	SetMode(mode models.ControlMode) error
	RequestManualStep(req models.ManualStepRequest) error
	RequestReset()
	InjectTestFrame(req models.TestFrameRequest) error
	RecentCorrections(limit int) ([]entities.CorrectionEvent, error)
}
