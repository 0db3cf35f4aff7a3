package interfaces

import (
	"github.com/iwtcode/gapService/internal/domain/models"
)

// ControlService - это агрегирующий интерфейс контура регулирования,
// предоставляемый оркестратором внешним акторам. Все методы
// неблокирующие: команды кладутся в одноместные ящики и выполняются
// оркестратором в ближайшем цикле.
type ControlService interface {
	Snapshot() *models.SystemSnapshot
	Mode() models.ControlMode
	SetMode(mode models.ControlMode) error
	RequestManualStep(req models.ManualStepRequest) error
	RequestReset()
	InjectTestFrame(frame models.Frame)
}
