package usecases

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/iwtcode/gapService/internal/domain/entities"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/interfaces"
)

type Usecase struct {
	controlSvc interfaces.ControlService
	repos      interfaces.Repositories
}

func NewUsecase(controlSvc interfaces.ControlService, repos interfaces.Repositories) interfaces.Usecases {
	return &Usecase{
		controlSvc: controlSvc,
		repos:      repos,
	}
}

func (u *Usecase) Snapshot() *models.SystemSnapshot {
	return u.controlSvc.Snapshot()
}

func (u *Usecase) Mode() models.ControlMode {
	return u.controlSvc.Mode()
}

func (u *Usecase) SetMode(mode models.ControlMode) error {
	return u.controlSvc.SetMode(mode)
}

func (u *Usecase) RequestManualStep(req models.ManualStepRequest) error {
	return u.controlSvc.RequestManualStep(req)
}

func (u *Usecase) RequestReset() {
	u.controlSvc.RequestReset()
}

// InjectTestFrame декодирует полезную нагрузку запроса и передает кадр
// оркестратору как одноразовый тестовый кадр стороны.
func (u *Usecase) InjectTestFrame(req models.TestFrameRequest) error {
	if req.Side != models.SideLeft && req.Side != models.SideRight {
		return fmt.Errorf("неподдерживаемая сторона: '%s'", req.Side)
	}

	pixels, err := base64.StdEncoding.DecodeString(req.Pixels)
	if err != nil {
		return fmt.Errorf("не удалось декодировать пиксели кадра: %w", err)
	}
	if len(pixels) < req.Width*req.Height {
		return fmt.Errorf("буфер кадра меньше заявленной геометрии %dx%d", req.Width, req.Height)
	}

	u.controlSvc.InjectTestFrame(models.Frame{
		Side:      req.Side,
		Timestamp: time.Now(),
		Pixels:    pixels,
		Width:     req.Width,
		Height:    req.Height,
		Stride:    req.Width,
	})
	return nil
}

func (u *Usecase) RecentCorrections(limit int) ([]entities.CorrectionEvent, error) {
	return u.repos.CorrectionEvents().GetRecent(limit)
}
