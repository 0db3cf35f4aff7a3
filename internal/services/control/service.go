package control

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/iwtcode/gapService/internal/domain/entities"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/interfaces"
	"github.com/iwtcode/gapService/internal/services/plc"
)

// Проверка соответствия контракту.
var _ interfaces.ControlService = (*Orchestrator)(nil)

// Snapshot возвращает последний опубликованный снимок состояния.
func (o *Orchestrator) Snapshot() *models.SystemSnapshot {
	return o.store.Snapshot()
}

// Mode возвращает текущий режим регулирования.
func (o *Orchestrator) Mode() models.ControlMode {
	return o.store.Mode()
}

// SetMode меняет режим регулирования, сохраняет его в БД и отражает
// в бите ModeAutoAllowed командного байта. Отказ сохранения или записи
// бита не отменяет смену режима.
func (o *Orchestrator) SetMode(mode models.ControlMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("неподдерживаемый режим: '%s'", mode)
	}

	o.store.SetMode(mode)
	o.store.AppendLog("mode set to %s", mode)
	o.logger.Info("Control mode changed", "mode", mode)

	if err := o.repos.ControlSettings().Set(entities.SettingControlMode, string(mode)); err != nil {
		o.logger.Error("Failed to persist control mode", "error", err)
	}
	if err := o.db.SetCommandBit(plc.BitModeAutoAllowed, mode == models.ModeAuto); err != nil {
		o.logger.Warn("Failed to write auto-allowed bit", "error", err)
	}
	return nil
}

// RestoreMode восстанавливает сохраненный режим при старте сервиса.
// Отсутствие сохраненной настройки не является ошибкой.
func (o *Orchestrator) RestoreMode() error {
	setting, err := o.repos.ControlSettings().Get(entities.SettingControlMode)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	mode := models.ControlMode(setting.Value)
	if !mode.IsValid() {
		o.logger.Warn("Ignoring invalid persisted mode", "value", setting.Value)
		return nil
	}

	o.logger.Info("Restoring persisted control mode", "mode", mode)
	return o.SetMode(mode)
}

// RequestManualStep помещает ручной шаг в одноместный ящик оркестратора.
// Шаг минует регулятор, но исполняется через handshake в ближайшем цикле.
func (o *Orchestrator) RequestManualStep(req models.ManualStepRequest) error {
	action, err := manualAction(req.Side, req.Direction)
	if err != nil {
		return err
	}

	steps := req.Steps
	if steps <= 0 {
		steps = 1
	}
	if max := o.db.MaxStepsPerReq(); max > 0 && steps > max {
		steps = max
	}
	if o.cfg.Regulation.MaxSteps > 0 && steps > o.cfg.Regulation.MaxSteps {
		steps = o.cfg.Regulation.MaxSteps
	}

	o.store.RequestManualStep(models.StepCommand{
		Timestamp: time.Now(),
		Side:      req.Side,
		Action:    action,
		Steps:     steps,
		Reason:    "manual step by operator",
	})
	return nil
}

// RequestReset взводит запрос сброса handshake (latest-wins).
func (o *Orchestrator) RequestReset() {
	o.store.RequestReset()
}

// InjectTestFrame помещает одноразовый тестовый кадр стороны.
func (o *Orchestrator) InjectTestFrame(frame models.Frame) {
	o.store.InjectTestFrame(frame)
	o.logger.Info("Test frame injected", "side", frame.Side)
}

func manualAction(side models.Side, direction string) (models.StepAction, error) {
	switch {
	case side == models.SideLeft && direction == "plus":
		return models.ActionLeftPlus, nil
	case side == models.SideLeft && direction == "minus":
		return models.ActionLeftMinus, nil
	case side == models.SideRight && direction == "plus":
		return models.ActionRightPlus, nil
	case side == models.SideRight && direction == "minus":
		return models.ActionRightMinus, nil
	}
	return models.ActionNone, fmt.Errorf("неподдерживаемая комбинация side='%s' direction='%s'", side, direction)
}
