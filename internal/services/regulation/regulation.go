package regulation

import (
	"fmt"
	"math"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// Regulator - решающий модуль регулирования одной стороны.
// Скрытое состояние (защелка "вне допуска" и время последней команды)
// изменяется только внутри Decide. Решения принимаются по времени
// самого измерения, а не по настенным часам, поэтому модуль
// детерминирован на повторно проигранном потоке измерений. Должен
// вызываться каждый цикл, даже с неизменным входом, чтобы защелка
// и cooldown корректно старели.
type Regulator struct {
	side   models.Side
	cfg    config.RegulationConfig
	logger *logging.Logger

	latched bool
	lastCmd time.Time
}

func NewRegulator(side models.Side, cfg config.RegulationConfig, logger *logging.Logger) *Regulator {
	return &Regulator{
		side:   side,
		cfg:    cfg,
		logger: logger.WithPrefix("REG-" + string(side)),
	}
}

// Side возвращает сторону, которую обслуживает регулятор.
func (r *Regulator) Side() models.Side { return r.side }

// Latched возвращает текущее состояние защелки "вне допуска".
func (r *Regulator) Latched() bool { return r.latched }

// Error возвращает отклонение измерения от целевого зазора.
func (r *Regulator) Error(res models.SideGapResult) float64 {
	return res.GapMm - r.cfg.TargetMm
}

// Decide превращает измерение в необязательную команду коррекции.
// Порядок проверок фиксирован: режим, качество, защелка
// (deadband/hysteresis), cooldown, направление.
func (r *Regulator) Decide(res models.SideGapResult, mode models.ControlMode) *models.StepCommand {
	// Вне режима auto регулирование немедленно отключается
	if mode != models.ModeAuto {
		r.latched = false
		return nil
	}

	// Низкая достоверность трактуется как "в допуске"
	if res.Quality < r.cfg.MinQuality {
		if r.latched {
			r.logger.Debug("Latch cleared due to low quality", "quality", res.Quality)
		}
		r.latched = false
		return nil
	}

	err := r.Error(res)
	absErr := math.Abs(err)

	if !r.latched {
		// Взводимся только при absErr >= deadband (строго >=)
		if absErr < r.cfg.DeadbandMm {
			return nil
		}
		r.latched = true
		r.logger.Debug("Latch armed", "error_mm", err)
	} else {
		// Снимаемся, когда ошибка ушла под порог повторного взвода
		if absErr <= r.cfg.DeadbandMm-r.cfg.HysteresisMm {
			r.latched = false
			r.logger.Debug("Latch disarmed", "error_mm", err)
			return nil
		}
	}

	// Cooldown отсчитывается от измерения, породившего последнюю
	// команду, независимо от исхода ее исполнения: устройство,
	// отвечающее отказом, не должно получать запрос каждый цикл
	if !r.lastCmd.IsZero() && res.Timestamp.Sub(r.lastCmd) < r.cfg.Cooldown {
		return nil
	}

	action := r.actionFor(err)
	steps := 1
	if r.cfg.MaxSteps > 0 && steps > r.cfg.MaxSteps {
		steps = r.cfg.MaxSteps
	}

	r.lastCmd = res.Timestamp
	return &models.StepCommand{
		Timestamp: res.Timestamp,
		Side:      r.side,
		Action:    action,
		Steps:     steps,
		Reason:    fmt.Sprintf("gap %.3f mm, target %.3f mm, error %+.3f mm", res.GapMm, r.cfg.TargetMm, err),
	}
}

// actionFor выбирает направление: зазор шире цели - Minus, уже - Plus.
func (r *Regulator) actionFor(err float64) models.StepAction {
	if r.side == models.SideLeft {
		if err > 0 {
			return models.ActionLeftMinus
		}
		return models.ActionLeftPlus
	}
	if err > 0 {
		return models.ActionRightMinus
	}
	return models.ActionRightPlus
}
