package plc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// Engine выполняет одну ограниченную транзакцию request/ack/actuate/done
// против области обмена. Командный байт не имеет разделения по
// направлениям, поэтому в системе допускается только одна транзакция
// одновременно - мьютекс сериализует все вызовы.
//
// Политика повторов принадлежит вызывающей стороне: движок не делает
// повторных попыток и любую ошибку транспорта трактует как неудачу
// транзакции, не пробрасывая ее дальше.
type Engine struct {
	db     *DataBlock
	logger *logging.Logger

	mu sync.Mutex

	deadline     time.Duration
	pollInterval time.Duration
	resetPulse   time.Duration
	actuatePulse time.Duration
}

func NewEngine(db *DataBlock, cfg config.PlcConfig, logger *logging.Logger) *Engine {
	return &Engine{
		db:           db,
		logger:       logger.WithPrefix("HANDSHAKE"),
		deadline:     cfg.Deadline,
		pollInterval: cfg.PollInterval,
		resetPulse:   cfg.ResetPulse,
		actuatePulse: cfg.ActuatePulse,
	}
}

// commandBitFor сопоставляет действие биту командного байта.
// Неподдерживаемое значение - нарушение контракта, в нормальной работе
// не встречается.
func commandBitFor(action models.StepAction) (uint, error) {
	switch action {
	case models.ActionLeftPlus:
		return BitLeftPlus, nil
	case models.ActionLeftMinus:
		return BitLeftMinus, nil
	case models.ActionRightPlus:
		return BitRightPlus, nil
	case models.ActionRightMinus:
		return BitRightMinus, nil
	}
	return 0, fmt.Errorf("неподдерживаемое действие шага: '%s'", action)
}

// Reset выполняет только импульс Reset, очищающий залипший handshake.
// Используется по запросу оператора вне транзакции.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Info("Resetting handshake latch")
	return e.db.Pulse(ctx, BitReset, e.resetPulse)
}

// Execute выполняет одну транзакцию коррекции:
// Reset-импульс -> Request -> ожидание Ack -> импульс команды ->
// ожидание Done -> снятие Request. Возвращает успех и причину неудачи.
func (e *Engine) Execute(ctx context.Context, action models.StepAction) (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bit, err := commandBitFor(action)
	if err != nil {
		return false, err.Error()
	}

	// 1. Сбрасываем возможный залипший handshake перед новым запросом
	if err := e.db.Pulse(ctx, BitReset, e.resetPulse); err != nil {
		e.logger.Error("Reset pulse failed", "action", action, "error", err)
		return false, "reset pulse failed"
	}

	// 2. Выставляем Request и запускаем общий дедлайн.
	// Устройство может задать свой таймаут в области обмена.
	deadline := e.deadline
	if d := e.db.HandshakeTimeout(); d > 0 {
		deadline = d
	}
	deadlineAt := time.Now().Add(deadline)

	if err := e.db.SetCommandBit(BitRequest, true); err != nil {
		e.logger.Error("Failed to raise request bit", "action", action, "error", err)
		return false, "request write failed"
	}

	// Request снимается на любом пути выхода
	defer func() {
		if err := e.db.SetCommandBit(BitRequest, false); err != nil {
			e.logger.Error("Failed to clear request bit", "action", action, "error", err)
		}
	}()

	// 3. Ожидаем подтверждение Ack
	if ok, reason := e.waitFor(ctx, deadlineAt, e.db.Ack); !ok {
		e.logger.Warn("Handshake aborted while waiting for ack", "action", action, "reason", reason)
		return false, "ack: " + reason
	}

	// 4. Импульс ровно того командного бита, который соответствует направлению
	if err := e.db.Pulse(ctx, bit, e.actuatePulse); err != nil {
		e.logger.Error("Actuate pulse failed", "action", action, "error", err)
		return false, "actuate pulse failed"
	}

	// 5. Ожидаем завершение Done
	if ok, reason := e.waitFor(ctx, deadlineAt, e.db.Done); !ok {
		e.logger.Warn("Handshake aborted while waiting for done", "action", action, "reason", reason)
		return false, "done: " + reason
	}

	// 6. Успех только если Done взведен и ни один бит ошибки не активен
	// в этот же момент
	if e.db.Nok() || e.db.TimeoutBit() || e.db.Conflict() {
		reason := e.errorBitsReason()
		e.logger.Warn("Handshake finished with error bits", "action", action, "reason", reason)
		return false, reason
	}

	e.logger.Info("Handshake transaction succeeded", "action", action)
	return true, ""
}

// waitFor опрашивает область обмена до выполнения условия, появления
// бита ошибки, истечения дедлайна или отмены контекста. Отмена
// проверяется на каждой итерации.
func (e *Engine) waitFor(ctx context.Context, deadlineAt time.Time, cond func() bool) (bool, string) {
	for {
		select {
		case <-ctx.Done():
			return false, "canceled"
		default:
		}

		if err := e.db.Refresh(); err != nil {
			return false, "transport fault"
		}

		if e.db.Nok() || e.db.TimeoutBit() || e.db.Conflict() {
			return false, e.errorBitsReason()
		}
		if cond() {
			return true, ""
		}
		if time.Now().After(deadlineAt) {
			return false, "deadline elapsed"
		}

		timer := time.NewTimer(e.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, "canceled"
		case <-timer.C:
		}
	}
}

func (e *Engine) errorBitsReason() string {
	switch {
	case e.db.Nok():
		return "device reported NOK"
	case e.db.TimeoutBit():
		return "device reported timeout"
	case e.db.Conflict():
		return "device reported conflict"
	}
	return "device error"
}
