package models

import "time"

// PlcStatus содержит состояние контроллера на момент последнего опроса.
// Инвариант: Connected=false влечет сброс всех семи статусных битов.
type PlcStatus struct {
	Connected bool      `json:"connected"`
	Ready     bool      `json:"ready"`
	Ack       bool      `json:"ack"`
	Busy      bool      `json:"busy"`
	Done      bool      `json:"done"`
	Nok       bool      `json:"nok"`
	Timeout   bool      `json:"timeout"`
	Conflict  bool      `json:"conflict"`
	Timestamp time.Time `json:"timestamp"`
}

// CameraStatus содержит состояние источника кадров одной стороны.
// Connected является производным: кадр существует и его возраст
// не превышает окно устаревания.
type CameraStatus struct {
	Connected   bool      `json:"connected"`
	Fps         float64   `json:"fps"`
	LastFrameAt time.Time `json:"last_frame_at"`
	Dropped     int64     `json:"dropped"`
}

// ActionOutcome уточняет, чем закончился шаг регулирования в цикле.
type ActionOutcome string

const (
	// OutcomeExecuted - команда выполнена устройством успешно.
	OutcomeExecuted ActionOutcome = "executed"
	// OutcomeFailed - команда отправлена, но транзакция завершилась неудачей.
	OutcomeFailed ActionOutcome = "failed"
	// OutcomeDeclined - регулирование выполнялось, но ни одна сторона
	// не предложила коррекцию.
	OutcomeDeclined ActionOutcome = "declined"
	// OutcomeNotEvaluated - регулирование не выполнялось (режим не auto).
	OutcomeNotEvaluated ActionOutcome = "not_evaluated"
)

// ActionResult описывает последнее действие контура регулирования.
type ActionResult struct {
	Timestamp time.Time     `json:"timestamp"`
	Action    StepAction    `json:"action"`
	Side      Side          `json:"side,omitempty"`
	Steps     int           `json:"steps"`
	Outcome   ActionOutcome `json:"outcome"`
	Manual    bool          `json:"manual"`
	Reason    string        `json:"reason,omitempty"`
}

// SystemSnapshot - неизменяемый агрегат состояния всей системы.
// Публикуется целиком, чтобы читатели никогда не видели
// частично обновленное состояние.
type SystemSnapshot struct {
	Timestamp   time.Time     `json:"timestamp"`
	Mode        ControlMode   `json:"mode"`
	Plc         PlcStatus     `json:"plc"`
	LeftCamera  CameraStatus  `json:"left_camera"`
	RightCamera CameraStatus  `json:"right_camera"`
	LastGap     *GapResult    `json:"last_gap,omitempty"`
	LastAction  *ActionResult `json:"last_action,omitempty"`
	RecentLog   []string      `json:"recent_log"`
}
