package models

import "time"

// Side обозначает сторону механизма регулировки зазора.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ControlMode определяет режим работы контура регулирования.
type ControlMode string

const (
	ModeManual   ControlMode = "manual"
	ModeAuto     ControlMode = "auto"
	ModeAutoHold ControlMode = "auto_hold"
)

// IsValid проверяет, что режим является одним из поддерживаемых значений.
func (m ControlMode) IsValid() bool {
	switch m {
	case ModeManual, ModeAuto, ModeAutoHold:
		return true
	}
	return false
}

// StepAction определяет направление одиночного шага коррекции.
type StepAction string

const (
	ActionNone       StepAction = "none"
	ActionLeftPlus   StepAction = "left_plus"
	ActionLeftMinus  StepAction = "left_minus"
	ActionRightPlus  StepAction = "right_plus"
	ActionRightMinus StepAction = "right_minus"
)

// Frame представляет один кадр, полученный от камеры одной стороны.
type Frame struct {
	Side      Side      `json:"side"`
	Timestamp time.Time `json:"timestamp"`
	Pixels    []byte    `json:"-"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Stride    int       `json:"stride"`
}

// SideGapResult содержит результат измерения зазора для одной стороны.
type SideGapResult struct {
	Timestamp time.Time `json:"timestamp"`
	Side      Side      `json:"side"`
	GapMm     float64   `json:"gap_mm"`
	Quality   float64   `json:"quality"` // 0..1
	Diag      string    `json:"diag,omitempty"`
}

// GapResult - составной результат измерения по обеим сторонам.
// Создается только когда известны результаты обеих сторон;
// качество равно минимуму из двух сторон.
type GapResult struct {
	Timestamp time.Time `json:"timestamp"`
	LeftMm    float64   `json:"left_mm"`
	RightMm   float64   `json:"right_mm"`
	Quality   float64   `json:"quality"`
	Diag      string    `json:"diag,omitempty"`
}

// StepCommand описывает одну предлагаемую коррекцию.
type StepCommand struct {
	Timestamp time.Time  `json:"timestamp"`
	Side      Side       `json:"side"`
	Action    StepAction `json:"action"`
	Steps     int        `json:"steps"`
	Reason    string     `json:"reason,omitempty"`
}
