package models

// ModeRequest определяет структуру запроса на смену режима регулирования.
type ModeRequest struct {
	Mode ControlMode `json:"mode" binding:"required"` // manual / auto / auto_hold
}

// ManualStepRequest определяет структуру запроса ручного шага коррекции.
// Ручной шаг минует регулятор, но выполняется через тот же handshake.
type ManualStepRequest struct {
	Side      Side   `json:"side" binding:"required"`      // left / right
	Direction string `json:"direction" binding:"required"` // plus / minus
	Steps     int    `json:"steps"`                        // по умолчанию 1
}

// TestFrameRequest определяет структуру запроса на внедрение тестового кадра.
// Кадр одноразовый: оркестратор потребляет его в ближайшем цикле.
type TestFrameRequest struct {
	Side   Side   `json:"side" binding:"required"`
	Width  int    `json:"width" binding:"required,gt=0"`
	Height int    `json:"height" binding:"required,gt=0"`
	Pixels string `json:"pixels" binding:"required"` // base64
}

// HistoryRequest определяет параметры выборки истории коррекций.
type HistoryRequest struct {
	Limit int `form:"limit"`
}
