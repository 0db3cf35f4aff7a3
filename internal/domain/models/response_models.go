package models

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"400"`
		Message string `json:"message" example:"Неверный формат запроса"`
	} `json:"error"`
}

// MessageResponse представляет стандартный успешный ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Manual step queued"`
}

// SnapshotResponse представляет ответ с текущим снимком состояния системы.
type SnapshotResponse struct {
	Status   string          `json:"status" example:"ok"`
	Snapshot *SystemSnapshot `json:"snapshot"`
}

// ModeResponse представляет ответ с текущим режимом регулирования.
type ModeResponse struct {
	Status string      `json:"status" example:"ok"`
	Mode   ControlMode `json:"mode" example:"auto"`
}
