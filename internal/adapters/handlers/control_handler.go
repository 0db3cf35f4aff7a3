package handlers

import (
	"net/http"

	"github.com/iwtcode/gapService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetMode возвращает текущий режим регулирования.
// @Summary Получить режим регулирования
// @Description Возвращает текущий режим контура регулирования зазора.
// @Tags Control
// @Produce json
// @Success 200 {object} models.ModeResponse "Текущий режим"
// @Router /mode [get]
func (h *Handler) GetMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   h.usecase.Mode(),
	})
}

// SetMode устанавливает режим регулирования.
// @Summary Установить режим регулирования
// @Description Переключает контур между режимами manual, auto и auto_hold. Режим сохраняется между перезапусками.
// @Tags Control
// @Accept json
// @Produce json
// @Param input body models.ModeRequest true "Новый режим"
// @Success 200 {object} models.MessageResponse "Сообщение об успешной смене"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Router /mode [post]
func (h *Handler) SetMode(c *gin.Context) {
	var req models.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Attempting to set control mode", "mode", req.Mode)

	if err := h.usecase.SetMode(req.Mode); err != nil {
		h.BadRequest(c, err, "Unsupported control mode")
		return
	}

	h.OK(c, "Control mode set to %s", req.Mode)
}

// ManualStep ставит в очередь ручной шаг коррекции.
// @Summary Ручной шаг коррекции
// @Description Помещает ручной шаг (сторона + направление) в одноместный ящик. Шаг минует регулятор и выполняется в ближайшем цикле.
// @Tags Control
// @Accept json
// @Produce json
// @Param input body models.ManualStepRequest true "Параметры шага"
// @Success 200 {object} models.MessageResponse "Шаг поставлен в очередь"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Router /step [post]
func (h *Handler) ManualStep(c *gin.Context) {
	var req models.ManualStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Manual step requested", "side", req.Side, "direction", req.Direction, "steps", req.Steps)

	if err := h.usecase.RequestManualStep(req); err != nil {
		h.BadRequest(c, err, "Unsupported step parameters")
		return
	}

	h.OK(c, "Manual step queued")
}

// ResetHandshake запрашивает сброс handshake устройства.
// @Summary Сброс handshake
// @Description Взводит запрос сброса залипшего handshake; оркестратор выполнит его в ближайшем цикле.
// @Tags Control
// @Produce json
// @Success 200 {object} models.MessageResponse "Запрос принят"
// @Router /reset [post]
func (h *Handler) ResetHandshake(c *gin.Context) {
	h.logger.Info("Handshake reset requested")
	h.usecase.RequestReset()

	h.OK(c, "Handshake reset queued")
}

// InjectTestFrame внедряет одноразовый тестовый кадр.
// @Summary Внедрить тестовый кадр
// @Description Помещает одноразовый тестовый кадр стороны. Кадр имеет приоритет над живым потоком и немедленно запускает измерение этой стороны.
// @Tags Control
// @Accept json
// @Produce json
// @Param input body models.TestFrameRequest true "Кадр (base64)"
// @Success 200 {object} models.MessageResponse "Кадр принят"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Router /testframe [post]
func (h *Handler) InjectTestFrame(c *gin.Context) {
	var req models.TestFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	if err := h.usecase.InjectTestFrame(req); err != nil {
		h.BadRequest(c, err, "Invalid test frame")
		return
	}

	h.logger.Info("Test frame accepted", "side", req.Side, "width", req.Width, "height", req.Height)
	h.OK(c, "Test frame queued for side %s", req.Side)
}
