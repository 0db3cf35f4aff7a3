package handlers

import (
	"net/http"

	"github.com/iwtcode/gapService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetSnapshot возвращает текущий снимок состояния системы.
// @Summary Снимок состояния
// @Description Возвращает атомарный снимок: режим, статус контроллера, статусы камер, последнее измерение, последнее действие и недавние сообщения.
// @Tags Status
// @Produce json
// @Success 200 {object} models.SnapshotResponse "Снимок состояния"
// @Router /snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"snapshot": h.usecase.Snapshot(),
	})
}

// GetHistory возвращает последние события коррекции.
// @Summary История коррекций
// @Description Возвращает последние события коррекции из базы данных, от новых к старым.
// @Tags Status
// @Produce json
// @Param limit query int false "Максимум событий (по умолчанию 50)"
// @Success 200 {object} models.MessageResponse "Список событий"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	var req models.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err, "Invalid query parameters")
		return
	}

	events, err := h.usecase.RecentCorrections(req.Limit)
	if err != nil {
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(events),
		"events": events,
	})
}
