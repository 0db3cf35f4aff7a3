package handlers

import (
	"fmt"
	"net/http"

	"github.com/iwtcode/gapService/pkg/errors"

	"github.com/gin-gonic/gin"
)

// OK отправляет успешный ответ-сообщение контура регулирования.
func (h *Handler) OK(c *gin.Context, format string, args ...interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": fmt.Sprintf(format, args...),
	})
}

// Fail отправляет стандартизированный ответ с ошибкой и прерывает
// обработку запроса.
func (h *Handler) Fail(c *gin.Context, err error, statusCode int, message string, showError bool) {
	errorMessage := message
	if showError && err != nil {
		errorMessage = message + ": " + err.Error()
	}

	h.logger.Error(message, "error", err, "statusCode", statusCode)
	c.AbortWithStatusJSON(statusCode, gin.H{
		"status": "error",
		"error": gin.H{
			"code":    statusCode,
			"message": errorMessage,
		},
	})
}

// BadRequest возвращает ошибку 400. Текст исходной ошибки показывается
// клиенту: на этой поверхности он описывает его же невалидный запрос.
func (h *Handler) BadRequest(c *gin.Context, err error, message string) {
	if message == "" {
		message = errors.BadRequest
	}
	h.Fail(c, err, http.StatusBadRequest, message, true)
}

// InternalError возвращает ошибку 500 без деталей внутренней ошибки.
func (h *Handler) InternalError(c *gin.Context, err error) {
	h.Fail(c, err, http.StatusInternalServerError, errors.InternalServerError, false)
}
