package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/iwtcode/gapService/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware журналирует запросы к API контура регулирования.
// Снимок состояния опрашивается панелями раз в секунду, поэтому пишется
// одна строка на запрос, после завершения; служебные маршруты swagger
// и preflight-запросы не журналируются.
func LoggingMiddleware(parentLogger *logging.Logger) gin.HandlerFunc {
	logger := parentLogger.WithPrefix("HTTP")

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
