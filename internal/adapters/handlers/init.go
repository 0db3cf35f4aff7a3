package handlers

import (
	"net/http"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/interfaces"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/iwtcode/gapService/internal/middleware/swagger"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig, swagCfg *swagger.Config) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.Default()

	// Swagger
	swagger.Setup(router, swagCfg)

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/snapshot", h.GetSnapshot)
		v1.GET("/history", h.GetHistory)

		mode := v1.Group("/mode")
		{
			mode.GET("", h.GetMode)
			mode.POST("", h.SetMode)
		}

		control := v1.Group("")
		{
			control.POST("/step", h.ManualStep)
			control.POST("/reset", h.ResetHandshake)
			control.POST("/testframe", h.InjectTestFrame)
		}
	}

	return router
}
