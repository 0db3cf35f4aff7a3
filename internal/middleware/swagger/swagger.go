package swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/iwtcode/gapService/docs"
)

// Config содержит настройки публикации документации API.
type Config struct {
	Enabled bool
	Path    string
}

// Setup публикует swagger-описание API контура регулирования.
// На производственных линиях документацию обычно отключают.
func Setup(r *gin.Engine, cfg *Config) {
	if cfg == nil || !cfg.Enabled {
		return
	}

	path := cfg.Path
	if path == "" {
		path = "/swagger"
	}
	r.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
