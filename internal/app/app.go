package app

import (
	"context"
	"net/http"
	"time"

	"github.com/iwtcode/gapService/internal/adapters/handlers"
	"github.com/iwtcode/gapService/internal/adapters/repositories/postgres"
	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/interfaces"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/iwtcode/gapService/internal/middleware/swagger"
	"github.com/iwtcode/gapService/internal/services/camera"
	"github.com/iwtcode/gapService/internal/services/control"
	"github.com/iwtcode/gapService/internal/services/kafka"
	"github.com/iwtcode/gapService/internal/services/measure"
	"github.com/iwtcode/gapService/internal/services/plc"
	"github.com/iwtcode/gapService/internal/state"
	"github.com/iwtcode/gapService/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		StateModule,
		PlcModule,
		CameraModule,
		MeasureModule,
		ControlModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeRestoreMode),
		fx.Invoke(InvokeFrameSource),
		fx.Invoke(InvokeControlLoop),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "GapServiceApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(kafka.NewKafkaProducer),
)

var StateModule = fx.Module("state_module",
	fx.Provide(state.NewStore),
)

func ProvideDataBlock(tr plc.Transport, cfg *config.AppConfig) *plc.DataBlock {
	return plc.NewDataBlock(tr, cfg.Plc.BaseOffset)
}

func ProvideEngine(db *plc.DataBlock, cfg *config.AppConfig, logger *logging.Logger) *plc.Engine {
	return plc.NewEngine(db, cfg.Plc, logger)
}

var PlcModule = fx.Module("plc_module",
	fx.Provide(
		plc.NewTransport,
		ProvideDataBlock,
		ProvideEngine,
	),
)

var CameraModule = fx.Module("camera_module",
	fx.Provide(camera.NewSource),
)

var MeasureModule = fx.Module("measure_module",
	fx.Provide(measure.NewService),
)

func ProvideControlService(o *control.Orchestrator) interfaces.ControlService {
	return o
}

var ControlModule = fx.Module("control_module",
	fx.Provide(
		control.NewOrchestrator,
		ProvideControlService,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig() *swagger.Config {
	return &swagger.Config{
		Enabled: true,
		Path:    "/swagger",
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeRestoreMode восстанавливает сохраненный режим регулирования при старте.
func InvokeRestoreMode(lc fx.Lifecycle, orch *control.Orchestrator, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := orch.RestoreMode(); err != nil {
				logger.Warn("Failed to restore persisted control mode", "error", err)
			}
			return nil // Не фатально, режим останется manual
		},
	})
}

// InvokeFrameSource запускает и останавливает источник кадров.
func InvokeFrameSource(lc fx.Lifecycle, source camera.Source, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting frame source...")
			return source.Start()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping frame source...")
			return source.Stop()
		},
	})
}

// InvokeControlLoop запускает надзорный цикл регулирования и закрывает
// внешние ресурсы при остановке.
func InvokeControlLoop(lc fx.Lifecycle, orch *control.Orchestrator, producer interfaces.KafkaService, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting control loop...")
			return orch.Start()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping control loop...")
			if err := orch.Stop(); err != nil {
				logger.Warn("Control loop stopped with error", "error", err)
			}
			return producer.Close()
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
