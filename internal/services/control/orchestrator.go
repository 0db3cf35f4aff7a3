package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/interfaces"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/iwtcode/gapService/internal/services/camera"
	"github.com/iwtcode/gapService/internal/services/measure"
	"github.com/iwtcode/gapService/internal/services/plc"
	"github.com/iwtcode/gapService/internal/services/regulation"
	"github.com/iwtcode/gapService/internal/state"
)

// sideState - состояние одной стороны между циклами оркестратора.
type sideState struct {
	frame      *models.Frame
	frameUsed  bool
	prevStamp  time.Time
	fps        float64
	dropped    int64
	lastResult *models.SideGapResult
}

// Orchestrator ведет надзорный цикл регулирования: опрос устройства,
// выборка команд, кадры и их свежесть, запуск измерения, композиция,
// регулирование и арбитраж, публикация снимка. Цикл завершается только
// по явной остановке; отказ любого коллаборатора деградирует флаг
// статуса и цикл продолжается.
type Orchestrator struct {
	cfg    *config.AppConfig
	logger *logging.Logger

	store    *state.Store
	tr       plc.Transport
	db       *plc.DataBlock
	engine   *plc.Engine
	source   camera.Source
	measurer measure.Service
	producer interfaces.KafkaService
	repos    interfaces.Repositories

	left  *regulation.Regulator
	right *regulation.Regulator

	mu     sync.Mutex
	done   chan bool
	cancel context.CancelFunc

	sides map[models.Side]*sideState

	plcStatus     models.PlcStatus
	plcWasOnline  bool
	lastMeasureAt time.Time
	lastGap       *models.GapResult
	lastLoggedGap *models.GapResult
	lastGapLogAt  time.Time
	lastAction    *models.ActionResult
}

func NewOrchestrator(
	cfg *config.AppConfig,
	store *state.Store,
	tr plc.Transport,
	db *plc.DataBlock,
	engine *plc.Engine,
	source camera.Source,
	measurer measure.Service,
	producer interfaces.KafkaService,
	repos interfaces.Repositories,
	logger *logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger.WithPrefix("CONTROL"),
		store:    store,
		tr:       tr,
		db:       db,
		engine:   engine,
		source:   source,
		measurer: measurer,
		producer: producer,
		repos:    repos,
		left:     regulation.NewRegulator(models.SideLeft, cfg.Regulation, logger),
		right:    regulation.NewRegulator(models.SideRight, cfg.Regulation, logger),
		sides: map[models.Side]*sideState{
			models.SideLeft:  {},
			models.SideRight: {},
		},
	}
}

// Start подключает транспорт, взводит бит Enable и запускает цикл.
// Отказ подключения не фатален: цикл будет переподключаться на каждом
// опросе статуса.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done != nil {
		return fmt.Errorf("цикл регулирования уже запущен")
	}

	if err := o.tr.Connect(); err != nil {
		o.logger.Warn("Initial PLC connection failed, will retry in loop", "error", err)
	}
	if err := o.db.SetCommandBit(plc.BitEnable, true); err != nil {
		o.logger.Warn("Failed to raise enable bit", "error", err)
	}

	done := make(chan bool)
	o.done = done

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	go func() {
		o.logger.Info("Control cycle started", "interval", o.cfg.Control.CycleInterval)
		ticker := time.NewTicker(o.cfg.Control.CycleInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				o.logger.Info("Control cycle stopped")
				return
			case <-ticker.C:
				o.runCycle(ctx)
			}
		}
	}()

	return nil
}

// Stop останавливает цикл, снимает бит Enable и освобождает соединение.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done == nil {
		return nil
	}
	// Сначала отмена, чтобы идущая транзакция вышла на границе опроса
	o.cancel()
	close(o.done)
	o.done = nil

	if err := o.db.SetCommandBit(plc.BitEnable, false); err != nil {
		o.logger.Warn("Failed to clear enable bit on stop", "error", err)
	}
	return o.tr.Disconnect()
}
