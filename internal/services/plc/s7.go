package plc

import (
	"fmt"
	"sync"
	"time"

	"github.com/robinson/gos7"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// S7Transport реализует Transport поверх клиента gos7.
// Потеря соединения не фатальна: следующий вызов ReadDB/WriteDB
// попытается переподключиться.
type S7Transport struct {
	cfg     config.PlcConfig
	logger  *logging.Logger
	mu      sync.Mutex
	handler *gos7.TCPClientHandler
	client  gos7.Client
}

func NewS7Transport(cfg config.PlcConfig, logger *logging.Logger) *S7Transport {
	return &S7Transport{
		cfg:    cfg,
		logger: logger.WithPrefix("S7"),
	}
}

func (t *S7Transport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connectUnsafe()
}

func (t *S7Transport) connectUnsafe() error {
	if t.client != nil {
		return nil
	}

	handler := gos7.NewTCPClientHandler(t.cfg.Address, t.cfg.Rack, t.cfg.Slot)
	handler.Timeout = time.Duration(t.cfg.ReadTimeoutMs) * time.Millisecond
	handler.IdleTimeout = 0

	if err := handler.Connect(); err != nil {
		return fmt.Errorf("не удалось подключиться к контроллеру %s: %w", t.cfg.Address, err)
	}

	t.handler = handler
	t.client = gos7.NewClient(handler)
	t.logger.Info("PLC connection established", "address", t.cfg.Address, "rack", t.cfg.Rack, "slot", t.cfg.Slot)
	return nil
}

func (t *S7Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropUnsafe()
}

func (t *S7Transport) dropUnsafe() error {
	if t.handler == nil {
		return nil
	}
	err := t.handler.Close()
	t.handler = nil
	t.client = nil
	t.logger.Info("PLC connection closed", "address", t.cfg.Address)
	return err
}

func (t *S7Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client != nil
}

func (t *S7Transport) ReadDB(offset, size int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.connectUnsafe(); err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	if err := t.client.AGReadDB(t.cfg.DBNumber, offset, size, buf); err != nil {
		// Разрываем соединение, чтобы следующий вызов переподключился
		_ = t.dropUnsafe()
		return nil, fmt.Errorf("ошибка чтения DB%d+%d: %w", t.cfg.DBNumber, offset, err)
	}
	return buf, nil
}

func (t *S7Transport) WriteDB(offset int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.connectUnsafe(); err != nil {
		return err
	}

	if err := t.client.AGWriteDB(t.cfg.DBNumber, offset, len(data), data); err != nil {
		_ = t.dropUnsafe()
		return fmt.Errorf("ошибка записи DB%d+%d: %w", t.cfg.DBNumber, offset, err)
	}
	return nil
}
