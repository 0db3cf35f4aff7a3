package plc

import (
	"fmt"
	"strings"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/middleware/logging"
)

// Transport определяет байтовый доступ к области данных контроллера.
// Номер блока данных фиксируется при создании транспорта.
type Transport interface {
	Connect() error
	Disconnect() error
	Connected() bool
	ReadDB(offset, size int) ([]byte, error)
	WriteDB(offset int, data []byte) error
}

// NewTransport выбирает реализацию транспорта на основе строки из конфигурации.
func NewTransport(cfg *config.AppConfig, logger *logging.Logger) (Transport, error) {
	switch strings.ToLower(cfg.Plc.Transport) {
	case "s7":
		return NewS7Transport(cfg.Plc, logger), nil
	case "sim", "":
		return NewSimTransport(), nil
	}
	return nil, fmt.Errorf("неизвестный транспорт контроллера: '%s'", cfg.Plc.Transport)
}
