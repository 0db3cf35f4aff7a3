package plc

import (
	"fmt"
	"sync"
)

// simImageSize - размер образа блока данных симулятора.
const simImageSize = 64

// SimTransport - транспорт с образом блока данных в памяти.
// Используется в тестах и при пусконаладке без реального контроллера.
// Через OnWrite можно подключить сценарий, имитирующий логику устройства.
type SimTransport struct {
	mu        sync.Mutex
	image     [simImageSize]byte
	connected bool

	// OnWrite вызывается после применения записи, вне блокировки,
	// поэтому сценарий может свободно менять образ через SetStatusBit.
	OnWrite func(offset int, data []byte)
	// FailReads/FailWrites имитируют отказ транспорта.
	FailReads  bool
	FailWrites bool
}

func NewSimTransport() *SimTransport {
	return &SimTransport{}
}

func (t *SimTransport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = true
	return nil
}

func (t *SimTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}

func (t *SimTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *SimTransport) ReadDB(offset, size int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.FailReads {
		return nil, fmt.Errorf("sim: отказ чтения")
	}
	if offset < 0 || offset+size > simImageSize {
		return nil, fmt.Errorf("sim: чтение за границей образа: offset=%d size=%d", offset, size)
	}

	buf := make([]byte, size)
	copy(buf, t.image[offset:offset+size])
	return buf, nil
}

func (t *SimTransport) WriteDB(offset int, data []byte) error {
	t.mu.Lock()

	if t.FailWrites {
		t.mu.Unlock()
		return fmt.Errorf("sim: отказ записи")
	}
	if offset < 0 || offset+len(data) > simImageSize {
		t.mu.Unlock()
		return fmt.Errorf("sim: запись за границей образа: offset=%d size=%d", offset, len(data))
	}

	copy(t.image[offset:offset+len(data)], data)
	hook := t.OnWrite
	t.mu.Unlock()

	if hook != nil {
		hook(offset, data)
	}
	return nil
}

// SetByte выставляет байт образа напрямую, минуя Transport.
// Предназначен для сценариев, играющих роль устройства.
func (t *SimTransport) SetByte(offset int, value byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.image[offset] = value
}

// GetByte возвращает байт образа напрямую.
func (t *SimTransport) GetByte(offset int) byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.image[offset]
}

// SetStatusBit взводит или сбрасывает бит статусного байта образа.
func (t *SimTransport) SetStatusBit(base int, bit uint, value bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if value {
		t.image[base+statusByteOffset] |= 1 << bit
	} else {
		t.image[base+statusByteOffset] &^= 1 << bit
	}
}
