package plc

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/iwtcode/gapService/internal/domain/models"
)

// Раскладка области обмена: 14 байт от базового смещения B.
//
//	B+0        командный байт (пишет сервис)
//	B+1        статусный байт (пишет устройство, только чтение)
//	B+2..B+5   шаг коррекции, float32 (мм)
//	B+6..B+7   максимум шагов на запрос, uint16
//	B+10..B+13 таймаут handshake, int32 (мс)
const (
	regionSize = 14

	cmdByteOffset    = 0
	statusByteOffset = 1
	stepMmOffset     = 2
	maxStepsOffset   = 6
	timeoutMsOffset  = 10
)

// Биты командного байта B+0.
const (
	BitEnable          uint = 0
	BitRequest         uint = 1
	BitModeAutoAllowed uint = 2
	BitLeftPlus        uint = 3
	BitLeftMinus       uint = 4
	BitRightPlus       uint = 5
	BitRightMinus      uint = 6
	BitReset           uint = 7
)

// Биты статусного байта B+1.
const (
	BitReady    uint = 0
	BitAck      uint = 1
	BitBusy     uint = 2
	BitDone     uint = 3
	BitNok      uint = 4
	BitTimeout  uint = 5
	BitConflict uint = 6
)

// DataBlock - доступ к фиксированной области обмена контроллера.
// Refresh выполняет одно батч-чтение всей области в локальный кэш;
// все типизированные аксессоры читают только кэш и не ходят в устройство.
// Запись ограничена единственным командным байтом: запрошенное изменение
// бита сливается с кэшированной копией байта, статусный байт не пишется
// никогда.
type DataBlock struct {
	tr   Transport
	base int

	mu    sync.Mutex
	cache [regionSize]byte
}

func NewDataBlock(tr Transport, baseOffset int) *DataBlock {
	return &DataBlock{
		tr:   tr,
		base: baseOffset,
	}
}

// Refresh выполняет одно батч-чтение всей области в кэш.
// При ошибке ввода-вывода кэш остается прежним; вызывающая сторона
// определяет "нет связи" по состоянию соединения, а не по кэшу.
func (d *DataBlock) Refresh() error {
	buf, err := d.tr.ReadDB(d.base, regionSize)
	if err != nil {
		return fmt.Errorf("не удалось обновить область обмена: %w", err)
	}

	d.mu.Lock()
	copy(d.cache[:], buf)
	d.mu.Unlock()
	return nil
}

func (d *DataBlock) bit(offset int, bit uint) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache[offset]&(1<<bit) != 0
}

// CommandBit возвращает кэшированное значение бита командного байта.
func (d *DataBlock) CommandBit(bit uint) bool { return d.bit(cmdByteOffset, bit) }

// StatusBit возвращает кэшированное значение бита статусного байта.
func (d *DataBlock) StatusBit(bit uint) bool { return d.bit(statusByteOffset, bit) }

func (d *DataBlock) Ready() bool      { return d.StatusBit(BitReady) }
func (d *DataBlock) Ack() bool        { return d.StatusBit(BitAck) }
func (d *DataBlock) Busy() bool       { return d.StatusBit(BitBusy) }
func (d *DataBlock) Done() bool       { return d.StatusBit(BitDone) }
func (d *DataBlock) Nok() bool        { return d.StatusBit(BitNok) }
func (d *DataBlock) TimeoutBit() bool { return d.StatusBit(BitTimeout) }
func (d *DataBlock) Conflict() bool   { return d.StatusBit(BitConflict) }

// StepMm возвращает настроенный на устройстве шаг коррекции в мм.
func (d *DataBlock) StepMm() float64 {
	d.mu.Lock()
	bits := binary.BigEndian.Uint32(d.cache[stepMmOffset : stepMmOffset+4])
	d.mu.Unlock()
	return float64(math.Float32frombits(bits))
}

// MaxStepsPerReq возвращает настроенный на устройстве максимум шагов
// на один запрос.
func (d *DataBlock) MaxStepsPerReq() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int(binary.BigEndian.Uint16(d.cache[maxStepsOffset : maxStepsOffset+2]))
}

// HandshakeTimeout возвращает настроенный на устройстве таймаут
// транзакции; 0 означает "не задан".
func (d *DataBlock) HandshakeTimeout() time.Duration {
	d.mu.Lock()
	ms := int32(binary.BigEndian.Uint32(d.cache[timeoutMsOffset : timeoutMsOffset+4]))
	d.mu.Unlock()
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Status собирает статусные биты из кэша в модель.
// Флаг Connected проставляет вызывающая сторона.
func (d *DataBlock) Status() models.PlcStatus {
	d.mu.Lock()
	b := d.cache[statusByteOffset]
	d.mu.Unlock()

	return models.PlcStatus{
		Ready:     b&(1<<BitReady) != 0,
		Ack:       b&(1<<BitAck) != 0,
		Busy:      b&(1<<BitBusy) != 0,
		Done:      b&(1<<BitDone) != 0,
		Nok:       b&(1<<BitNok) != 0,
		Timeout:   b&(1<<BitTimeout) != 0,
		Conflict:  b&(1<<BitConflict) != 0,
		Timestamp: time.Now(),
	}
}

// SetCommandBit сливает изменение бита с кэшированной копией командного
// байта и пишет в устройство ровно этот один байт.
func (d *DataBlock) SetCommandBit(bit uint, value bool) error {
	d.mu.Lock()
	b := d.cache[cmdByteOffset]
	if value {
		b |= 1 << bit
	} else {
		b &^= 1 << bit
	}
	d.cache[cmdByteOffset] = b
	d.mu.Unlock()

	if err := d.tr.WriteDB(d.base+cmdByteOffset, []byte{b}); err != nil {
		return fmt.Errorf("не удалось записать командный байт: %w", err)
	}
	return nil
}

// Pulse взводит бит, удерживает его hold и сбрасывает. Ограниченная
// синхронная операция; сброс выполняется даже при отмене контекста,
// чтобы не оставить бит взведенным.
func (d *DataBlock) Pulse(ctx context.Context, bit uint, hold time.Duration) error {
	if err := d.SetCommandBit(bit, true); err != nil {
		return err
	}

	timer := time.NewTimer(hold)
	defer timer.Stop()
	var ctxErr error
	select {
	case <-timer.C:
	case <-ctx.Done():
		ctxErr = ctx.Err()
	}

	if err := d.SetCommandBit(bit, false); err != nil {
		return err
	}
	return ctxErr
}
