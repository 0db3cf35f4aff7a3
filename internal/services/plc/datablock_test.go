package plc

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// setRegion заполняет образ симулятора типизированными значениями устройства.
func setRegion(tr *SimTransport, base int, status byte, stepMm float32, maxSteps uint16, timeoutMs int32) {
	tr.SetByte(base+statusByteOffset, status)

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(stepMm))
	for i, b := range buf {
		tr.SetByte(base+stepMmOffset+i, b)
	}

	binary.BigEndian.PutUint16(buf[:2], maxSteps)
	tr.SetByte(base+maxStepsOffset, buf[0])
	tr.SetByte(base+maxStepsOffset+1, buf[1])

	binary.BigEndian.PutUint32(buf[:], uint32(timeoutMs))
	for i, b := range buf {
		tr.SetByte(base+timeoutMsOffset+i, b)
	}
}

func TestDataBlockRefreshDecodesRegion(t *testing.T) {
	tr := NewSimTransport()
	setRegion(tr, 0, (1<<BitReady)|(1<<BitBusy), 0.05, 3, 1500)

	db := NewDataBlock(tr, 0)
	require.NoError(t, db.Refresh(), "Не удалось обновить область обмена")

	require.True(t, db.Ready(), "Бит Ready должен быть взведен")
	require.True(t, db.Busy(), "Бит Busy должен быть взведен")
	require.False(t, db.Done(), "Бит Done не должен быть взведен")
	require.InDelta(t, 0.05, db.StepMm(), 1e-6, "Шаг коррекции декодирован неверно")
	require.Equal(t, 3, db.MaxStepsPerReq(), "Максимум шагов декодирован неверно")
	require.Equal(t, 1500*time.Millisecond, db.HandshakeTimeout(), "Таймаут handshake декодирован неверно")
}

func TestDataBlockAccessorsReadCacheOnly(t *testing.T) {
	tr := NewSimTransport()
	tr.SetStatusBit(0, BitReady, true)

	db := NewDataBlock(tr, 0)
	require.NoError(t, db.Refresh())
	require.True(t, db.Ready())

	// Образ меняется, но без Refresh аксессоры видят прежний кэш
	tr.SetStatusBit(0, BitReady, false)
	tr.SetStatusBit(0, BitDone, true)
	require.True(t, db.Ready(), "Аксессор не должен ходить в устройство")
	require.False(t, db.Done(), "Аксессор не должен ходить в устройство")

	require.NoError(t, db.Refresh())
	require.False(t, db.Ready())
	require.True(t, db.Done())
}

func TestDataBlockRefreshKeepsCacheOnFault(t *testing.T) {
	tr := NewSimTransport()
	tr.SetStatusBit(0, BitAck, true)

	db := NewDataBlock(tr, 0)
	require.NoError(t, db.Refresh())

	tr.SetStatusBit(0, BitAck, false)
	tr.FailReads = true
	require.Error(t, db.Refresh(), "Отказ транспорта должен возвращать ошибку")
	require.True(t, db.Ack(), "При отказе чтения кэш должен остаться прежним")
}

func TestDataBlockHandshakeTimeoutUnset(t *testing.T) {
	tr := NewSimTransport()
	db := NewDataBlock(tr, 0)

	require.NoError(t, db.Refresh())
	require.Equal(t, time.Duration(0), db.HandshakeTimeout(), "Нулевое значение означает 'не задан'")

	// Отрицательное значение тоже трактуется как "не задан"
	setRegion(tr, 0, 0, 0, 0, -200)
	require.NoError(t, db.Refresh())
	require.Equal(t, time.Duration(0), db.HandshakeTimeout())
}

func TestDataBlockSetCommandBitWritesSingleByte(t *testing.T) {
	tr := NewSimTransport()
	db := NewDataBlock(tr, 0)

	var mu sync.Mutex
	var writes [][2]int // offset, size
	tr.OnWrite = func(offset int, data []byte) {
		mu.Lock()
		writes = append(writes, [2]int{offset, len(data)})
		mu.Unlock()
	}

	require.NoError(t, db.SetCommandBit(BitEnable, true))
	require.NoError(t, db.SetCommandBit(BitRequest, true))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, writes, 2)
	for _, w := range writes {
		require.Equal(t, cmdByteOffset, w[0], "Запись должна идти только в командный байт")
		require.Equal(t, 1, w[1], "Запись должна быть ровно одним байтом")
	}

	// Изменения бит сливаются, ранее взведенные биты сохраняются
	cmd := tr.GetByte(cmdByteOffset)
	require.Equal(t, byte((1<<BitEnable)|(1<<BitRequest)), cmd, "Биты командного байта должны сливаться")
}

func TestDataBlockSetCommandBitRespectsBaseOffset(t *testing.T) {
	tr := NewSimTransport()
	db := NewDataBlock(tr, 16)

	require.NoError(t, db.SetCommandBit(BitEnable, true))
	require.Equal(t, byte(1<<BitEnable), tr.GetByte(16+cmdByteOffset))
	require.Equal(t, byte(0), tr.GetByte(cmdByteOffset), "Смещение B должно учитываться при записи")
}

func TestDataBlockPulseSetsAndClearsBit(t *testing.T) {
	tr := NewSimTransport()
	db := NewDataBlock(tr, 0)

	var mu sync.Mutex
	var seen []byte
	tr.OnWrite = func(offset int, data []byte) {
		mu.Lock()
		seen = append(seen, data[0])
		mu.Unlock()
	}

	require.NoError(t, db.Pulse(context.Background(), BitReset, time.Millisecond))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2, "Импульс - ровно две записи: взвод и сброс")
	require.Equal(t, byte(1<<BitReset), seen[0])
	require.Equal(t, byte(0), seen[1])
}

func TestDataBlockPulseClearsBitOnCanceledContext(t *testing.T) {
	tr := NewSimTransport()
	db := NewDataBlock(tr, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.Pulse(ctx, BitReset, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, byte(0), tr.GetByte(cmdByteOffset), "Бит должен быть сброшен даже при отмене контекста")
}
