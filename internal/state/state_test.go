package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/stretchr/testify/require"
)

func TestStoreInitialSnapshot(t *testing.T) {
	s := NewStore()

	snap := s.Snapshot()
	require.NotNil(t, snap, "Снимок должен существовать с момента создания хранилища")
	require.Equal(t, models.ModeManual, snap.Mode, "Начальный режим - manual")
	require.Equal(t, models.ModeManual, s.Mode())
}

func TestStorePublishSnapshotReplacesWhole(t *testing.T) {
	s := NewStore()

	s.PublishSnapshot(models.SystemSnapshot{
		Timestamp: time.Now(),
		Mode:      models.ModeAuto,
		Plc:       models.PlcStatus{Connected: true, Ready: true},
	})

	first := s.Snapshot()
	require.True(t, first.Plc.Ready)

	s.PublishSnapshot(models.SystemSnapshot{
		Timestamp: time.Now(),
		Mode:      models.ModeAuto,
	})

	// Ранее полученный указатель не меняется после новой публикации
	require.True(t, first.Plc.Ready, "Опубликованный снимок неизменяем")
	require.False(t, s.Snapshot().Plc.Ready, "Новый снимок заменяет агрегат целиком")
}

func TestStoreLogRingEvictsOldest(t *testing.T) {
	s := NewStore()

	for i := 0; i < logCapacity+5; i++ {
		s.AppendLog("event %d", i)
	}

	log := s.RecentLog()
	require.Len(t, log, logCapacity, "Буфер журнала ограничен емкостью")
	require.Contains(t, log[0], "event 5", "Самые старые сообщения вытесняются")
	require.Contains(t, log[logCapacity-1], fmt.Sprintf("event %d", logCapacity+4))
}

func TestStoreSnapshotCarriesRecentLog(t *testing.T) {
	s := NewStore()
	s.AppendLog("manual step queued")

	s.PublishSnapshot(models.SystemSnapshot{Timestamp: time.Now(), Mode: models.ModeManual})
	snap := s.Snapshot()
	require.Len(t, snap.RecentLog, 1)
	require.Contains(t, snap.RecentLog[0], "manual step queued")
}

func TestStoreResetMailboxLatestWins(t *testing.T) {
	s := NewStore()

	require.False(t, s.TakeResetRequest(), "Пустой ящик не должен отдавать запрос")

	s.RequestReset()
	s.RequestReset() // повторный запрос сливается с первым
	require.True(t, s.TakeResetRequest())
	require.False(t, s.TakeResetRequest(), "Запрос извлекается ровно один раз")
}

func TestStoreManualStepMailboxSingleSlot(t *testing.T) {
	s := NewStore()

	require.Nil(t, s.TakeManualStep())

	s.RequestManualStep(models.StepCommand{Side: models.SideLeft, Action: models.ActionLeftPlus, Steps: 1})
	s.RequestManualStep(models.StepCommand{Side: models.SideRight, Action: models.ActionRightMinus, Steps: 2})

	cmd := s.TakeManualStep()
	require.NotNil(t, cmd)
	require.Equal(t, models.ActionRightMinus, cmd.Action, "Последний запрос перезаписывает предыдущий")
	require.Nil(t, s.TakeManualStep(), "Ящик очищается при извлечении")
}

func TestStoreTestFrameSlotsPerSide(t *testing.T) {
	s := NewStore()

	s.InjectTestFrame(models.Frame{Side: models.SideLeft, Timestamp: time.Now(), Width: 4, Height: 2})

	require.Nil(t, s.TakeTestFrame(models.SideRight), "Кадр другой стороны не затрагивается")

	frame := s.TakeTestFrame(models.SideLeft)
	require.NotNil(t, frame)
	require.Equal(t, 4, frame.Width)
	require.Nil(t, s.TakeTestFrame(models.SideLeft), "Тестовый кадр одноразовый")
}
