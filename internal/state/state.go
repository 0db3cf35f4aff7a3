package state

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iwtcode/gapService/internal/domain/models"
)

// logCapacity - емкость кольцевого буфера последних сообщений.
const logCapacity = 10

// Store - общее состояние процесса. Поля снимка пишет только оркестратор,
// снимок заменяется целиком, поэтому читатели никогда не видят частично
// обновленный агрегат. Внешние акторы пишут только в одноместные
// почтовые ящики и слоты тестовых кадров.
type Store struct {
	snapshot atomic.Pointer[models.SystemSnapshot]

	modeMu sync.RWMutex
	mode   models.ControlMode

	logMu   sync.Mutex
	logRing []string

	resetRequested atomic.Bool

	stepMu   sync.Mutex
	stepSlot *models.StepCommand

	frameMu    sync.Mutex
	frameSlots map[models.Side]*models.Frame
}

func NewStore() *Store {
	s := &Store{
		mode:       models.ModeManual,
		logRing:    make([]string, 0, logCapacity),
		frameSlots: make(map[models.Side]*models.Frame, 2),
	}
	s.snapshot.Store(&models.SystemSnapshot{
		Timestamp: time.Now(),
		Mode:      models.ModeManual,
		RecentLog: []string{},
	})
	return s
}

// Snapshot возвращает последний опубликованный снимок состояния.
func (s *Store) Snapshot() *models.SystemSnapshot {
	return s.snapshot.Load()
}

// PublishSnapshot атомарно заменяет снимок состояния целиком.
func (s *Store) PublishSnapshot(snap models.SystemSnapshot) {
	snap.RecentLog = s.RecentLog()
	s.snapshot.Store(&snap)
}

// Mode возвращает текущий режим регулирования.
func (s *Store) Mode() models.ControlMode {
	s.modeMu.RLock()
	defer s.modeMu.RUnlock()
	return s.mode
}

// SetMode устанавливает режим регулирования.
func (s *Store) SetMode(mode models.ControlMode) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.mode = mode
}

// AppendLog добавляет сообщение с отметкой времени в кольцевой буфер.
// При переполнении вытесняется самое старое сообщение.
func (s *Store) AppendLog(format string, args ...interface{}) {
	msg := time.Now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)

	s.logMu.Lock()
	defer s.logMu.Unlock()
	if len(s.logRing) == logCapacity {
		copy(s.logRing, s.logRing[1:])
		s.logRing[logCapacity-1] = msg
		return
	}
	s.logRing = append(s.logRing, msg)
}

// RecentLog возвращает копию последних сообщений, от старых к новым.
func (s *Store) RecentLog() []string {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	out := make([]string, len(s.logRing))
	copy(out, s.logRing)
	return out
}

// RequestReset взводит запрос сброса handshake (latest-wins).
func (s *Store) RequestReset() {
	s.resetRequested.Store(true)
}

// TakeResetRequest снимает запрос сброса, если он был взведен.
func (s *Store) TakeResetRequest() bool {
	return s.resetRequested.Swap(false)
}

// RequestManualStep помещает запрос ручного шага в одноместный ящик.
// Повторный запрос до начала следующего цикла перезаписывает предыдущий.
func (s *Store) RequestManualStep(cmd models.StepCommand) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	s.stepSlot = &cmd
}

// TakeManualStep извлекает и очищает запрос ручного шага.
func (s *Store) TakeManualStep() *models.StepCommand {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	cmd := s.stepSlot
	s.stepSlot = nil
	return cmd
}

// InjectTestFrame помещает одноразовый тестовый кадр для стороны.
func (s *Store) InjectTestFrame(frame models.Frame) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.frameSlots[frame.Side] = &frame
}

// TakeTestFrame извлекает и очищает тестовый кадр стороны, если он есть.
func (s *Store) TakeTestFrame(side models.Side) *models.Frame {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	frame := s.frameSlots[side]
	delete(s.frameSlots, side)
	return frame
}
