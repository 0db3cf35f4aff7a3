package regulation

import (
	"testing"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/stretchr/testify/require"
)

func newTestRegulator(side models.Side) *Regulator {
	cfg := config.RegulationConfig{
		TargetMm:     2.0,
		DeadbandMm:   0.25,
		HysteresisMm: 0.05,
		Cooldown:     5 * time.Second,
		MinQuality:   0.5,
		MaxSteps:     1,
	}
	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
	return NewRegulator(side, cfg, logger)
}

func measurement(side models.Side, ts time.Time, gapMm, quality float64) models.SideGapResult {
	return models.SideGapResult{
		Timestamp: ts,
		Side:      side,
		GapMm:     gapMm,
		Quality:   quality,
	}
}

func TestDecideEmitsStepOutsideDeadband(t *testing.T) {
	r := newTestRegulator(models.SideLeft)
	ts := time.Now()

	// Зазор 2.30 при цели 2.00: ошибка +0.30 >= deadband 0.25
	cmd := r.Decide(measurement(models.SideLeft, ts, 2.30, 1.0), models.ModeAuto)
	require.NotNil(t, cmd, "Ошибка вне допуска должна порождать команду")
	require.Equal(t, models.ActionLeftMinus, cmd.Action, "Зазор шире цели - направление Minus")
	require.Equal(t, 1, cmd.Steps)
	require.True(t, r.Latched(), "Защелка должна быть взведена")
}

func TestDecideArmsAtExactDeadband(t *testing.T) {
	r := newTestRegulator(models.SideLeft)

	// Строгое >=: ошибка ровно 0.25 взводит защелку
	cmd := r.Decide(measurement(models.SideLeft, time.Now(), 2.25, 1.0), models.ModeAuto)
	require.NotNil(t, cmd, "Ошибка, равная deadband, должна взводить защелку")
	require.True(t, r.Latched())
}

func TestDecideCooldownSuppressesRepeat(t *testing.T) {
	r := newTestRegulator(models.SideLeft)
	ts := time.Now()

	cmd := r.Decide(measurement(models.SideLeft, ts, 2.30, 1.0), models.ModeAuto)
	require.NotNil(t, cmd)

	// Через 1с ошибка все еще вне допуска, но cooldown не истек
	ts2 := ts.Add(time.Second)
	cmd = r.Decide(measurement(models.SideLeft, ts2, 2.28, 1.0), models.ModeAuto)
	require.Nil(t, cmd, "Во время cooldown команды не предлагаются")
	require.True(t, r.Latched(), "Cooldown не снимает защелку")

	// После истечения cooldown команда возобновляется
	ts3 := ts.Add(6 * time.Second)
	cmd = r.Decide(measurement(models.SideLeft, ts3, 2.28, 1.0), models.ModeAuto)
	require.NotNil(t, cmd, "После cooldown коррекция должна возобновиться")
}

func TestDecideCooldownOwnedByDecide(t *testing.T) {
	r := newTestRegulator(models.SideLeft)
	ts := time.Now()

	// Первая команда взводит cooldown внутри самого Decide:
	// никакой внешней обратной связи об исполнении не поступает
	cmd := r.Decide(measurement(models.SideLeft, ts, 2.30, 1.0), models.ModeAuto)
	require.NotNil(t, cmd)
	require.Equal(t, models.ActionLeftMinus, cmd.Action)

	// То же измерение через 1с: повторная команда подавлена, даже если
	// предыдущая транзакция не удалась или проиграла арбитраж
	cmd = r.Decide(measurement(models.SideLeft, ts.Add(time.Second), 2.30, 1.0), models.ModeAuto)
	require.Nil(t, cmd, "Внутри окна cooldown вторая команда не предлагается")

	cmd = r.Decide(measurement(models.SideLeft, ts.Add(2*time.Second), 2.30, 1.0), models.ModeAuto)
	require.Nil(t, cmd, "Cooldown действует на каждом вызове, а не только на следующем")
}

func TestDecideCooldownUsesMeasurementTime(t *testing.T) {
	r := newTestRegulator(models.SideRight)
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	cmd := r.Decide(measurement(models.SideRight, base, 2.40, 1.0), models.ModeAuto)
	require.NotNil(t, cmd)

	// Повторное проигрывание того же потока измерений детерминировано:
	// решение зависит от времени измерения, а не от настенных часов
	cmd = r.Decide(measurement(models.SideRight, base.Add(4*time.Second), 2.40, 1.0), models.ModeAuto)
	require.Nil(t, cmd)
	cmd = r.Decide(measurement(models.SideRight, base.Add(5*time.Second), 2.40, 1.0), models.ModeAuto)
	require.NotNil(t, cmd)
}

func TestDecideHysteresisDisarmsLatch(t *testing.T) {
	r := newTestRegulator(models.SideLeft)
	ts := time.Now()

	require.NotNil(t, r.Decide(measurement(models.SideLeft, ts, 2.30, 1.0), models.ModeAuto))

	// 2.22: ошибка 0.22 > 0.20 (deadband-hysteresis), защелка держится
	r.Decide(measurement(models.SideLeft, ts.Add(time.Second), 2.22, 1.0), models.ModeAuto)
	require.True(t, r.Latched(), "Внутри зоны гистерезиса защелка должна удерживаться")

	// 2.05: ошибка 0.05 <= 0.20, защелка снимается
	cmd := r.Decide(measurement(models.SideLeft, ts.Add(2*time.Second), 2.05, 1.0), models.ModeAuto)
	require.Nil(t, cmd)
	require.False(t, r.Latched(), "Под порогом повторного взвода защелка должна сняться")

	// Повторный взвод требует полного deadband: 2.22 уже недостаточно
	cmd = r.Decide(measurement(models.SideLeft, ts.Add(10*time.Second), 2.22, 1.0), models.ModeAuto)
	require.Nil(t, cmd, "Повторный взвод требует absErr >= deadband")
}

func TestDecideLowQualityClearsLatch(t *testing.T) {
	r := newTestRegulator(models.SideLeft)
	ts := time.Now()

	require.NotNil(t, r.Decide(measurement(models.SideLeft, ts, 2.40, 1.0), models.ModeAuto))
	require.True(t, r.Latched())

	cmd := r.Decide(measurement(models.SideLeft, ts.Add(time.Second), 2.40, 0.2), models.ModeAuto)
	require.Nil(t, cmd, "Недостоверное измерение трактуется как 'в допуске'")
	require.False(t, r.Latched(), "Низкое качество должно снимать защелку")
}

func TestDecideNonAutoModeDisables(t *testing.T) {
	r := newTestRegulator(models.SideLeft)
	ts := time.Now()

	require.NotNil(t, r.Decide(measurement(models.SideLeft, ts, 2.40, 1.0), models.ModeAuto))
	require.True(t, r.Latched())

	for _, mode := range []models.ControlMode{models.ModeManual, models.ModeAutoHold} {
		cmd := r.Decide(measurement(models.SideLeft, ts.Add(time.Second), 2.40, 1.0), mode)
		require.Nil(t, cmd, "Вне режима auto команды не предлагаются: %s", mode)
		require.False(t, r.Latched(), "Вне режима auto защелка должна сняться: %s", mode)
	}
}

func TestDecideDirectionFollowsErrorSign(t *testing.T) {
	left := newTestRegulator(models.SideLeft)
	right := newTestRegulator(models.SideRight)
	ts := time.Now()

	cmd := left.Decide(measurement(models.SideLeft, ts, 1.60, 1.0), models.ModeAuto)
	require.NotNil(t, cmd)
	require.Equal(t, models.ActionLeftPlus, cmd.Action, "Зазор уже цели - направление Plus")

	cmd = right.Decide(measurement(models.SideRight, ts, 2.60, 1.0), models.ModeAuto)
	require.NotNil(t, cmd)
	require.Equal(t, models.ActionRightMinus, cmd.Action)
}
