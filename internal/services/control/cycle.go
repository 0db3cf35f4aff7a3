package control

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/iwtcode/gapService/internal/domain/entities"
	"github.com/iwtcode/gapService/internal/domain/models"
)

// runCycle выполняет один цикл регулирования в фиксированном порядке:
// выборка команд, опрос статуса, кадры, свежесть, запуск измерения,
// композиция, регулирование, публикация снимка.
func (o *Orchestrator) runCycle(ctx context.Context) {
	now := time.Now()

	// 1. Выбираем не более одного запроса сброса и одного ручного шага
	manualDone := o.drainRequests(ctx)

	// 2. Опрашиваем статус устройства безусловно: снимок должен
	// отражать состояние связи независимо от остального цикла
	o.pollPlcStatus(now)

	// 3-4. Свежайший кадр каждой стороны; одноразовый тестовый кадр
	// имеет приоритет над живым потоком
	testArrived := o.collectFrames()
	fresh := map[models.Side]bool{
		models.SideLeft:  o.sideFresh(models.SideLeft, now),
		models.SideRight: o.sideFresh(models.SideRight, now),
	}

	// 5. Запуск измерения: немедленно по тестовому кадру стороны,
	// периодически - только когда свежи обе стороны сразу
	newResult := o.triggerMeasure(ctx, now, testArrived, fresh)

	// 6. Композиция двустороннего результата
	o.compose(ctx, now, newResult)

	// 7. Регулирование, арбитраж и исполнение
	o.regulate(ctx, now, manualDone)

	// 8. Публикация снимка состояния
	o.publishSnapshot(now)
}

// drainRequests выбирает из ящиков запрос сброса и ручной шаг.
// Возвращает true, если в этом цикле был выполнен ручной шаг.
func (o *Orchestrator) drainRequests(ctx context.Context) bool {
	if o.store.TakeResetRequest() {
		if err := o.engine.Reset(ctx); err != nil {
			o.logger.Error("Handshake reset failed", "error", err)
			o.store.AppendLog("handshake reset failed: %v", err)
		} else {
			o.store.AppendLog("handshake reset executed")
		}
	}

	cmd := o.store.TakeManualStep()
	if cmd == nil {
		return false
	}

	o.logger.Info("Executing manual step", "side", cmd.Side, "action", cmd.Action, "steps", cmd.Steps)
	result := o.executeCommand(ctx, *cmd, true)
	o.lastAction = &result
	return true
}

// pollPlcStatus обновляет кэш области обмена и статус устройства.
// Инвариант: при потере связи все семь статусных битов сброшены.
func (o *Orchestrator) pollPlcStatus(now time.Time) {
	if err := o.db.Refresh(); err != nil {
		o.plcStatus = models.PlcStatus{Connected: false, Timestamp: now}
		if o.plcWasOnline {
			o.logger.Warn("PLC connection lost", "error", err)
			o.store.AppendLog("plc connection lost")
			o.plcWasOnline = false
		}
		return
	}

	st := o.db.Status()
	st.Connected = true
	o.plcStatus = st
	if !o.plcWasOnline {
		o.logger.Info("PLC connection established")
		o.store.AppendLog("plc connected")
		o.plcWasOnline = true
	}
}

// collectFrames обновляет кадр каждой стороны и возвращает стороны,
// на которых в этом цикле появился тестовый кадр.
func (o *Orchestrator) collectFrames() map[models.Side]bool {
	testArrived := make(map[models.Side]bool, 2)

	for side, st := range o.sides {
		if test := o.store.TakeTestFrame(side); test != nil {
			o.acceptFrame(st, test)
			testArrived[side] = true
			o.logger.Info("Test frame consumed", "side", side)
			continue
		}

		frame, ok := o.source.Latest(side)
		if ok && frame != nil {
			o.acceptFrame(st, frame)
		}
	}

	return testArrived
}

// acceptFrame принимает кадр стороны, ведя счетчики fps и потерь.
// Кадр, замененный до того как был измерен, считается потерянным.
func (o *Orchestrator) acceptFrame(st *sideState, frame *models.Frame) {
	if st.frame != nil && frame.Timestamp.Equal(st.frame.Timestamp) {
		return
	}

	if st.frame != nil {
		if !st.frameUsed {
			st.dropped++
		}
		if dt := frame.Timestamp.Sub(st.prevStamp); dt > 0 {
			st.fps = 1 / dt.Seconds()
		}
	}

	st.prevStamp = frame.Timestamp
	st.frame = frame
	st.frameUsed = false
}

// sideFresh сообщает готовность стороны: кадр существует и его возраст
// не превышает окно устаревания.
func (o *Orchestrator) sideFresh(side models.Side, now time.Time) bool {
	st := o.sides[side]
	if st.frame == nil {
		return false
	}
	return now.Sub(st.frame.Timestamp) <= o.cfg.Camera.StaleWindow
}

// triggerMeasure запускает измерение и возвращает стороны, получившие
// новый результат в этом цикле. Частичная готовность никогда не
// запускает периодическое измерение.
func (o *Orchestrator) triggerMeasure(ctx context.Context, now time.Time, testArrived, fresh map[models.Side]bool) map[models.Side]bool {
	newResult := make(map[models.Side]bool, 2)
	if o.measurer == nil {
		return newResult
	}

	// Немедленный запуск по тестовому кадру, каждая сторона независимо
	for side := range testArrived {
		if o.computeSide(ctx, side) {
			newResult[side] = true
		}
	}

	// Периодический запуск только при одновременной готовности обеих сторон
	if now.Sub(o.lastMeasureAt) >= o.cfg.Measure.Period &&
		fresh[models.SideLeft] && fresh[models.SideRight] {
		o.lastMeasureAt = now
		for _, side := range []models.Side{models.SideLeft, models.SideRight} {
			if testArrived[side] {
				continue // уже измерена по тестовому кадру
			}
			if o.computeSide(ctx, side) {
				newResult[side] = true
			}
		}
	}

	return newResult
}

// computeSide вызывает измерительный модуль для текущего кадра стороны.
// Ошибка измерения пропускает сторону только в этом цикле.
func (o *Orchestrator) computeSide(ctx context.Context, side models.Side) bool {
	st := o.sides[side]
	if st.frame == nil {
		return false
	}

	res, err := o.measurer.ComputeSideGap(ctx, *st.frame)
	if err != nil {
		o.logger.Warn("Gap measurement failed", "side", side, "error", err)
		o.store.AppendLog("measurement failed on %s: %v", side, err)
		return false
	}

	st.frameUsed = true
	st.lastResult = &res
	return true
}

// compose строит двусторонний результат, когда цикл дал хотя бы один
// новый односторонний результат и известны последние результаты обеих
// сторон. Лог и публикация дросселируются: по изменению значения или
// не чаще раза в секунду.
func (o *Orchestrator) compose(ctx context.Context, now time.Time, newResult map[models.Side]bool) {
	if len(newResult) == 0 {
		return
	}
	leftRes := o.sides[models.SideLeft].lastResult
	rightRes := o.sides[models.SideRight].lastResult
	if leftRes == nil || rightRes == nil {
		return
	}

	ts := leftRes.Timestamp
	if rightRes.Timestamp.After(ts) {
		ts = rightRes.Timestamp
	}
	gap := models.GapResult{
		Timestamp: ts,
		LeftMm:    leftRes.GapMm,
		RightMm:   rightRes.GapMm,
		Quality:   math.Min(leftRes.Quality, rightRes.Quality),
	}
	if leftRes.Diag != "" || rightRes.Diag != "" {
		gap.Diag = leftRes.Diag + "; " + rightRes.Diag
	}
	o.lastGap = &gap

	changed := o.lastLoggedGap == nil ||
		o.lastLoggedGap.LeftMm != gap.LeftMm ||
		o.lastLoggedGap.RightMm != gap.RightMm
	if !changed && now.Sub(o.lastGapLogAt) < time.Second {
		return
	}
	o.lastLoggedGap = &gap
	o.lastGapLogAt = now

	o.logger.Info("Gap measured", "left_mm", gap.LeftMm, "right_mm", gap.RightMm, "quality", gap.Quality)
	o.publish(ctx, "gap", gap)
}

// regulate прогоняет оба регулятора, проводит арбитраж и исполняет
// победившую команду. Результат, включая явное "нет действия",
// фиксируется как последнее действие цикла.
func (o *Orchestrator) regulate(ctx context.Context, now time.Time, manualDone bool) {
	mode := o.store.Mode()

	// Регуляторы вызываются каждый цикл, даже с неизменным входом,
	// чтобы защелка и cooldown корректно старели
	var leftCmd, rightCmd *models.StepCommand
	if res := o.sides[models.SideLeft].lastResult; res != nil {
		leftCmd = o.left.Decide(*res, mode)
	}
	if res := o.sides[models.SideRight].lastResult; res != nil {
		rightCmd = o.right.Decide(*res, mode)
	}

	if mode != models.ModeAuto {
		if !manualDone {
			o.lastAction = &models.ActionResult{
				Timestamp: now,
				Action:    models.ActionNone,
				Outcome:   models.OutcomeNotEvaluated,
			}
		}
		return
	}

	winner := o.arbitrate(leftCmd, rightCmd)
	if winner == nil {
		if !manualDone {
			o.lastAction = &models.ActionResult{
				Timestamp: now,
				Action:    models.ActionNone,
				Outcome:   models.OutcomeDeclined,
			}
		}
		return
	}

	result := o.executeCommand(ctx, *winner, false)
	o.lastAction = &result
}

// arbitrate выбирает команду, когда обе стороны предложили коррекцию.
// Политика настраиваемая: по умолчанию побеждает большее |отклонение|,
// при равенстве - левая сторона (проверяется первой).
func (o *Orchestrator) arbitrate(leftCmd, rightCmd *models.StepCommand) *models.StepCommand {
	switch {
	case leftCmd == nil:
		return rightCmd
	case rightCmd == nil:
		return leftCmd
	}

	if o.cfg.Regulation.Arbitration == "left-first" {
		return leftCmd
	}

	leftErr := math.Abs(o.left.Error(*o.sides[models.SideLeft].lastResult))
	rightErr := math.Abs(o.right.Error(*o.sides[models.SideRight].lastResult))
	if rightErr > leftErr {
		return rightCmd
	}
	return leftCmd
}

// executeCommand выполняет команду через handshake под ограниченным
// на вызов таймаутом, журналирует исход, сохраняет событие в БД и
// публикует его в Kafka. Все внешние вызовы деградируют в запись лога.
func (o *Orchestrator) executeCommand(ctx context.Context, cmd models.StepCommand, manual bool) models.ActionResult {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Plc.Deadline+500*time.Millisecond)
	defer cancel()

	ok, reason := o.engine.Execute(callCtx, cmd.Action)

	result := models.ActionResult{
		Timestamp: time.Now(),
		Action:    cmd.Action,
		Side:      cmd.Side,
		Steps:     cmd.Steps,
		Manual:    manual,
		Reason:    cmd.Reason,
	}
	if ok {
		result.Outcome = models.OutcomeExecuted
		o.store.AppendLog("step %s executed (%s)", cmd.Action, cmd.Reason)
	} else {
		result.Outcome = models.OutcomeFailed
		result.Reason = reason
		o.store.AppendLog("step %s failed: %s", cmd.Action, reason)
	}

	event := &entities.CorrectionEvent{
		ID:        uuid.New().String(),
		Timestamp: result.Timestamp,
		Side:      string(cmd.Side),
		Action:    string(cmd.Action),
		Steps:     cmd.Steps,
		Outcome:   string(result.Outcome),
		Manual:    manual,
		Reason:    result.Reason,
	}
	if err := o.repos.CorrectionEvents().Create(event); err != nil {
		o.logger.Error("Failed to persist correction event", "error", err)
	}

	o.publish(ctx, "action", result)
	return result
}

// publish сериализует значение и отправляет его в Kafka. Отказ брокера
// не останавливает цикл.
func (o *Orchestrator) publish(ctx context.Context, key string, value interface{}) {
	if o.producer == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		o.logger.Error("Failed to serialize data for Kafka", "key", key, "error", err)
		return
	}
	if err := o.producer.Produce(ctx, []byte(key), data); err != nil {
		o.logger.Error("Failed to send data to Kafka", "key", key, "error", err)
	}
}

// publishSnapshot собирает и атомарно публикует снимок состояния.
func (o *Orchestrator) publishSnapshot(now time.Time) {
	snap := models.SystemSnapshot{
		Timestamp:   now,
		Mode:        o.store.Mode(),
		Plc:         o.plcStatus,
		LeftCamera:  o.cameraStatus(models.SideLeft, now),
		RightCamera: o.cameraStatus(models.SideRight, now),
	}
	if o.lastGap != nil {
		gap := *o.lastGap
		snap.LastGap = &gap
	}
	if o.lastAction != nil {
		action := *o.lastAction
		snap.LastAction = &action
	}

	o.store.PublishSnapshot(snap)
}

// cameraStatus выводит состояние камеры стороны из последнего кадра.
func (o *Orchestrator) cameraStatus(side models.Side, now time.Time) models.CameraStatus {
	st := o.sides[side]
	status := models.CameraStatus{
		Fps:     st.fps,
		Dropped: st.dropped,
	}
	if st.frame != nil {
		status.LastFrameAt = st.frame.Timestamp
		status.Connected = now.Sub(st.frame.Timestamp) <= o.cfg.Camera.StaleWindow
	}
	return status
}
