package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/domain/entities"
	"github.com/iwtcode/gapService/internal/domain/models"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/iwtcode/gapService/internal/middleware/swagger"
	"github.com/stretchr/testify/require"
)

type fakeUsecases struct {
	mode   models.ControlMode
	resets int
	steps  []models.ManualStepRequest
	frames []models.TestFrameRequest
	events []entities.CorrectionEvent
}

func (f *fakeUsecases) Snapshot() *models.SystemSnapshot {
	return &models.SystemSnapshot{Mode: f.mode}
}
func (f *fakeUsecases) Mode() models.ControlMode { return f.mode }
func (f *fakeUsecases) SetMode(mode models.ControlMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("неподдерживаемый режим: '%s'", mode)
	}
	f.mode = mode
	return nil
}
func (f *fakeUsecases) RequestManualStep(req models.ManualStepRequest) error {
	f.steps = append(f.steps, req)
	return nil
}
func (f *fakeUsecases) RequestReset() { f.resets++ }
func (f *fakeUsecases) InjectTestFrame(req models.TestFrameRequest) error {
	f.frames = append(f.frames, req)
	return nil
}
func (f *fakeUsecases) RecentCorrections(limit int) ([]entities.CorrectionEvent, error) {
	return f.events, nil
}

func newTestRouter() (http.Handler, *fakeUsecases) {
	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
	uc := &fakeUsecases{mode: models.ModeManual}
	h := NewHandler(uc, logger)

	cfg := &config.AppConfig{GinMode: "test"}
	router := ProvideRouter(h, cfg, &swagger.Config{Enabled: false})
	return router, uc
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "Ответ должен быть валидным JSON")
	return body
}

func TestGetModeReturnsCurrentMode(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/mode", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "manual", body["mode"])
}

func TestSetModeSuccessEnvelope(t *testing.T) {
	router, uc := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/v1/mode", `{"mode":"auto"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "ok", body["status"])
	require.Contains(t, body["message"], "auto")
	require.Equal(t, models.ModeAuto, uc.mode)
}

func TestSetModeRejectsInvalidPayload(t *testing.T) {
	router, uc := newTestRouter()

	// Отсутствие обязательного поля
	w := doRequest(router, http.MethodPost, "/api/v1/mode", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "error", body["status"])
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "Ошибка должна быть вложенным объектом")
	require.Equal(t, float64(http.StatusBadRequest), errObj["code"])

	// Неподдерживаемое значение режима
	w = doRequest(router, http.MethodPost, "/api/v1/mode", `{"mode":"turbo"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, models.ModeManual, uc.mode, "Режим не должен меняться на невалидный запрос")
}

func TestManualStepQueuedThroughRouter(t *testing.T) {
	router, uc := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/v1/step", `{"side":"left","direction":"minus","steps":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, uc.steps, 1)
	require.Equal(t, models.SideLeft, uc.steps[0].Side)
	require.Equal(t, "minus", uc.steps[0].Direction)
}

func TestResetQueuedThroughRouter(t *testing.T) {
	router, uc := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/v1/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, uc.resets)
}

func TestSnapshotAndHistoryEndpoints(t *testing.T) {
	router, uc := newTestRouter()
	uc.events = []entities.CorrectionEvent{{ID: "1", Action: "left_minus", Outcome: "executed"}}

	w := doRequest(router, http.MethodGet, "/api/v1/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Contains(t, body, "snapshot")

	w = doRequest(router, http.MethodGet, "/api/v1/history?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Equal(t, float64(1), body["count"])
}
