package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
)

type fakeSchedulerService struct {
	state models.SchedulerState
}

func (f *fakeSchedulerService) Start() (models.SchedulerState, error) {
	f.state = models.SchedulerRunning
	return f.state, nil
}

func (f *fakeSchedulerService) Stop() (models.SchedulerState, error) {
	f.state = models.SchedulerStopped
	return f.state, nil
}

func (f *fakeSchedulerService) Toggle() (models.SchedulerState, error) {
	switch f.state {
	case models.SchedulerRunning:
		f.state = models.SchedulerPaused
	case models.SchedulerPaused:
		f.state = models.SchedulerRunning
	default:
		return f.state, fmt.Errorf("%w: cannot toggle while stopped", interfaces.ErrInvalidTransition)
	}
	return f.state, nil
}

func (f *fakeSchedulerService) Refresh() (models.SchedulerState, error) {
	return f.state, nil
}

func (f *fakeSchedulerService) ReloadStocks() error {
	return nil
}

func (f *fakeSchedulerService) Status() *interfaces.SchedulerStatus {
	return &interfaces.SchedulerStatus{
		State: f.state,
		Jobs: map[string]interfaces.JobStatus{
			models.JobMarketFetch: {Name: models.JobMarketFetch, Schedule: "*/5 9-15 * * 1-5"},
		},
	}
}

func (f *fakeSchedulerService) State() models.SchedulerState {
	return f.state
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStartHandler(t *testing.T) {
	handler := NewSchedulerHandler(&fakeSchedulerService{})

	rec := httptest.NewRecorder()
	handler.StartHandler(rec, httptest.NewRequest(http.MethodPost, "/api/scheduler/start", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "running", body["state"])
}

func TestStartHandlerRejectsGet(t *testing.T) {
	handler := NewSchedulerHandler(&fakeSchedulerService{})

	rec := httptest.NewRecorder()
	handler.StartHandler(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/start", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestToggleHandlerWhileStopped(t *testing.T) {
	handler := NewSchedulerHandler(&fakeSchedulerService{state: models.SchedulerStopped})

	rec := httptest.NewRecorder()
	handler.ToggleHandler(rec, httptest.NewRequest(http.MethodPost, "/api/scheduler/toggle", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestToggleHandlerPauses(t *testing.T) {
	handler := NewSchedulerHandler(&fakeSchedulerService{state: models.SchedulerRunning})

	rec := httptest.NewRecorder()
	handler.ToggleHandler(rec, httptest.NewRequest(http.MethodPost, "/api/scheduler/toggle", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paused", decodeBody(t, rec)["state"])
}

func TestStatusHandler(t *testing.T) {
	handler := NewSchedulerHandler(&fakeSchedulerService{state: models.SchedulerRunning})

	rec := httptest.NewRecorder()
	handler.StatusHandler(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "running", body["state"])
	jobs, ok := body["jobs"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, jobs, models.JobMarketFetch)
}

func TestStateHandler(t *testing.T) {
	handler := NewSchedulerHandler(&fakeSchedulerService{state: models.SchedulerPaused})

	rec := httptest.NewRecorder()
	handler.StateHandler(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/state", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "paused", body["state"])
	assert.Equal(t, float64(models.SchedulerPaused), body["code"])
}
