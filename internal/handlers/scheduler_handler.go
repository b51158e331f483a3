package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/sentio/internal/interfaces"
)

// SchedulerHandler handles scheduler control endpoints
type SchedulerHandler struct {
	schedulerService interfaces.SchedulerService
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(schedulerService interfaces.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
	}
}

// StartHandler starts the scheduler
func (h *SchedulerHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	state, err := h.schedulerService.Start()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Scheduler started", map[string]interface{}{
		"state": state.String(),
	})
}

// StopHandler stops the scheduler
func (h *SchedulerHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	state, err := h.schedulerService.Stop()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Scheduler stopped", map[string]interface{}{
		"state": state.String(),
	})
}

// ToggleHandler flips the scheduler between running and paused
func (h *SchedulerHandler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	state, err := h.schedulerService.Toggle()
	if err != nil {
		if errors.Is(err, interfaces.ErrInvalidTransition) {
			WriteError(w, http.StatusConflict, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Scheduler toggled", map[string]interface{}{
		"state": state.String(),
	})
}

// RefreshHandler re-reads the symbol set and rebuilds the job set
func (h *SchedulerHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	state, err := h.schedulerService.Refresh()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Scheduler refreshed", map[string]interface{}{
		"state": state.String(),
	})
}

// ReloadHandler re-reads the tracked symbol set from storage
func (h *SchedulerHandler) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.schedulerService.ReloadStocks(); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Tracked symbols reloaded", nil)
}

// StatusHandler returns the scheduler state and per-job next-fire times
func (h *SchedulerHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status := h.schedulerService.Status()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   status.State.String(),
		"jobs":    status.Jobs,
	})
}

// StateHandler returns only the raw scheduler state
func (h *SchedulerHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	state := h.schedulerService.State()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   state.String(),
		"code":    int(state),
	})
}
