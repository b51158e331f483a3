package interfaces

import (
	"time"

	"github.com/ternarybob/sentio/internal/models"
)

// JobStatus describes one registered periodic job.
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	IsRunning bool       `json:"is_running"`
	LastError string     `json:"last_error,omitempty"`
}

// SchedulerStatus is the read-only controller status. It always reflects
// last-known state, even when recent ticks failed.
type SchedulerStatus struct {
	State models.SchedulerState `json:"state"`
	Jobs  map[string]JobStatus  `json:"jobs,omitempty"`
}

// SchedulerService owns the job state machine and orchestrates collection,
// synthesis, and dispatch on a calendar-aware cadence.
type SchedulerService interface {
	// Start transitions Stopped -> Running and registers the periodic jobs.
	// Starting while already Running or Paused is a no-op returning the
	// current state. A registration failure leaves the controller Stopped.
	Start() (models.SchedulerState, error)

	// Stop cancels all job registrations. An in-flight tick finishes under
	// the snapshot it started with. Stopping while Stopped is a no-op.
	Stop() (models.SchedulerState, error)

	// Toggle flips Running <-> Paused. Toggling while Stopped returns
	// ErrInvalidTransition. Ticks missed while paused are not backfilled.
	Toggle() (models.SchedulerState, error)

	// Refresh re-reads the symbol registry and re-derives the job set,
	// preserving the current state.
	Refresh() (models.SchedulerState, error)

	// ReloadStocks re-reads the tracked set from storage, picking up
	// out-of-band edits. It does not affect job registration.
	ReloadStocks() error

	// Status returns state plus per-job next-fire times. Read-only.
	Status() *SchedulerStatus

	// State returns the raw state enum.
	State() models.SchedulerState
}
