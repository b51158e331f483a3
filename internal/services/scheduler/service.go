package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/calendar"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
	"github.com/ternarybob/sentio/internal/services/collector"
	"github.com/ternarybob/sentio/internal/services/dispatch"
	"github.com/ternarybob/sentio/internal/services/registry"
	"github.com/ternarybob/sentio/internal/services/synthesis"
)

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name      string
	schedule  string
	handler   func(ctx context.Context) error
	cronID    cron.EntryID
	lastRun   *time.Time
	isRunning bool
	lastError string
}

// Service owns the scheduler state machine and the three periodic jobs:
// market fetch, news fetch, and end-of-day analysis. Cron keeps firing
// while paused; a paused tick is a no-op skip, so pause takes effect
// without tearing down registrations and missed ticks are not backfilled.
type Service struct {
	config     *common.SchedulerConfig
	registry   *registry.Service
	collector  *collector.Service
	synthesis  *synthesis.Service
	dispatcher *dispatch.Service
	calendar   *calendar.TradingCalendar
	logger     arbor.ILogger

	mu    sync.Mutex // Protects state, cron, and jobs map
	state models.SchedulerState
	cron  *cron.Cron
	jobs  map[string]*jobEntry
}

// NewService creates a new scheduler service
func NewService(
	config *common.SchedulerConfig,
	reg *registry.Service,
	col *collector.Service,
	syn *synthesis.Service,
	disp *dispatch.Service,
	cal *calendar.TradingCalendar,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:     config,
		registry:   reg,
		collector:  col,
		synthesis:  syn,
		dispatcher: disp,
		calendar:   cal,
		logger:     logger,
		state:      models.SchedulerStopped,
		jobs:       make(map[string]*jobEntry),
	}
}

// Start transitions Stopped -> Running and registers the periodic jobs.
// Starting while already Running or Paused is a no-op.
func (s *Service) Start() (models.SchedulerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SchedulerStopped {
		s.logger.Debug().Str("state", s.state.String()).Msg("Start requested while not stopped, ignoring")
		return s.state, nil
	}

	if err := s.registerJobsLocked(); err != nil {
		return models.SchedulerStopped, err
	}

	s.cron.Start()
	s.state = models.SchedulerRunning

	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return s.state, nil
}

// Stop cancels all job registrations. An in-flight tick finishes under the
// snapshot it started with. Stopping while Stopped is a no-op.
func (s *Service) Stop() (models.SchedulerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SchedulerStopped {
		return s.state, nil
	}

	s.teardownLocked()
	s.state = models.SchedulerStopped

	s.logger.Info().Msg("Scheduler stopped")
	return s.state, nil
}

// Toggle flips Running <-> Paused. Toggling while Stopped is invalid.
func (s *Service) Toggle() (models.SchedulerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case models.SchedulerRunning:
		s.state = models.SchedulerPaused
		s.logger.Info().Msg("Scheduler paused")
	case models.SchedulerPaused:
		s.state = models.SchedulerRunning
		s.logger.Info().Msg("Scheduler resumed")
	default:
		return s.state, fmt.Errorf("%w: cannot toggle while stopped", interfaces.ErrInvalidTransition)
	}

	return s.state, nil
}

// Refresh re-reads the symbol registry and rebuilds the job set, preserving
// the current state. A stopped scheduler stays stopped.
func (s *Service) Refresh() (models.SchedulerState, error) {
	if err := s.registry.Reload(context.Background()); err != nil {
		return s.State(), fmt.Errorf("failed to reload symbol set: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SchedulerStopped {
		return s.state, nil
	}

	previous := s.state
	s.teardownLocked()

	if err := s.registerJobsLocked(); err != nil {
		s.state = models.SchedulerStopped
		return s.state, fmt.Errorf("failed to rebuild jobs on refresh: %w", err)
	}

	s.cron.Start()
	s.state = previous

	s.logger.Info().Str("state", s.state.String()).Msg("Scheduler refreshed")
	return s.state, nil
}

// ReloadStocks re-reads the tracked set from storage, picking up
// out-of-band edits. Job registrations are untouched.
func (s *Service) ReloadStocks() error {
	return s.registry.Reload(context.Background())
}

// State returns the raw state enum.
func (s *Service) State() models.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the state plus per-job next-fire times. Always succeeds.
func (s *Service) Status() *interfaces.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &interfaces.SchedulerStatus{
		State: s.state,
		Jobs:  make(map[string]interfaces.JobStatus, len(s.jobs)),
	}

	for name, entry := range s.jobs {
		jobStatus := interfaces.JobStatus{
			Name:      entry.name,
			Schedule:  entry.schedule,
			LastRun:   entry.lastRun,
			IsRunning: entry.isRunning,
			LastError: entry.lastError,
		}
		if s.cron != nil {
			for _, cronEntry := range s.cron.Entries() {
				if cronEntry.ID == entry.cronID {
					next := cronEntry.Next
					jobStatus.NextRun = &next
					break
				}
			}
		}
		status.Jobs[name] = jobStatus
	}

	return status
}

// registerJobsLocked builds a fresh cron and registers the three jobs.
// On any registration failure the cron is discarded and no jobs remain.
// Caller holds s.mu.
func (s *Service) registerJobsLocked() error {
	c := cron.New()
	jobs := make(map[string]*jobEntry)

	definitions := []struct {
		name     string
		schedule string
		handler  func(ctx context.Context) error
	}{
		{models.JobMarketFetch, s.config.MarketFetchSchedule, s.runMarketFetch},
		{models.JobNewsFetch, s.config.NewsFetchSchedule, s.runNewsFetch},
		{models.JobEndOfDay, s.config.EndOfDaySchedule, s.runEndOfDay},
	}

	for _, def := range definitions {
		if err := common.ValidateJobSchedule(def.schedule); err != nil {
			return fmt.Errorf("invalid schedule for job %s: %w", def.name, err)
		}

		entry := &jobEntry{
			name:     def.name,
			schedule: def.schedule,
			handler:  def.handler,
		}

		cronID, err := c.AddFunc(def.schedule, func() {
			s.executeJob(entry.name)
		})
		if err != nil {
			return fmt.Errorf("failed to register job %s: %w", def.name, err)
		}

		entry.cronID = cronID
		jobs[def.name] = entry

		s.logger.Info().
			Str("job_name", def.name).
			Str("schedule", def.schedule).
			Msg("Job registered")
	}

	s.cron = c
	s.jobs = jobs
	return nil
}

// teardownLocked stops the cron and clears registrations. In-flight ticks
// are not preempted. Caller holds s.mu.
func (s *Service) teardownLocked() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
	s.jobs = make(map[string]*jobEntry)
}

// executeJob wraps job execution with panic recovery, pause and overlap
// skips, the trading-day gate, and status tracking.
func (s *Service) executeJob(name string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("job_name", name).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in job execution")

			s.mu.Lock()
			if entry, exists := s.jobs[name]; exists {
				entry.isRunning = false
				entry.lastError = fmt.Sprintf("panic: %v", r)
			}
			s.mu.Unlock()
		}
	}()

	s.mu.Lock()
	entry, exists := s.jobs[name]
	if !exists {
		s.mu.Unlock()
		s.logger.Warn().Str("job_name", name).Msg("Job not found")
		return
	}
	if s.state == models.SchedulerPaused {
		s.mu.Unlock()
		s.logger.Debug().Str("job_name", name).Msg("Scheduler paused, skipping tick")
		return
	}
	if entry.isRunning {
		s.mu.Unlock()
		s.logger.Warn().Str("job_name", name).Msg("Previous tick still running, skipping")
		return
	}
	entry.isRunning = true
	handler := entry.handler
	s.mu.Unlock()

	started := time.Now()
	var err error

	if !s.calendar.IsTradingDay(started) {
		s.logger.Debug().Str("job_name", name).Msg("Not a trading day, skipping tick")
	} else {
		s.logger.Info().Str("job_name", name).Msg("Job execution started")
		err = handler(context.Background())
	}

	completionTime := time.Now()
	s.mu.Lock()
	entry.isRunning = false
	entry.lastRun = &completionTime
	if err != nil {
		entry.lastError = err.Error()
	} else {
		entry.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().
			Str("job_name", name).
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("Job execution failed")
	} else {
		s.logger.Info().
			Str("job_name", name).
			Dur("duration", time.Since(started)).
			Msg("Job execution completed")
	}
}

// runMarketFetch collects one market snapshot per tracked symbol.
func (s *Service) runMarketFetch(ctx context.Context) error {
	s.collector.CollectMarket(ctx)
	return nil
}

// runNewsFetch collects news items per tracked symbol.
func (s *Service) runNewsFetch(ctx context.Context) error {
	s.collector.CollectNews(ctx)
	return nil
}

// runEndOfDay synthesizes a report per tracked symbol and dispatches the
// digest. Symbols without data for the day are skipped. Dispatch failure
// does not invalidate the stored reports.
func (s *Service) runEndOfDay(ctx context.Context) error {
	now := time.Now()
	symbols := s.registry.Snapshot()
	if len(symbols) == 0 {
		s.logger.Info().Msg("No tracked symbols, skipping end-of-day analysis")
		return nil
	}

	from, _ := s.calendar.DayWindow(now)
	date := from.Format("2006-01-02")

	reports := make([]models.DailySentimentReport, 0, len(symbols))
	for _, symbol := range symbols {
		report, err := s.synthesis.Synthesize(ctx, symbol, now)
		if err != nil {
			if err == interfaces.ErrNoData {
				continue
			}
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("End-of-day analysis failed for symbol")
			continue
		}
		reports = append(reports, *report)
	}

	s.logger.Info().
		Int("symbols", len(symbols)).
		Int("reports", len(reports)).
		Str("date", date).
		Msg("End-of-day analysis completed")

	if err := s.dispatcher.Dispatch(ctx, date, reports); err != nil {
		s.logger.Warn().Err(err).Msg("Report dispatch failed, reports remain stored")
	}

	return nil
}
