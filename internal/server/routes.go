package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Scheduler control
	mux.HandleFunc("/api/scheduler/start", s.app.SchedulerHandler.StartHandler)
	mux.HandleFunc("/api/scheduler/stop", s.app.SchedulerHandler.StopHandler)
	mux.HandleFunc("/api/scheduler/toggle", s.app.SchedulerHandler.ToggleHandler)
	mux.HandleFunc("/api/scheduler/refresh", s.app.SchedulerHandler.RefreshHandler)
	mux.HandleFunc("/api/scheduler/reload", s.app.SchedulerHandler.ReloadHandler)
	mux.HandleFunc("/api/scheduler/status", s.app.SchedulerHandler.StatusHandler)
	mux.HandleFunc("/api/scheduler/state", s.app.SchedulerHandler.StateHandler)

	// API routes - Tracked symbols
	mux.HandleFunc("/api/symbols/add", s.app.SymbolHandler.AddHandler)
	mux.HandleFunc("/api/symbols/remove", s.app.SymbolHandler.RemoveHandler)
	mux.HandleFunc("/api/symbols", s.app.SymbolHandler.ListHandler)

	// API routes - Analysis and reports
	mux.HandleFunc("/api/analysis/quick", s.app.AnalysisHandler.QuickAnalysisHandler)
	mux.HandleFunc("/api/reports", s.app.ReportHandler.ListHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unknown routes
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.app.APIHandler.NotFoundHandler(w, r)
	})

	return mux
}
