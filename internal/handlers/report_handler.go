package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/sentio/internal/interfaces"
)

// ReportHandler handles stored report endpoints
type ReportHandler struct {
	reports interfaces.ReportStorage
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports interfaces.ReportStorage) *ReportHandler {
	return &ReportHandler{
		reports: reports,
	}
}

// ListHandler returns all reports for a date (?date=YYYY-MM-DD, default today)
func (h *ReportHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	reports, err := h.reports.ListReportsByDate(r.Context(), date)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"date":    date,
		"reports": reports,
	})
}
