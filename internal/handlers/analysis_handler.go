package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/services/registry"
	"github.com/ternarybob/sentio/internal/services/synthesis"
)

// AnalysisHandler handles ad-hoc analysis endpoints
type AnalysisHandler struct {
	synthesis *synthesis.Service
	registry  *registry.Service
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(syn *synthesis.Service, reg *registry.Service) *AnalysisHandler {
	return &AnalysisHandler{
		synthesis: syn,
		registry:  reg,
	}
}

// QuickAnalysisHandler runs the synthesis pipeline against today's stored
// snapshots. An empty or omitted symbol list means all tracked symbols.
func (h *AnalysisHandler) QuickAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbols := common.NormalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		symbols = h.registry.Snapshot()
	}
	if len(symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "No symbols given and none tracked")
		return
	}

	reports, err := h.synthesis.QuickAnalysis(r.Context(), symbols)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"reports": reports,
	})
}
