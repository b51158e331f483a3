package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/sentio/internal/services/registry"
)

// SymbolHandler handles tracked symbol set endpoints
type SymbolHandler struct {
	registry *registry.Service
}

// NewSymbolHandler creates a new symbol handler
func NewSymbolHandler(reg *registry.Service) *SymbolHandler {
	return &SymbolHandler{
		registry: reg,
	}
}

type symbolRequest struct {
	Symbols []string `json:"symbols"`
}

// AddHandler adds symbols to the tracked set
func (h *SymbolHandler) AddHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one symbol is required")
		return
	}

	symbols, err := h.registry.Add(r.Context(), req.Symbols)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Symbols added", map[string]interface{}{
		"symbols": symbols,
	})
}

// RemoveHandler removes symbols from the tracked set
func (h *SymbolHandler) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one symbol is required")
		return
	}

	symbols, err := h.registry.Remove(r.Context(), req.Symbols)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Symbols removed", map[string]interface{}{
		"symbols": symbols,
	})
}

// ListHandler returns the tracked symbol set
func (h *SymbolHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"symbols": h.registry.Snapshot(),
	})
}
