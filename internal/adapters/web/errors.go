package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"inventory-intelligence/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeAnalysisError maps pipeline errors to the HTTP error contract.
// Precondition failures are actionable by the user; everything else gets a
// generic retryable message without leaking internals.
func writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var analysisErr *core.AnalysisError
	switch {
	case errors.Is(err, core.ErrNoTrackableItems):
		writeError(w, r,
			"No trackable inventory items found. Enable stock tracking on at least one item and try again.",
			"NO_TRACKABLE_ITEMS", http.StatusUnprocessableEntity)
	case errors.As(err, &analysisErr):
		writeError(w, r,
			"Could not analyze inventory right now. Please try again.",
			"ANALYSIS_FAILED", http.StatusInternalServerError)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
