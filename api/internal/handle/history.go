package handle

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/store"
	"media-proxy/api/internal/validate"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GenerationHistory handles GET /api/v1/history?feature=<name>&limit=<n>,
// newest first. 503 when no database is configured.
func (h *Handle) GenerationHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	if h.History == nil {
		writeJSON(w, http.StatusServiceUnavailable, &apperr.Response{
			Error:      "Service Unavailable",
			Message:    "Generation history is not configured.",
			StatusCode: http.StatusServiceUnavailable,
		})
		return
	}

	feature := r.URL.Query().Get("feature")
	if verr := validate.RequiredFields(map[string]string{"feature": feature}, []string{"feature"}); verr != nil {
		writeValidation(w, verr)
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.History.Recent(ctx, feature, limit)
	if err != nil {
		resp := apperr.Classify(err, "history storage", "history lookup")
		writeJSON(w, resp.StatusCode, resp)
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"feature": feature,
		"count":   len(entries),
		"history": entries,
	})
}
