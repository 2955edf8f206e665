package handler

import (
	"net/http"
	"strings"

	"quill/internal/note"
)

type AnalyticsHandler struct {
	Svc *note.Service
}

// Notes serves the per-user event time series:
// GET /analytics/notes?bucket={daily|weekly|monthly|yearly}&actions=create,update
// Unrecognized buckets fall back to daily; unrecognized actions are dropped,
// and an empty filter means all four.
func (h *AnalyticsHandler) Notes(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")

	var actions []string
	if raw := r.URL.Query().Get("actions"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}
	}

	res, err := h.Svc.Analytics(r.Context(), userID(r), bucket, actions)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bucket":  res.Bucket,
		"actions": res.Actions,
		"series":  res.Series,
	})
}
