package handler

import (
	"net/http"
	"time"
)

// Health handles GET /api/health. It pings the database so the probe
// reflects whether the store is actually reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success: false,
			Message: "Database unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Portfolio API is running",
		Data: map[string]string{
			"environment": h.env,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}
