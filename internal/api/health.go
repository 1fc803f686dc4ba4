package api

import (
	"net/http"
	"time"

	"github.com/fitsync/fitsync/internal/store"
)

// HealthHandler reports process and storage liveness.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler { return &HealthHandler{store: st} }

// CheckHealth handles GET /healthz. Storage reachability is part of
// health: without Postgres nothing in this service can make progress.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
