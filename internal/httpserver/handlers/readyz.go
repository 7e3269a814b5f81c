package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Backend string `json:"backend"`
	Error   string `json:"error,omitempty"`
}

// Readyz reports 503 while the persistence backend does not answer a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend := d.Store.Backend()
		resp := readyzResponse{Ready: true, Backend: backend.Name()}

		if err := ping(r.Context(), backend); err != nil {
			resp.Ready = false
			resp.Error = err.Error()
			writeJSON(w, d, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, d, http.StatusOK, resp)
	}
}

func ping(ctx context.Context, p store.Persistence) error {
	pinger, ok := p.(store.Pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pinger.Ping(ctx)
}
