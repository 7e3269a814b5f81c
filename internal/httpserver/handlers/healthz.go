package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/version"
)

type healthzResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Build     string `json:"build"`
	Aquariums int    `json:"aquariums"`
}

// Healthz is the liveness probe. It reads the in-memory list only.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := d.Version
	if build == "" {
		build = version.Version
	}
	return func(w http.ResponseWriter, r *http.Request) {
		aquariums := 0
		if d.Store != nil {
			aquariums = d.Store.Count()
		}
		writeJSON(w, d, http.StatusOK, healthzResponse{
			Status:    "ok",
			Uptime:    time.Since(d.StartTime).Round(time.Second).String(),
			Build:     build,
			Aquariums: aquariums,
		})
	}
}
