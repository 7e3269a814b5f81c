package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest/gemini"
)

type componentStatus struct {
	OK        bool     `json:"ok"`
	Backend   string   `json:"backend,omitempty"`
	Records   *int     `json:"records,omitempty"`
	LastSave  string   `json:"last_save,omitempty"`
	Default   string   `json:"default,omitempty"`
	Providers []string `json:"providers,omitempty"`
	Model     string   `json:"model,omitempty"`
	LastCheck string   `json:"last_check,omitempty"`
	Due       *int     `json:"due,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Impact    string   `json:"impact,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Build      buildInfo                  `json:"build"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":       storeStatus(r, d),
			"suggestions": suggestionStatus(d),
			"reminders":   reminderStatus(d),
		}
		if seed := d.SeedFile; seed != "" {
			components["seed"] = componentStatus{OK: true, Backend: seed}
		}

		writeJSON(w, d, http.StatusOK, infraResponse{
			Mode: determineMode(components),
			Build: buildInfo{
				Version:   d.Version,
				Commit:    d.Commit,
				BuildDate: d.BuildDate,
				GoVersion: d.GoVersion,
			},
			Components: components,
		})
	}
}

// determineMode is "critical" when records cannot be persisted, "degraded"
// when the remote provider is unusable, "optimal" otherwise.
func determineMode(components map[string]componentStatus) string {
	if s, ok := components["store"]; ok && !s.OK {
		return "critical"
	}
	if s, ok := components["suggestions"]; ok && !s.OK {
		return "degraded"
	}
	return "optimal"
}

func storeStatus(r *http.Request, d deps.Deps) componentStatus {
	backend := d.Store.Backend()
	count := d.Store.Count()

	status := componentStatus{OK: true, Backend: backend.Name(), Records: &count, LastSave: "never"}
	if last := d.Store.LastSave(); !last.IsZero() {
		status.LastSave = last.Format(time.DateTime)
	}
	if err := ping(r.Context(), backend); err != nil {
		status.OK = false
		status.Impact = "changes-cannot-be-saved"
		status.Error = err.Error()
	}
	return status
}

func suggestionStatus(d deps.Deps) componentStatus {
	status := componentStatus{
		OK:        true,
		Default:   d.Suggesters.Default().Name(),
		Providers: d.Suggesters.Names(),
		Mode:      "local",
	}

	p, err := d.Suggesters.Get(gemini.Name)
	if err != nil {
		return status
	}
	g, ok := p.(*gemini.Provider)
	if !ok {
		return status
	}

	status.Model = g.Model()
	if !g.Configured() {
		status.OK = false
		status.Mode = "local-only"
		status.Impact = "remote-suggestions-disabled"
		status.Error = "no API key configured"
		return status
	}
	status.Mode = "remote"
	return status
}

func reminderStatus(d deps.Deps) componentStatus {
	if d.Reminders == nil {
		return componentStatus{OK: false, Error: "scanner not running"}
	}
	last := d.Reminders.LastReport()
	status := componentStatus{OK: true, LastCheck: "never"}
	if !last.CheckedAt.IsZero() {
		due := len(last.Reminders)
		status.LastCheck = last.CheckedAt.Format(time.DateTime)
		status.Due = &due
	}
	return status
}
