package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/mw"
)

func init() { Register(Group{Name: "suggestions", Mount: mountSuggestions}) }

func mountSuggestions(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), d.RemoteLimit.Middleware).
		Post("/api/suggestions", handlers.Suggest(d))
}
