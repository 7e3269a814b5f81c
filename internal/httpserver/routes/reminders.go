package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/mw"
)

func init() {
	Register(Group{Name: "reminders", Prefix: "/api/reminders", Mount: mountReminders})
}

func mountReminders(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Reminders(d))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/check", handlers.CheckReminders(d))
}
