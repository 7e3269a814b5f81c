package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/mw"
)

func init() {
	Register(Group{Name: "aquariums", Prefix: "/api/aquariums", Mount: mountAquariums})
}

func mountAquariums(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.ListAquariums(d))
	r.Get("/{id}", handlers.GetAquarium(d))

	// mutations
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Post("/", handlers.CreateAquarium(d))
		r.Put("/{id}", handlers.UpdateAquarium(d))
		r.Delete("/{id}", handlers.DeleteAquarium(d))
		r.Post("/{id}/clean", handlers.MarkCleaned(d))
		r.Post("/{id}/water-change", handlers.MarkWaterChanged(d))
	})
}
