package routes

import (
	"slices"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
)

func TestRegisterAll_RouteTable(t *testing.T) {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{Logger: logger.Nop(), SuggestBurst: 1, SuggestRefillPerMin: 1})

	table, err := Table(r)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	want := []string{
		"DELETE /api/aquariums/{id}",
		"GET /api/aquariums",
		"GET /api/aquariums/{id}",
		"GET /api/reminders",
		"GET /healthz",
		"GET /infra",
		"GET /readyz",
		"POST /api/aquariums",
		"POST /api/aquariums/{id}/clean",
		"POST /api/aquariums/{id}/water-change",
		"POST /api/reminders/check",
		"POST /api/suggestions",
		"PUT /api/aquariums/{id}",
	}
	for _, w := range want {
		if !slices.Contains(table, w) {
			t.Errorf("route %q missing from table %v", w, table)
		}
	}
}

func TestRegister_PanicsWithoutMount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a group without Mount")
		}
	}()
	Register(Group{Name: "broken"})
}
