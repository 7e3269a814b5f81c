package routes

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/mw"
)

type Mounter func(r chi.Router, d deps.Deps)

// Group is a set of routes sharing a prefix.
type Group struct {
	Name   string
	Prefix string // empty mounts at the root
	Mount  Mounter
}

var groups []Group

// Register adds a group. Called from init() in each routes file.
func Register(g Group) {
	if g.Mount == nil {
		panic(fmt.Sprintf("routes: group %q has no Mount func", g.Name))
	}
	groups = append(groups, g)
}

// RegisterAll mounts every group, sorted by name so the route table is stable.
func RegisterAll(r chi.Router, d deps.Deps) {
	if d.RemoteLimit == nil {
		d.RemoteLimit = mw.NewLimiter(mw.RateLimitConfig{
			Burst:             d.SuggestBurst,
			RefillPerIPPerMin: d.SuggestRefillPerMin,
			MaxEntries:        d.SuggestMaxEntries,
			TrustProxy:        d.TrustProxy,
			Logger:            d.Logger,
		})
	}

	sorted := append([]Group(nil), groups...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, g := range sorted {
		if g.Prefix == "" {
			g.Mount(r, d)
			continue
		}
		r.Route(g.Prefix, func(r chi.Router) { g.Mount(r, d) })
	}
}

// Table lists "METHOD /path" for every mounted route.
func Table(r chi.Routes) ([]string, error) {
	var out []string
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route != "/" {
			route = strings.TrimSuffix(route, "/")
		}
		out = append(out, method+" "+route)
		return nil
	})
	sort.Strings(out)
	return out, err
}
