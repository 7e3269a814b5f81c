package deps

import (
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/mw"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/scheduler"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedHosts []string // Host headers allowed on mutating routes
	AllowedCIDRS []string // IPs allowed to reach healthz/readyz/infra
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Store       *store.Store
	Suggesters  *suggest.Registry
	Reminders   *scheduler.ReminderScanner
	CheckNow    chan struct{} // manual reminder check trigger (capacity 1)
	SeedFile    string
	RequestTime time.Duration // per-request timeout

	SuggestBurst        int // rate limit for remote suggestion calls
	SuggestRefillPerMin int
	SuggestMaxEntries   int

	// RemoteLimit is shared by /api/suggestions and auto-scheduled creates.
	// RegisterAll builds it from the Suggest* fields when nil.
	RemoteLimit *mw.Limiter
}
