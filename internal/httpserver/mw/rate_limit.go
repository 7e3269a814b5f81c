package mw

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/utils"
)

type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // sweep idle clients once this many are tracked
	SweepInterval     time.Duration // default 1m
	IdleTTL           time.Duration // default 15m
	TrustProxy        bool          // resolve IP from proxy headers
	Now               func() time.Time
	Logger            logger.Logger // optional, logs rejections at debug
}

func (c *RateLimitConfig) defaults() {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	if c.Now == nil {
		c.Now = time.Now
	}
}

type bucket struct {
	tokens  float64
	updated time.Time
}

type verdict struct {
	allowed    bool
	remaining  int
	retryAfter int // seconds
}

// Limiter keeps one token bucket per client IP. One Limiter can guard several
// routes so they share a budget.
type Limiter struct {
	cfg       RateLimitConfig
	perSecond float64

	mu        sync.Mutex
	clients   map[string]*bucket
	lastSweep time.Time
}

func NewLimiter(cfg RateLimitConfig) *Limiter {
	cfg.defaults()
	return &Limiter{
		cfg:       cfg,
		perSecond: float64(cfg.RefillPerIPPerMin) / 60,
		clients:   make(map[string]*bucket),
		lastSweep: cfg.Now(),
	}
}

func (tb *Limiter) take(key string, now time.Time) verdict {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	full := now.Sub(tb.lastSweep) >= tb.cfg.SweepInterval
	crowded := tb.cfg.MaxEntries > 0 && len(tb.clients) >= tb.cfg.MaxEntries
	if full || crowded {
		tb.sweep(now)
	}

	b, ok := tb.clients[key]
	if !ok {
		b = &bucket{tokens: float64(tb.cfg.Burst), updated: now}
		tb.clients[key] = b
	}

	if dt := now.Sub(b.updated).Seconds(); dt > 0 {
		b.tokens = math.Min(float64(tb.cfg.Burst), b.tokens+dt*tb.perSecond)
		b.updated = now
	}

	if b.tokens < 1 {
		wait := int(math.Ceil((1 - b.tokens) / tb.perSecond))
		return verdict{retryAfter: max(wait, 1)}
	}
	b.tokens--
	return verdict{allowed: true, remaining: int(b.tokens)}
}

// sweep drops clients idle for longer than IdleTTL. Caller holds mu.
func (tb *Limiter) sweep(now time.Time) {
	for key, b := range tb.clients {
		if now.Sub(b.updated) > tb.cfg.IdleTTL {
			delete(tb.clients, key)
		}
	}
	tb.lastSweep = now
}

// Take spends one token for the caller of r. When the bucket is empty it
// returns false and the seconds until a token is available.
func (tb *Limiter) Take(r *http.Request) (bool, int) {
	v := tb.take(utils.ClientIP(r, tb.cfg.TrustProxy), tb.cfg.Now())
	return v.allowed, v.retryAfter
}

// Reject writes the 429 response for a denied request.
func (tb *Limiter) Reject(w http.ResponseWriter, r *http.Request, retryAfter int) {
	if tb.cfg.Logger != nil {
		tb.cfg.Logger.Debug("rate limited",
			logger.String("ip", utils.ClientIP(r, tb.cfg.TrustProxy)),
			logger.String("path", r.URL.Path),
			logger.Int("retry_after", retryAfter))
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(tb.cfg.Burst))
	h.Set("X-RateLimit-Remaining", "0")
	h.Set("Retry-After", strconv.Itoa(retryAfter))
	h.Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf("too many requests, retry in %ds", retryAfter),
	})
}

// Middleware limits every request passing through it.
func (tb *Limiter) Middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(tb.cfg.Burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := tb.take(utils.ClientIP(r, tb.cfg.TrustProxy), tb.cfg.Now())
		if !v.allowed {
			tb.Reject(w, r, v.retryAfter)
			return
		}
		w.Header().Set("X-RateLimit-Limit", limit)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
		next.ServeHTTP(w, r)
	})
}

// RateLimit is a per-client-IP token bucket. Rejected requests get a 429 JSON
// body and a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return NewLimiter(cfg).Middleware
}
