package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, must exceed GeminiTimeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Persistence
	Storage      string // "sqlite" | "redis" | "memory"
	SQLitePath   string // ex: "/data/aquatrack.db"
	StorageKey   string // name of the persisted entry (default "aquariums")
	CorruptState string // "empty" | "fail"
	SeedFile     string // optional YAML imported into an empty store

	// Suggestions
	SuggestionProvider  string        // default provider: "local" | "gemini"
	GeminiAPIKey        string        // optional, remote suggestions disabled when empty
	GeminiModel         string        // ex: "gemini-2.5-flash"
	GeminiTimeout       time.Duration // ex: 20s
	SuggestBurst        int           // requests per client before throttling
	SuggestRefillPerMin int           // tokens regained per minute
	SuggestMaxEntries   int           // tracked clients before sweeping

	ReminderInterval time.Duration // how often overdue chores are logged

	// Redis (only when Storage == "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict mutating routes to specific Host headers
	AllowedCIDRS []string // optional, restrict probes to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads the configuration from the environment. A .env file in the
// working directory (or AQUA_ENV_FILE) is loaded first without overriding
// variables that are already set.
func Load() *Config {
	loadDotEnv()

	cfg := &Config{
		// Server settings
		ListenPort:      normalizePort(getenv("AQUA_LISTEN_PORT", ":8080")),
		ShutdownTimeout: mustDuration("AQUA_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("AQUA_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("AQUA_LOG_LEVEL", "info"),
		PrettyLog: mustBool("AQUA_PRETTY_LOG", true),

		// Persistence
		Storage:      strings.ToLower(getenv("AQUA_STORAGE", StorageSQLite)),
		SQLitePath:   getenv("AQUA_SQLITE_PATH", "data/aquatrack.db"),
		StorageKey:   getenv("AQUA_STORAGE_KEY", "aquariums"),
		CorruptState: strings.ToLower(getenv("AQUA_CORRUPT_STATE", "empty")),
		SeedFile:     getenv("AQUA_SEED_FILE", ""),

		// Suggestions
		SuggestionProvider:  getenv("AQUA_SUGGESTION_PROVIDER", "local"),
		GeminiAPIKey:        getenv("AQUA_GEMINI_API_KEY", os.Getenv("GEMINI_API_KEY")),
		GeminiModel:         getenv("AQUA_GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout:       mustDuration("AQUA_GEMINI_TIMEOUT", 20*time.Second),
		SuggestBurst:        getenvInt("AQUA_SUGGEST_BURST", 10),
		SuggestRefillPerMin: getenvInt("AQUA_SUGGEST_REFILL_PER_MIN", 6),
		SuggestMaxEntries:   getenvInt("AQUA_SUGGEST_MAX_ENTRIES", 10000),

		ReminderInterval: mustDuration("AQUA_REMINDER_INTERVAL", time.Hour),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("AQUA_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("AQUA_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("AQUA_TRUST_PROXY", false),
	}

	switch cfg.Storage {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: AQUA_STORAGE must be one of sqlite, redis, memory (got %q)", cfg.Storage))
	}

	if cfg.CorruptState != "empty" && cfg.CorruptState != "fail" {
		panic(fmt.Sprintf("❌ FATAL: AQUA_CORRUPT_STATE must be empty or fail (got %q)", cfg.CorruptState))
	}

	if cfg.RequestTimeout <= cfg.GeminiTimeout {
		cfg.RequestTimeout = cfg.GeminiTimeout + 5*time.Second
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("AQUA_REDIS_ADDR")
	cfg.RedisUser = getenv("AQUA_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("AQUA_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("AQUA_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("AQUA_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("AQUA_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("AQUA_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("AQUA_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("AQUA_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("AQUA_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("AQUA_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("AQUA_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("AQUA_REDIS_WARN_THRESHOLD", 3)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	const redacted = "***REDACTED***"
	if c.RedisPassword != "" {
		c.RedisPassword = redacted
	}
	if c.RedisUser != "" {
		c.RedisUser = redacted
	}
	if c.GeminiAPIKey != "" {
		c.GeminiAPIKey = redacted
	}
	return c
}

func loadDotEnv() {
	path := getenv("AQUA_ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] failed to load %s: %v\n", path, err)
	}
}

// normalizePort accepts "8080" as well as ":8080" or "host:8080".
func normalizePort(p string) string {
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
