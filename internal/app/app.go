package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/config"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/redis"
	"github.com/MrSnakeDoc/aquatrack/internal/scheduler"
	"github.com/MrSnakeDoc/aquatrack/internal/seed"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
	redisstore "github.com/MrSnakeDoc/aquatrack/internal/store/redis"
	"github.com/MrSnakeDoc/aquatrack/internal/store/sqlite"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest/gemini"
	"github.com/MrSnakeDoc/aquatrack/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *httpserver.Server
	store     *store.Store
	closers   []io.Closer
	reminders *scheduler.ReminderScanner
}

// New wires persistence, suggestion providers, the reminder scanner and the
// HTTP server. Nothing is started.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: loggerClient}

	backend, err := a.openPersistence(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	loggerClient.Info("persistence initialized", logger.String("backend", backend.Name()))

	st, err := store.Open(ctx, backend,
		store.WithLogger(loggerClient),
		store.WithCorruptPolicy(store.CorruptPolicy(cfg.CorruptState)),
	)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = st
	loggerClient.Info("aquariums loaded", logger.Int("count", st.Count()))

	registry, err := Suggesters(cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.SeedFile != "" {
		importer := seed.NewImporter(seed.NewLoader(cfg.SeedFile), seed.NewMapper(nil), st, loggerClient)
		if _, err := importer.Run(ctx); err != nil {
			loggerClient.Warn("seed import failed, continuing with current records",
				logger.String("file", cfg.SeedFile),
				logger.Error(err))
		}
	}

	checkNow := make(chan struct{}, 1)
	a.reminders = scheduler.NewReminderScanner(st, loggerClient, cfg.ReminderInterval, checkNow)

	d := deps.Deps{
		Logger:              loggerClient,
		StartTime:           time.Now(),
		Version:             version.Version,
		Commit:              version.Commit,
		BuildDate:           version.BuildDate,
		GoVersion:           version.GoVersion,
		AllowedHosts:        cfg.AllowedHosts,
		AllowedCIDRS:        cfg.AllowedCIDRS,
		TrustProxy:          cfg.TrustProxy,
		Store:               st,
		Suggesters:          registry,
		Reminders:           a.reminders,
		CheckNow:            checkNow,
		SeedFile:            cfg.SeedFile,
		RequestTime:         cfg.RequestTimeout,
		SuggestBurst:        cfg.SuggestBurst,
		SuggestRefillPerMin: cfg.SuggestRefillPerMin,
		SuggestMaxEntries:   cfg.SuggestMaxEntries,
	}
	a.server = httpserver.New(cfg.ListenPort, loggerClient, d)

	return a, nil
}

// Suggesters builds the provider registry from configuration. Gemini is always
// registered so that selecting it without a key reports a credential error.
func Suggesters(cfg *config.Config) (*suggest.Registry, error) {
	remote := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})
	return suggest.NewRegistry(cfg.SuggestionProvider, remote)
}

func (a *App) openPersistence(ctx context.Context) (store.Persistence, error) {
	switch a.cfg.Storage {
	case config.StorageMemory:
		a.logger.Warn("using in-memory persistence, records are lost on restart")
		return store.NewMemoryPersistence(), nil

	case config.StorageRedis:
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           a.cfg.RedisAddr,
			User:           a.cfg.RedisUser,
			Password:       a.cfg.RedisPassword,
			DB:             a.cfg.RedisDB,
			DialTimeout:    a.cfg.RedisDT,
			ReadTimeout:    a.cfg.RedisRT,
			WriteTimeout:   a.cfg.RedisWT,
			PoolSize:       a.cfg.RedisPoolSize,
			ConnectTimeout: a.cfg.RedisConnectTimeout,
			RetryInterval:  a.cfg.RedisRetryInterval,
			MaxWait:        a.cfg.RedisMaxWait,
			PingTimeout:    a.cfg.RedisPingTimeout,
			WarnThreshold:  a.cfg.RedisWarnThreshold,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client)
		return redisstore.NewStore(client, a.cfg.StorageKey), nil

	default:
		db, err := sqlite.Open(a.cfg.SQLitePath, a.cfg.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", a.cfg.SQLitePath, err)
		}
		a.closers = append(a.closers, db)
		return db, nil
	}
}

// Run starts the scanner and the HTTP server and blocks until ctx is done or
// the server fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	if err := a.reminders.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder scanner: %w", err)
	}
	a.logger.Info("reminder scanner started",
		logger.Duration("interval", a.cfg.ReminderInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.reminders.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.close()

	if runErr == nil {
		a.logger.Info("✅ aquatrack stopped cleanly")
	}
	return runErr
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warnf("failed to close %T: %v", a.closers[i], err)
		}
	}
	a.closers = nil
}
