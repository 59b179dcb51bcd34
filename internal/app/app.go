package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/engine"
	"github.com/MrSnakeDoc/marks/internal/httpserver"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/redis"
	"github.com/MrSnakeDoc/marks/internal/session"
	"github.com/MrSnakeDoc/marks/internal/sources/providers"
	redisstore "github.com/MrSnakeDoc/marks/internal/store/redis"
	"github.com/MrSnakeDoc/marks/internal/store/remote"
	"github.com/MrSnakeDoc/marks/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	session     *session.Session
	engine      *engine.Engine
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.NewWithFile(cfg.LogLevel, cfg.PrettyLog, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogFileMaxSizeMB,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAgeDays: cfg.LogFileMaxAgeDays,
	})

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Sessions are persisted in Redis so sign-ins survive restarts
	tokens := redisstore.NewStore(redisClient)

	authClient := remote.NewAuthClient(cfg.BackendURL, cfg.HTTPTimeout, loggerClient)

	// Load sign-in providers (if a providers file is configured)
	var authProviders []domain.AuthProvider
	if cfg.ProvidersFile != "" {
		providersCfg, err := providers.NewLoader(cfg.ProvidersFile).Load()
		if err != nil {
			loggerClient.Errorf("Failed to load providers file: %v", err)
			os.Exit(1)
		}
		authProviders, err = providers.NewMapper().Map(providersCfg)
		if err != nil {
			loggerClient.Errorf("Failed to map providers: %v", err)
			os.Exit(1)
		}
		loggerClient.Infof("Loaded %d sign-in providers from %s", len(authProviders), cfg.ProvidersFile)
	} else {
		loggerClient.Info("providers file not configured, sign-in disabled")
	}

	sess := session.New(authClient, tokens, authProviders, cfg.TokenRefreshMargin, loggerClient)

	// Backend clients share the session's bearer token
	store := remote.NewClient(cfg.BackendURL, cfg.BookmarksTable, sess.AccessToken, cfg.HTTPTimeout, loggerClient)
	feed := remote.NewFeed(cfg.BackendURL, cfg.BookmarksTable, sess.AccessToken, remote.FeedOptions{
		PingInterval:     cfg.FeedPingInterval,
		HandshakeTimeout: cfg.FeedHandshakeTimeout,
		MaxBackoff:       cfg.FeedMaxBackoff,
	}, loggerClient)

	eng := engine.New(store, func(ctx context.Context) (engine.Subscription, error) {
		return feed.Subscribe(ctx)
	}, cfg.ResyncInterval, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		RedisClient:      redisClient,
		Engine:           eng,
		Session:          sess,
		BackendURL:       cfg.BackendURL,
		SignInEnabled:    len(authProviders) > 0,
		RateBurst:        cfg.RateBurst,
		RateRefillPerMin: cfg.RateRefillPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		session:     sess,
		engine:      eng,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Marks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Marks %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore any persisted session and start the token refresh loop
	if err := a.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	a.logger.Info("session started")

	// Bind the sync engine to whoever is signed in
	if err := a.engine.Start(ctx, a.session); err != nil {
		return fmt.Errorf("failed to start sync engine: %w", err)
	}
	a.logger.Info("sync engine started",
		logger.Duration("resync_interval", a.cfg.ResyncInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop the engine first so no mutation is half-applied, then the
	// session, then the HTTP surface.
	a.engine.Stop()
	a.session.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Marks stopped cleanly")
	return nil
}
