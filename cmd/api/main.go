// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"

	"github.com/spryng/elevyn/internal/admin"
	"github.com/spryng/elevyn/internal/alert"
	"github.com/spryng/elevyn/internal/artifact"
	"github.com/spryng/elevyn/internal/auth"
	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/health"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/onboarding"
	"github.com/spryng/elevyn/internal/quiz"
	"github.com/spryng/elevyn/internal/registration"
	"github.com/spryng/elevyn/internal/report"
	"github.com/spryng/elevyn/internal/reporting"
	"github.com/spryng/elevyn/internal/server"
	"github.com/spryng/elevyn/internal/user"
	"github.com/spryng/elevyn/internal/web"
	"github.com/spryng/elevyn/internal/workspace"
)

const (
	drainDelay = 5 * time.Second

	loginsPerHour      = 10
	anonQuizzesPerHour = 30
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := auth.NewVerifier(ctx, cfg.Supabase)
	if err != nil {
		return err
	}
	logger.Info("access token verifier initialized", "mode", verifier.Mode())

	provider := auth.NewProviderClient(cfg.Supabase, cfg.Auth.ProviderTimeout)

	authSvc := auth.NewService(auth.ServiceConfig{
		Verifier:    verifier,
		Provider:    provider,
		Revocations: redis,
		Cookies:     auth.NewCookies(cfg.Auth),
		SiteURL:     cfg.Auth.SiteURL,
		Logger:      logger,
	})
	authHandler := auth.NewHandler(authSvc)

	workspaceRepo := workspace.NewRepository(db.DB)
	resolver := workspace.NewResolver(workspaceRepo, logger)
	workspaceSvc := workspace.NewService(db.DB, resolver)
	workspaceHandler := workspace.NewHandler(workspaceSvc)

	userHandler := user.NewHandler(user.NewService(
		user.NewRepository(db.DB),
		resolver,
		workspaceRepo,
	))

	storage := artifact.NewStorageClient(cfg.Supabase, cfg.Auth.ProviderTimeout)
	artifactHandler := artifact.NewHandler(artifact.NewService(
		artifact.NewRepository(db.DB),
		resolver,
		storage,
		cfg.Storage.ArtifactBucket,
	))

	registrationHandler := registration.NewHandler(registration.NewService(
		registration.NewRepository(db.DB),
		resolver,
	))

	reportingHandler := reporting.NewHandler(reporting.NewService(
		reporting.NewRepository(db.DB),
		resolver,
	))

	claimCookie := quiz.NewClaimCookie(cfg.Auth)
	quizSvc := quiz.NewService(db.DB, resolver)
	quizHandler := quiz.NewHandler(quizSvc, claimCookie)

	alertHandler := alert.NewHandler(alert.NewRepository(db.DB))
	reportHandler := report.NewHandler(report.NewRepository(db.DB), cfg.Reports)

	onboardingHandler := onboarding.NewHandler(resolver, quizSvc, claimCookie, logger)

	webHandler, err := web.NewHandler(onboardingHandler, workspaceSvc, logger)
	if err != nil {
		return err
	}

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db, Critical: true},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "auth_provider", Checker: provider},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Repo:       admin.NewRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Tracing)
	router.Use(middleware.Metrics)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: redis_rate.Limit{
				Rate:   cfg.RateLimit.Requests,
				Burst:  cfg.RateLimit.Burst,
				Period: cfg.RateLimit.Window,
			},
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Handle("/metrics", middleware.MetricsHandler())

	session := authSvc.SessionConfig()
	authenticator := middleware.Authenticator(session)
	optionalAuth := middleware.OptionalAuth(session)
	serviceOnly := middleware.RequireRole("service_role")

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:  "login",
		Limit: redis_rate.PerHour(loginsPerHour),
	}).Handler
	anonQuizLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:  "anonymous_quiz",
		Limit: redis_rate.PerHour(anonQuizzesPerHour),
	}).Handler

	authHandler.RegisterRoutes(router, loginLimiter)
	onboardingHandler.RegisterRoutes(router, optionalAuth)
	webHandler.RegisterRoutes(router, optionalAuth)

	router.Route("/api", func(r chi.Router) {
		workspaceHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		artifactHandler.RegisterRoutes(r, authenticator)
		registrationHandler.RegisterRoutes(r, authenticator)
		reportingHandler.RegisterRoutes(r, authenticator)
		quizHandler.RegisterRoutes(r, authenticator, anonQuizLimiter)
		alertHandler.RegisterRoutes(r, authenticator)
		reportHandler.RegisterRoutes(r, authenticator)
	})

	router.Route("/v1", func(r chi.Router) {
		adminHandler.RegisterRoutes(r, authenticator, serviceOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	resolver.Wait()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
