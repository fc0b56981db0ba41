// TrackDeck API
//
// Project and issue tracker with role-based access control and GitHub
// webhook ingestion. Serves the REST API, runs the async webhook
// dispatcher, and exposes health and metrics endpoints.
//
//	@title			TrackDeck API
//	@version		1.0
//	@description	Issue tracking API with GitHub integration.
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: "Bearer {token}"
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						TRACKDECK_SESSION
//	@description				Session cookie for browser-based authentication
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"go.trackdeck.dev/internal/common/health"
	"go.trackdeck.dev/internal/common/lifecycle"
	commonmongo "go.trackdeck.dev/internal/common/mongo"
	"go.trackdeck.dev/internal/common/secrets"
	"go.trackdeck.dev/internal/config"
	"go.trackdeck.dev/internal/platform/api"
	"go.trackdeck.dev/internal/platform/auth/jwt"
	"go.trackdeck.dev/internal/platform/auth/session"
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/github"
	"go.trackdeck.dev/internal/platform/notification"
	roleops "go.trackdeck.dev/internal/platform/role/operations"
	"go.trackdeck.dev/internal/queue"
	"go.trackdeck.dev/internal/queue/nats"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// issueLockTTL bounds how long a webhook run may hold a per-issue lock.
const issueLockTTL = 30 * time.Second

func main() {
	setupLogging()

	slog.Info("Starting TrackDeck",
		"version", version,
		"build_time", buildTime)

	ctx := context.Background()

	// ========================================
	// 1. INFRASTRUCTURE INITIALIZATION
	// ========================================
	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{
		NeedsMongoDB: true,
	})
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	cfg := app.Config

	// Indexes before anything writes: the webhook deliveryId unique index
	// is what makes ingest deduplication safe under races.
	if err := commonmongo.NewIndexInitializer(app.Mongo).Initialize(ctx); err != nil {
		slog.Warn("Index initialization incomplete", "error", err)
	}

	// Queue (embedded NATS for single-node, external for clustered)
	qr, err := setupQueue(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize queue", "error", err)
		os.Exit(1)
	}
	app.AddCleanup(qr.close)

	// Auth
	tokenService, sessionManager, err := setupAuth(cfg)
	if err != nil {
		slog.Error("Failed to initialize auth", "error", err)
		os.Exit(1)
	}

	// Secrets provider for integration webhook secret references. Defaults
	// to the env provider, which needs no external backend.
	secretsProvider, err := secrets.NewProvider(secrets.LoadConfigFromEnv())
	if err != nil {
		slog.Error("Failed to initialize secrets provider", "error", err)
		os.Exit(1)
	}
	slog.Info("Secrets provider initialized", "provider", secretsProvider.Name())

	// ========================================
	// 2. COMPONENT WIRING
	// ========================================
	apiHandlers := api.NewHandlers(
		app.MongoClient, app.DB,
		tokenService, sessionManager,
		qr.publisher, secretsProvider)
	apiHandlers.SetIngestRate(cfg.Webhooks.RatePerSecond, cfg.Webhooks.RateBurst)

	if err := apiHandlers.AuditRepo().EnsureIndexes(ctx); err != nil {
		slog.Warn("Audit index initialization failed", "error", err)
	}

	// Seed data: system roles must exist before the first login
	seedRoles := roleops.NewInitializeDefaultsUseCase(apiHandlers.RoleRepo(), slog.Default())
	if err := seedRoles.Execute(ctx); err != nil {
		slog.Error("Failed to initialize default roles", "error", err)
		os.Exit(1)
	}
	if _, err := apiHandlers.SystemConfigRepo().GetOrCreate(ctx); err != nil {
		slog.Warn("Failed to initialize system config", "error", err)
	}

	// Optional redis-backed issue locks for multi-instance deployments
	var locker github.IssueLocker = github.NoopLocker{}
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		locker = github.NewRedisIssueLocker(redisClient, issueLockTTL)
		app.AddCleanup(redisClient.Close)
		slog.Info("Redis issue locking enabled", "addr", cfg.Redis.Addr)
	}

	// Best-effort activity sink for finished webhook runs
	sinkCfg := notification.DefaultConfig()
	sinkCfg.URL = cfg.Notifications.URL
	sinkCfg.AuthToken = cfg.Notifications.AuthToken
	if cfg.Notifications.Timeout > 0 {
		sinkCfg.Timeout = cfg.Notifications.Timeout
	}
	sink := notification.NewSink(sinkCfg)
	if sink.Enabled() {
		slog.Info("Notification sink enabled", "url", cfg.Notifications.URL)
	}

	newWebhookEvent := func(execCtx *common.ExecutionContext, w *github.Webhook) common.DomainEvent {
		var ev common.DomainEvent
		switch w.Status {
		case github.WebhookStatusIgnored:
			ev = events.NewWebhookIgnored(execCtx, w)
		case github.WebhookStatusFailed:
			ev = events.NewWebhookFailed(execCtx, w)
		default:
			ev = events.NewWebhookProcessed(execCtx, w)
		}
		if sink.Enabled() {
			sink.Notify(ev)
		}
		return ev
	}

	processor := github.NewProcessor(
		apiHandlers.WebhookRepo(),
		apiHandlers.IntegrationRepo(),
		apiHandlers.IssueRepo(),
		apiHandlers.UnitOfWork(),
		locker,
		newWebhookEvent)
	dispatcher := github.NewDispatcher(qr.consumer, processor)

	// Health checker
	healthChecker := health.NewChecker()
	healthChecker.AddReadinessCheck(health.MongoDBCheck(func() error {
		return app.Mongo.Ping(ctx)
	}))
	healthChecker.AddReadinessCheck(health.NATSCheck(qr.connected))
	if redisClient != nil {
		healthChecker.AddReadinessCheck(health.RedisCheck(func() error {
			return redisClient.Ping(ctx).Err()
		}))
	}

	// HTTP
	httpRouter := setupHTTPRouter(cfg, healthChecker, apiHandlers)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ========================================
	// 3. SERVICE STARTUP
	// ========================================
	httpService := lifecycle.NewHTTPService("trackdeck-api", httpServer)
	dispatcherService := lifecycle.NewServiceFunc("webhook-dispatcher",
		func(ctx context.Context) error {
			dispatcher.Start()
			<-ctx.Done()
			return nil
		},
		func(ctx context.Context) error {
			dispatcher.Stop()
			return nil
		})

	slog.Info("TrackDeck ready", "port", cfg.HTTP.Port, "queue", cfg.Queue.Type)

	// ========================================
	// 4. RUN UNTIL SHUTDOWN
	// ========================================
	if err := lifecycle.Run(ctx, dispatcherService, httpService); err != nil {
		slog.Error("Service error", "error", err)
		os.Exit(1)
	}

	slog.Info("TrackDeck stopped")
}

// setupLogging configures the slog default logger.
func setupLogging() {
	logLevel := slog.LevelInfo
	if os.Getenv("TRACKDECK_DEV") == "true" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// queueResources bundles the transport pieces the rest of main needs,
// regardless of whether the broker is embedded or external.
type queueResources struct {
	publisher queue.Publisher
	consumer  queue.Consumer
	connected func() bool
	close     func() error
}

// setupQueue starts the configured queue backend and creates the durable
// consumer the dispatcher reads from.
func setupQueue(ctx context.Context, cfg *config.Config) (*queueResources, error) {
	qcfg := queue.DefaultConfig()
	qcfg.Type = cfg.Queue.Type
	qcfg.DataDir = cfg.Queue.NATS.DataDir
	qcfg.NATS.URL = cfg.Queue.NATS.URL
	factory := queue.NewFactory(qcfg)

	if factory.IsNATS() {
		client, err := nats.NewClient(&qcfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		consumer, err := client.CreateConsumer(ctx, qcfg.NATS.ConsumerName, github.QueueSubject)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to create consumer: %w", err)
		}
		slog.Info("Using external NATS queue", "url", qcfg.NATS.URL)
		return &queueResources{
			publisher: client.Publisher(),
			consumer:  consumer,
			connected: client.IsConnected,
			close:     client.Close,
		}, nil
	}

	ecfg := nats.DefaultEmbeddedConfig()
	ecfg.DataDir = qcfg.DataDir
	ecfg.StreamName = qcfg.NATS.StreamName
	ecfg.Subjects = qcfg.NATS.Subjects
	ecfg.ConsumerName = qcfg.NATS.ConsumerName
	srv, err := nats.NewEmbeddedServer(ecfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start embedded NATS: %w", err)
	}
	consumer, err := srv.CreateConsumer(ctx, ecfg.ConsumerName, github.QueueSubject, &qcfg.NATS)
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	slog.Info("Using embedded NATS queue", "dataDir", ecfg.DataDir)
	return &queueResources{
		publisher: srv.Publisher(),
		consumer:  consumer,
		connected: srv.Connection().IsConnected,
		close:     srv.Close,
	}, nil
}

// setupAuth initializes the JWT key material, token service, and session
// cookie manager.
func setupAuth(cfg *config.Config) (*jwt.TokenService, *session.Manager, error) {
	keyManager := jwt.NewKeyManager()
	devKeyDir := cfg.DataDir
	if devKeyDir == "" {
		devKeyDir = "./data"
	}
	err := keyManager.Initialize(
		cfg.Auth.JWT.PrivateKeyPath,
		cfg.Auth.JWT.PublicKeyPath,
		filepath.Join(devKeyDir, "keys"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	tokenService := jwt.NewTokenService(keyManager, jwt.TokenServiceConfig{
		Issuer:             cfg.Auth.JWT.Issuer,
		SessionTokenExpiry: cfg.Auth.JWT.SessionTokenExpiry,
	})

	sessionManager := session.NewManager(session.Config{
		CookieName: cfg.Auth.Session.CookieName,
		Path:       "/",
		MaxAge:     cfg.Auth.JWT.SessionTokenExpiry,
		Secure:     cfg.Auth.Session.Secure,
		SameSite:   parseSameSite(cfg.Auth.Session.SameSite),
	})

	return tokenService, sessionManager, nil
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// setupHTTPRouter creates the HTTP router with all routes and middleware.
func setupHTTPRouter(
	cfg *config.Config,
	healthChecker *health.Checker,
	apiHandlers *api.Handlers,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/q/health", healthChecker.HandleHealth)
	r.Get("/q/health/live", healthChecker.HandleLive)
	r.Get("/q/health/ready", healthChecker.HandleReady)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/q/metrics", promhttp.Handler())

	// API routes (auth, ingest, and the authenticated /api tree)
	r.Mount("/", apiHandlers.Router())

	return r
}
