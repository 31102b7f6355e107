// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/config"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
	"github.com/telcoinsight/keluhan-bot-go/internal/intent"
	"github.com/telcoinsight/keluhan-bot-go/internal/knowledge"
	"github.com/telcoinsight/keluhan-bot-go/internal/llm"
	"github.com/telcoinsight/keluhan-bot-go/internal/logger"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
	"github.com/telcoinsight/keluhan-bot-go/internal/narrative"
	"github.com/telcoinsight/keluhan-bot-go/internal/sentry"
	"github.com/telcoinsight/keluhan-bot-go/internal/session"
	"github.com/telcoinsight/keluhan-bot-go/internal/smartcare"
	"github.com/telcoinsight/keluhan-bot-go/internal/sqlbuild"
	"github.com/telcoinsight/keluhan-bot-go/internal/storage"
	"github.com/telcoinsight/keluhan-bot-go/internal/timeexpr"
	"github.com/telcoinsight/keluhan-bot-go/internal/workflow"
)

// QueryHandler answers one chat query within a session. *workflow.Router
// implements it.
type QueryHandler interface {
	Handle(ctx context.Context, sessionID, query string) workflow.Response
}

// Pinger checks connectivity to the complaint warehouse.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg       *config.Config
	logger    *logger.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	sessions  session.Store
	sessionDB *storage.DB
	warehouse Pinger
	llmClient *llm.Client
	handler   QueryHandler
	router    *gin.Engine
	server    *http.Server
	features  map[string]bool
	wg        sync.WaitGroup
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	var log *logger.Logger
	if cfg.BetterStackToken != "" {
		log = logger.NewWithShipping(cfg.LogLevel, cfg.BetterStackToken, cfg.BetterStackEndpoint)
	} else {
		log = logger.New(cfg.LogLevel)
	}
	log = log.WithField("service", "keluhan-bot")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}
	slog.SetDefault(log.Logger)

	log.Info("Initializing application")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed, error tracking disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	warehouse, err := complaintdb.New(cfg, m)
	if err != nil {
		return nil, fmt.Errorf("complaint warehouse: %w", err)
	}
	log.WithField("addr", cfg.ClickHouseAddr).
		WithField("table", cfg.ComplaintTable).
		Info("Complaint warehouse connected")

	sessions, sessionDB, err := buildSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	log.WithField("backend", cfg.SessionBackend).
		WithField("ttl", cfg.SessionTTL).
		Info("Session store ready")

	llmClient, err := llm.NewFromConfig(ctx, cfg, m)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	// A disabled client must stay out of the interfaces so the callers'
	// nil checks disable the optional tiers instead of calling into it.
	var (
		reasoner      intent.Reasoner
		enhancer      session.Enhancer
		improver      narrative.TextImprover
		answerer      knowledge.AnswerGenerator
		dateExtractor timeexpr.DateExtractor
	)
	if llmClient.IsEnabled() {
		reasoner = llmClient
		enhancer = llmClient
		improver = llmClient
		answerer = llmClient
		dateExtractor = llmClient
	}

	idx, err := knowledge.NewIndex(knowledge.SeedGlossary())
	if err != nil {
		return nil, fmt.Errorf("knowledge index: %w", err)
	}
	knowledgeSvc := knowledge.NewService(idx, answerer, cfg.KnowledgeSimilarityFloor)
	log.WithField("documents", idx.Count()).Info("Knowledge index built")

	var live workflow.LiveLookup
	if cfg.SmartCareEnabled() {
		var cache smartcare.Cache
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			cache = smartcare.NewRedisCache(rdb, cfg.SmartCareCacheTTL)
			log.WithField("addr", cfg.RedisAddr).Info("SmartCare cache backed by Redis")
		} else {
			cache = smartcare.NewMemoryCache(cfg.SmartCareCacheTTL)
		}
		client := smartcare.NewClient(cfg, cache, m)
		live = smartcare.NewService(client, timeexpr.NewResolver(dateExtractor))
		log.Info("SmartCare live lookup enabled")
	} else {
		log.Info("SmartCare credentials not configured, live lookup disabled")
	}

	router := workflow.NewRouter(workflow.Deps{
		Classifier:  intent.NewClassifier(reasoner, session.NewResolver(enhancer, m), m),
		Extractor:   entity.NewExtractor(),
		Builder:     sqlbuild.NewBuilder(cfg.ComplaintTable),
		Warehouse:   warehouse,
		Narrator:    narrative.NewGenerator(improver),
		Live:        live,
		Knowledge:   knowledgeSvc,
		HasDataRefs: knowledge.HasDatabasePatterns,
		Sessions:    sessions,
		Metrics:     m,
	})

	app := &Application{
		cfg:       cfg,
		logger:    log,
		registry:  registry,
		metrics:   m,
		sessions:  sessions,
		sessionDB: sessionDB,
		warehouse: warehouse,
		llmClient: llmClient,
		handler:   router,
		features: map[string]bool{
			"llm":         llmClient.IsEnabled(),
			"smartcare":   live != nil,
			"knowledge":   idx.Count() > 0,
			"redis_cache": cfg.RedisAddr != "",
		},
	}
	app.setupRouter()

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.HTTPRead,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// buildSessionStore picks the configured session backend. The SQLite
// handle is returned separately so shutdown can close it.
func buildSessionStore(cfg *config.Config) (session.Store, *storage.DB, error) {
	if cfg.SessionBackend == "memory" {
		return session.NewMemoryStore(cfg.SessionTTL), nil, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		return nil, nil, err
	}
	return session.NewSQLiteStore(db, cfg.SessionTTL), db, nil
}

// setupRouter builds the Gin engine and attaches all routes.
func (a *Application) setupRouter() {
	if a.cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(securityHeadersMiddleware())
	r.Use(loggingMiddleware(a.logger))
	r.Use(corsMiddleware(a.cfg.CORSOrigins))
	if sentry.IsEnabled() {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	r.GET("/", a.rootInfo)
	r.GET("/health", a.livenessCheck)
	r.HEAD("/health", a.livenessCheck)
	r.GET("/ready", a.readinessCheck)
	r.HEAD("/ready", a.readinessCheck)

	r.POST("/v1/chat/completions", a.chatCompletions)
	r.GET("/v1/models", a.listModels)

	r.GET("/sessions/stats", a.sessionStats)
	r.DELETE("/sessions/:id", a.deleteSession)

	r.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsPassword != "", a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	a.router = r
}

func (a *Application) rootInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "keluhan-bot",
		"status":  "ok",
	})
}

// livenessCheck reports that the process is up. It must not touch any
// dependency.
func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readinessCheck verifies the warehouse connection and reports which
// optional features are active.
func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := a.warehouse.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: warehouse unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "warehouse unavailable",
		})
		return
	}

	active, err := a.sessions.Count(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Session count failed in readiness check")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ready",
		"warehouse":       "connected",
		"active_sessions": active,
		"features":        a.features,
	})
}

func (a *Application) sessionStats(c *gin.Context) {
	active, err := a.sessions.Count(c.Request.Context())
	if err != nil {
		a.logger.WithError(err).Error("Session count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active_sessions": active,
		"session_ttl":     a.cfg.SessionTTL.String(),
	})
}

func (a *Application) deleteSession(c *gin.Context) {
	id := c.Param("id")
	if _, err := a.sessions.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, domerrors.ErrNotFound) || errors.Is(err, domerrors.ErrSessionExpired) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		a.logger.WithError(err).WithField("session_id", id).Error("Session lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
		return
	}
	if err := a.sessions.Delete(c.Request.Context(), id); err != nil {
		a.logger.WithError(err).WithField("session_id", id).Error("Session delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "session_id": id})
}

// Run starts the HTTP server and background jobs, then blocks until a
// shutdown signal arrives.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startBackgroundJobs(ctx)
	a.startHTTPServer()

	sig := a.waitForShutdownSignal()
	a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	cancel()

	a.logger.Info("Waiting for background jobs to finish...")
	a.wg.Wait()

	return a.shutdown()
}

func (a *Application) startBackgroundJobs(ctx context.Context) {
	a.wg.Go(func() {
		a.sessionSweeper(ctx)
	})
}

func (a *Application) startHTTPServer() {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server error")
		}
	}()
}

func (a *Application) waitForShutdownSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// shutdown stops the HTTP server, then closes resources. Called only
// after background jobs have finished so nothing writes to a closed
// store.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Closing resources...")

	if err := a.llmClient.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "llm").Error("Component close error")
	}

	if closer, ok := a.warehouse.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "warehouse").Error("Component close error")
		}
	}

	if err := a.sessions.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "sessions").Error("Component close error")
	}
	if a.sessionDB != nil {
		if err := a.sessionDB.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "session_db").Error("Component close error")
		}
	}

	sentry.Flush(2 * time.Second)

	a.logger.Info("Shutdown complete")
	return nil
}

// sessionSweeper drops expired sessions on a fixed interval and keeps
// the active-session gauge current.
func (a *Application) sessionSweeper(ctx context.Context) {
	a.logger.Debug("Session sweeper started")
	defer a.logger.Debug("Session sweeper stopped")

	ticker := time.NewTicker(a.cfg.SessionSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweepOnce(ctx)
		}
	}
}

func (a *Application) sweepOnce(ctx context.Context) {
	expired, err := a.sessions.Sweep(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Session sweep failed")
		return
	}
	if expired > 0 {
		a.metrics.RecordSessionsExpired(expired)
		a.logger.WithField("expired", expired).Debug("Expired sessions removed")
	}

	active, err := a.sessions.Count(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Session count failed")
		return
	}
	a.metrics.SetActiveSessions(active)
}
