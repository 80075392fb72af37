// Package main is the entrypoint for the adsproxy API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/adsproxy/adsproxy/internal/auth"
	"github.com/adsproxy/adsproxy/internal/config"
	"github.com/adsproxy/adsproxy/internal/googleads"
	"github.com/adsproxy/adsproxy/internal/handler"
	"github.com/adsproxy/adsproxy/internal/metrics"
	"github.com/adsproxy/adsproxy/internal/middleware"
	"github.com/adsproxy/adsproxy/internal/repository"
	"github.com/adsproxy/adsproxy/internal/server"
	"github.com/adsproxy/adsproxy/internal/service"
)

// dbConnectTimeout bounds the startup connection to the run log database.
const dbConnectTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	gate, err := auth.NewGate(cfg.APIKey, cfg.APIKeyHash)
	if err != nil {
		logger.Error("failed to initialize auth gate", "error", err)
		os.Exit(1)
	}

	recorder := metrics.NewInMemory()

	client := googleads.NewClient(googleads.Options{
		BaseURL:         cfg.AdsAPIBaseURL,
		APIVersion:      cfg.AdsAPIVersion,
		LoginCustomerID: cfg.AdsLoginCustomerID,
		TokenURL:        cfg.OAuthTokenURL,
	})

	svcCfg := service.ReportServiceConfig{
		Fetcher: client,
		Metrics: recorder,
		Logger:  logger,
		Timeout: cfg.UpstreamTimeout,
	}

	// The run log is optional; without DATABASE_URL reports are not recorded.
	var repo *repository.Repository
	if cfg.HasDatabase() {
		connectCtx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
		repo, err = repository.New(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		svcCfg.Runs = repository.NewReportRunRepository(repo)
		logger.Info("connected to database")
	}

	reportService := service.NewReportService(svcCfg)

	h := handler.New()
	var healthHandler *handler.HealthHandler
	if repo != nil {
		healthHandler = handler.NewHealthHandler(repo)
	} else {
		healthHandler = handler.NewHealthHandler(nil)
	}
	reportHandler := handler.NewReportHandler(reportService, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := setupRouter(routerDeps{
		handler:  h,
		health:   healthHandler,
		reports:  reportHandler,
		metrics:  metricsHandler,
		gate:     gate,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if repo != nil {
		srv.OnShutdown("postgres", func(ctx context.Context) error {
			repo.Close()
			return nil
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"ads_api_version", cfg.AdsAPIVersion,
		"run_log", cfg.HasDatabase(),
		"auth", authMode(cfg),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func authMode(cfg *config.Config) string {
	if cfg.APIKeyHash != "" {
		return "argon2id"
	}
	return "plain"
}

type routerDeps struct {
	handler  *handler.Handler
	health   *handler.HealthHandler
	reports  *handler.ReportHandler
	metrics  *handler.MetricsHandler
	gate     *auth.Gate
	recorder metrics.Recorder
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	// Health and info endpoints (no auth required)
	r.Get("/", d.handler.Hello)
	r.Get("/health", d.health.Health)
	r.Get("/readyz", d.health.Readyz)

	authCfg := middleware.AuthConfig{
		Logger:  d.logger,
		Gate:    d.gate,
		Metrics: d.recorder,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/metrics", d.metrics.Metrics)

		r.Route("/api", func(r chi.Router) {
			r.Post("/keywords", d.reports.Keywords)
			r.Post("/demographics", d.reports.Demographics)
			r.Post("/geographic", d.reports.Geographic)
		})
	})

	r.NotFound(d.handler.NotFound)
	r.MethodNotAllowed(d.handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
