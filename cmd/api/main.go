// The api binary serves the notification trigger API for the
// restaurant management suite. Other services call it when an order is
// placed, a schedule goes live, a leave request is decided, or a
// payslip is issued; this service owns the Telegram delivery,
// retries, and the audit trail.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "resto-notify/internal/infra/adapter/persistence/postgres"
	"resto-notify/internal/infra/db"
	"resto-notify/internal/infra/telegram"
	"resto-notify/internal/observability/logging"
	"resto-notify/internal/observability/tracing"
	"resto-notify/pkg/config"

	"resto-notify/internal/usecase/dispatch"
	eventUC "resto-notify/internal/usecase/event"

	hhttp "resto-notify/internal/handler/http"
	hauth "resto-notify/internal/handler/http/auth"
	hevent "resto-notify/internal/handler/http/event"
	hnotif "resto-notify/internal/handler/http/notification"
	"resto-notify/internal/handler/http/requestid"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	secret := loadJWTSecret(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	tgCfg := loadTelegramConfig(logger)
	handler := setupServer(logger, database, secret, tgCfg)

	runServer(logger, handler)
}

// loadJWTSecret reads and validates JWT_SECRET. The API is only
// reachable by other suite services, so a missing or weak secret is a
// deployment mistake and we refuse to start.
func loadJWTSecret(logger *slog.Logger) []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	// 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
	return []byte(secret)
}

// initDatabase opens the connection pool and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// loadTelegramConfig builds the bot configuration from the
// environment. A missing token with TELEGRAM_ENABLED=true disables
// the sender with a warning rather than crashing: the API keeps
// accepting triggers and records them as short-circuited.
func loadTelegramConfig(logger *slog.Logger) telegram.Config {
	cfg := telegram.Config{
		Enabled: config.GetEnvBool("TELEGRAM_ENABLED", false),
		Token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		BaseURL: config.GetEnvString("TELEGRAM_API_BASE_URL", telegram.DefaultBaseURL),
		Timeout: config.GetEnvDuration("TELEGRAM_API_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn("telegram sender disabled", slog.String("reason", err.Error()))
		cfg.Enabled = false
	}
	if !cfg.Enabled {
		logger.Warn("telegram sender is disabled, deliveries will be short-circuited")
	}
	return cfg
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

// setupServer wires the dispatch stack and returns the root handler.
func setupServer(logger *slog.Logger, database *sql.DB, secret []byte, tgCfg telegram.Config) http.Handler {
	repo := pgRepo.NewDeliveryRepo(database)

	client := telegram.New(tgCfg)
	limiter := dispatch.NewWindowLimiter(repo, config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 20), logger)
	audit := &dispatch.AuditLog{Repo: repo, Logger: logger}
	sender := dispatch.NewSender(client, limiter, audit, logger)
	broadcaster := dispatch.NewBroadcaster(sender, audit, logger)
	eventSvc := eventUC.Service{Sender: sender, Broadcaster: broadcaster}
	history := dispatch.History{Repo: repo}

	publicMux := http.NewServeMux()
	publicMux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: getVersion(), TelegramEnabled: client.Configured()})
	publicMux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	publicMux.Handle("/live", &hhttp.LiveHandler{})
	publicMux.Handle("/metrics", hhttp.MetricsHandler())

	privateMux := http.NewServeMux()
	hnotif.Register(privateMux, sender, broadcaster, history)
	hevent.Register(privateMux, eventSvc)
	protected := hauth.Authz(secret)(privateMux)

	rootMux := http.NewServeMux()
	rootMux.Handle("/health", publicMux)
	rootMux.Handle("/ready", publicMux)
	rootMux.Handle("/live", publicMux)
	rootMux.Handle("/metrics", publicMux)
	rootMux.Handle("/", protected)

	return applyMiddleware(logger, rootMux)
}

// applyMiddleware builds the chain, innermost first:
// requestid → tracing → recover → logging → body limit → metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler

	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", ":8080"),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
