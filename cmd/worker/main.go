// The worker binary sends the daily shift reminder. A cron scheduler
// fires in the restaurant's local timezone, renders the reminder for
// today's date, and broadcasts it to the configured group chats. The
// sidecar health server exposes probes and Prometheus metrics.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	pgRepo "resto-notify/internal/infra/adapter/persistence/postgres"
	"resto-notify/internal/infra/db"
	"resto-notify/internal/infra/telegram"
	"resto-notify/internal/infra/worker"
	"resto-notify/internal/observability/logging"
	"resto-notify/internal/usecase/dispatch"
	"resto-notify/internal/usecase/event"
	"resto-notify/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	cfg := worker.LoadReminderConfig(logger)
	metrics := worker.NewWorkerMetrics()
	broadcaster := buildBroadcaster(logger, database)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		// LoadReminderConfig already fell back to a valid zone
		logger.Error("failed to load timezone", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthServer := worker.NewHealthServer(":"+strconv.Itoa(cfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	scheduler := cron.New(cron.WithLocation(loc))
	_, err = scheduler.AddFunc(cfg.CronSchedule, func() {
		runReminder(ctx, logger, broadcaster, metrics, cfg.ReminderChatIDs, loc)
	})
	if err != nil {
		logger.Error("failed to schedule reminder job", slog.Any("error", err))
		os.Exit(1)
	}

	scheduler.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("reminder_chats", len(cfg.ReminderChatIDs)))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	healthServer.SetReady(false)
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("running job did not finish before shutdown deadline")
	}

	cancel()
	logger.Info("worker stopped")
}

func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// buildBroadcaster wires the same dispatch stack the API uses, so
// reminders share the audit trail and per-chat rate limits.
func buildBroadcaster(logger *slog.Logger, database *sql.DB) *dispatch.Broadcaster {
	tgCfg := telegram.Config{
		Enabled: config.GetEnvBool("TELEGRAM_ENABLED", false),
		Token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		BaseURL: config.GetEnvString("TELEGRAM_API_BASE_URL", telegram.DefaultBaseURL),
		Timeout: config.GetEnvDuration("TELEGRAM_API_TIMEOUT", 10*time.Second),
	}
	if err := tgCfg.Validate(); err != nil {
		logger.Warn("telegram sender disabled", slog.String("reason", err.Error()))
		tgCfg.Enabled = false
	}

	repo := pgRepo.NewDeliveryRepo(database)
	client := telegram.New(tgCfg)
	limiter := dispatch.NewWindowLimiter(repo, config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 20), logger)
	audit := &dispatch.AuditLog{Repo: repo, Logger: logger}
	sender := dispatch.NewSender(client, limiter, audit, logger)
	return dispatch.NewBroadcaster(sender, audit, logger)
}

// runReminder executes one reminder broadcast and records its
// metrics.
func runReminder(ctx context.Context, logger *slog.Logger, broadcaster event.BatchSender, metrics *worker.WorkerMetrics, chatIDs []string, loc *time.Location) {
	if len(chatIDs) == 0 {
		logger.Warn("no reminder chats configured, skipping run")
		return
	}

	start := time.Now()
	today := time.Now().In(loc).Format("2006-01-02")
	msg := event.RenderShiftReminder(today)

	result := broadcaster.Broadcast(ctx, chatIDs, msg, event.CategoryShiftReminder, map[string]any{
		"date": today,
	})

	duration := time.Since(start)
	metrics.RecordRecipients(len(result.Successful), len(result.Failed))

	if len(result.Failed) == result.TotalRecipients && result.TotalRecipients > 0 {
		metrics.RecordRun("failure", duration)
		logger.Error("shift reminder failed for all chats",
			slog.String("date", today),
			slog.Int("total", result.TotalRecipients))
		return
	}

	metrics.RecordRun("success", duration)
	metrics.RecordLastSuccess()
	logger.Info("shift reminder sent",
		slog.String("date", today),
		slog.Int("total", result.TotalRecipients),
		slog.Int("successful", len(result.Successful)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("success_rate", result.SuccessRate))
}
