// Package worker runs the scheduled shift-reminder job and its
// sidecar health server.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"resto-notify/pkg/config"

	"github.com/robfig/cron/v3"
)

// ReminderConfig controls the shift-reminder cron job.
type ReminderConfig struct {
	// CronSchedule is a standard 5-field cron expression evaluated in
	// Timezone. Default: "0 9 * * *" (every day at 09:00).
	CronSchedule string

	// Timezone is the IANA zone the schedule runs in. Restaurants set
	// this to their local zone so "09:00" means opening prep time.
	Timezone string

	// ReminderChatIDs are the group chats that receive the daily
	// reminder. An empty list disables the job.
	ReminderChatIDs []string

	// HealthPort serves /health and /metrics for the worker process.
	HealthPort int
}

// DefaultReminderConfig returns the production defaults.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		CronSchedule: "0 9 * * *",
		Timezone:     "Asia/Tokyo",
		HealthPort:   9091,
	}
}

// Validate reports the first invalid field.
func (c *ReminderConfig) Validate() error {
	if _, err := cron.ParseStandard(c.CronSchedule); err != nil {
		return fmt.Errorf("cron schedule %q: %w", c.CronSchedule, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.HealthPort < 1024 || c.HealthPort > 65535 {
		return fmt.Errorf("health port %d: must be between 1024 and 65535", c.HealthPort)
	}
	return nil
}

// LoadReminderConfig reads the worker configuration from the
// environment. Invalid values fall back to the defaults with a
// warning instead of stopping the worker; a bad schedule should not
// take down reminders entirely.
//
// Environment variables:
//   - CRON_SCHEDULE: 5-field cron expression (default "0 9 * * *")
//   - WORKER_TIMEZONE: IANA zone name (default "Asia/Tokyo")
//   - REMINDER_CHAT_IDS: comma-separated chat IDs (default empty)
//   - WORKER_HEALTH_PORT: port 1024-65535 (default 9091)
func LoadReminderConfig(logger *slog.Logger) ReminderConfig {
	defaults := DefaultReminderConfig()

	cfg := ReminderConfig{
		CronSchedule:    config.GetEnvString("CRON_SCHEDULE", defaults.CronSchedule),
		Timezone:        config.GetEnvString("WORKER_TIMEZONE", defaults.Timezone),
		ReminderChatIDs: config.GetEnvStringList("REMINDER_CHAT_IDS", nil),
		HealthPort:      config.GetEnvInt("WORKER_HEALTH_PORT", defaults.HealthPort),
	}

	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		logger.Warn("invalid cron schedule, using default",
			slog.String("value", cfg.CronSchedule),
			slog.String("default", defaults.CronSchedule),
			slog.String("error", err.Error()))
		cfg.CronSchedule = defaults.CronSchedule
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		logger.Warn("invalid timezone, using default",
			slog.String("value", cfg.Timezone),
			slog.String("default", defaults.Timezone),
			slog.String("error", err.Error()))
		cfg.Timezone = defaults.Timezone
	}

	if cfg.HealthPort < 1024 || cfg.HealthPort > 65535 {
		logger.Warn("health port out of range, using default",
			slog.Int("value", cfg.HealthPort),
			slog.Int("default", defaults.HealthPort))
		cfg.HealthPort = defaults.HealthPort
	}

	if len(cfg.ReminderChatIDs) == 0 {
		logger.Warn("REMINDER_CHAT_IDS is empty, shift reminders are disabled")
	}

	return cfg
}
