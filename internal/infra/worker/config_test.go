package worker

import (
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestReminderConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ReminderConfig)
		wantErr bool
	}{
		{"TC-1: defaults are valid", func(c *ReminderConfig) {}, false},
		{"TC-2: invalid cron schedule", func(c *ReminderConfig) { c.CronSchedule = "not a cron" }, true},
		{"TC-3: six-field schedule rejected", func(c *ReminderConfig) { c.CronSchedule = "0 0 9 * * *" }, true},
		{"TC-4: invalid timezone", func(c *ReminderConfig) { c.Timezone = "Mars/Olympus" }, true},
		{"TC-5: privileged port rejected", func(c *ReminderConfig) { c.HealthPort = 80 }, true},
		{"TC-6: UTC timezone accepted", func(c *ReminderConfig) { c.Timezone = "UTC" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultReminderConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReminderConfig(t *testing.T) {
	t.Run("TC-1: should use defaults when env is empty", func(t *testing.T) {
		t.Setenv("CRON_SCHEDULE", "")
		t.Setenv("WORKER_TIMEZONE", "")
		t.Setenv("REMINDER_CHAT_IDS", "")
		t.Setenv("WORKER_HEALTH_PORT", "")

		cfg := LoadReminderConfig(discardLogger())

		if cfg.CronSchedule != "0 9 * * *" {
			t.Errorf("CronSchedule = %q, want default", cfg.CronSchedule)
		}
		if cfg.Timezone != "Asia/Tokyo" {
			t.Errorf("Timezone = %q, want Asia/Tokyo", cfg.Timezone)
		}
		if cfg.HealthPort != 9091 {
			t.Errorf("HealthPort = %d, want 9091", cfg.HealthPort)
		}
		if len(cfg.ReminderChatIDs) != 0 {
			t.Errorf("ReminderChatIDs = %v, want empty", cfg.ReminderChatIDs)
		}
	})

	t.Run("TC-2: should read values from the environment", func(t *testing.T) {
		t.Setenv("CRON_SCHEDULE", "30 8 * * 1-5")
		t.Setenv("WORKER_TIMEZONE", "Europe/Berlin")
		t.Setenv("REMINDER_CHAT_IDS", "-100987, -100654")
		t.Setenv("WORKER_HEALTH_PORT", "9191")

		cfg := LoadReminderConfig(discardLogger())

		if cfg.CronSchedule != "30 8 * * 1-5" {
			t.Errorf("CronSchedule = %q", cfg.CronSchedule)
		}
		if cfg.Timezone != "Europe/Berlin" {
			t.Errorf("Timezone = %q", cfg.Timezone)
		}
		if len(cfg.ReminderChatIDs) != 2 || cfg.ReminderChatIDs[0] != "-100987" {
			t.Errorf("ReminderChatIDs = %v", cfg.ReminderChatIDs)
		}
		if cfg.HealthPort != 9191 {
			t.Errorf("HealthPort = %d", cfg.HealthPort)
		}
	})

	t.Run("TC-3: should fall back on invalid values", func(t *testing.T) {
		t.Setenv("CRON_SCHEDULE", "every morning")
		t.Setenv("WORKER_TIMEZONE", "Mars/Olympus")
		t.Setenv("WORKER_HEALTH_PORT", "80")

		cfg := LoadReminderConfig(discardLogger())

		if cfg.CronSchedule != "0 9 * * *" {
			t.Errorf("CronSchedule = %q, want default fallback", cfg.CronSchedule)
		}
		if cfg.Timezone != "Asia/Tokyo" {
			t.Errorf("Timezone = %q, want default fallback", cfg.Timezone)
		}
		if cfg.HealthPort != 9091 {
			t.Errorf("HealthPort = %d, want default fallback", cfg.HealthPort)
		}
	})
}
