// Package config provides small helpers for reading configuration
// from environment variables with defaults and warn-on-invalid
// semantics.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// GetEnvString returns the value of an environment variable or the
// default if the variable is unset or empty.
//
// Example:
//
//	baseURL := GetEnvString("TELEGRAM_API_BASE_URL", "https://api.telegram.org")
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns an environment variable parsed as an integer.
// Unset, empty, or unparseable values fall back to the default with a
// warning.
//
// Example:
//
//	limit := GetEnvInt("RATE_LIMIT_PER_MINUTE", 20)
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Int("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// GetEnvBool returns an environment variable parsed as a boolean.
// Accepted true values: "1", "t", "T", "true", "TRUE", "True";
// false values mirror them. Anything else falls back to the default
// with a warning.
//
// Example:
//
//	enabled := GetEnvBool("TELEGRAM_ENABLED", false)
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	switch valueStr {
	case "1", "t", "T", "true", "TRUE", "True":
		return true
	case "0", "f", "F", "false", "FALSE", "False":
		return false
	default:
		slog.Warn("invalid boolean value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
}

// GetEnvDuration returns an environment variable parsed with
// time.ParseDuration ("30s", "1h30m"). Invalid values fall back to
// the default with a warning.
//
// Example:
//
//	timeout := GetEnvDuration("TELEGRAM_API_TIMEOUT", 10*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.String("default", defaultValue.String()),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// GetEnvStringList returns a comma-separated environment variable as
// a slice. Entries are trimmed and empty entries dropped; an unset
// variable or an all-empty list yields the default.
//
// Example:
//
//	chats := GetEnvStringList("REMINDER_CHAT_IDS", nil)
//	// REMINDER_CHAT_IDS="-100987, -100654" -> ["-100987", "-100654"]
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
