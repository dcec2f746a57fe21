package telegram

import (
	"errors"
	"time"
)

// DefaultBaseURL is the production Telegram Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Config holds the settings for the Telegram Bot API client.
// It is injected by the caller; the client never reads the environment
// itself so tests can point BaseURL at a local server.
type Config struct {
	// Enabled controls whether the bot sends anything at all. When
	// false the client reports itself as not configured and callers
	// short-circuit without touching the network.
	Enabled bool

	// Token is the bot token issued by BotFather.
	Token string

	// BaseURL overrides the API endpoint. Empty means DefaultBaseURL.
	BaseURL string

	// Timeout is the per-request HTTP timeout. Zero means 10s.
	Timeout time.Duration
}

// Validate checks the configuration for an enabled client.
func (c Config) Validate() error {
	if c.Enabled && c.Token == "" {
		return errors.New("telegram: token is required when enabled")
	}
	return nil
}
