package telegram

import (
	"errors"
	"strings"
	"time"
)

// ErrorType buckets a failed send for retry decisions and reporting.
type ErrorType string

const (
	ErrTypeRateLimited       ErrorType = "rate_limited"
	ErrTypeChatBlocked       ErrorType = "chat_blocked"
	ErrTypeInvalidCredential ErrorType = "invalid_credential"
	ErrTypeTransientNetwork  ErrorType = "transient_network"
	ErrTypePermanentAPI      ErrorType = "permanent_api_error"
	ErrTypeUnknown           ErrorType = "unknown"
)

// defaultRateLimitDelay applies when a 429 carries no retry_after hint.
const defaultRateLimitDelay = 30 * time.Second

// Classification is the retry decision derived from a send error.
// RetryAfter is non-zero only when the provider supplied a hint.
type Classification struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	RetryAfter time.Duration
}

// Classify maps a send error to a Classification. It is a pure
// function of the error value: *APIError values are bucketed by the
// provider error code and description, anything else (DNS failures,
// timeouts, an open circuit breaker) counts as a transient network
// problem worth retrying.
func Classify(err error) Classification {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return Classification{
			Type:      ErrTypeTransientNetwork,
			Message:   "Telegram API temporarily unavailable",
			Retryable: true,
		}
	}

	desc := strings.ToLower(apiErr.Description)
	switch apiErr.Code {
	case 429:
		delay := apiErr.RetryAfter
		if delay <= 0 {
			delay = defaultRateLimitDelay
		}
		return Classification{
			Type:       ErrTypeRateLimited,
			Message:    "Rate limited by Telegram",
			Retryable:  true,
			RetryAfter: delay,
		}
	case 403:
		if strings.Contains(desc, "blocked") || strings.Contains(desc, "kicked") {
			return Classification{
				Type:    ErrTypeChatBlocked,
				Message: "Chat blocked or bot removed",
			}
		}
		return Classification{
			Type:    ErrTypePermanentAPI,
			Message: apiErr.Description,
		}
	case 401:
		return Classification{
			Type:    ErrTypeInvalidCredential,
			Message: "Invalid bot token",
		}
	case 400:
		if strings.Contains(desc, "chat not found") {
			return Classification{
				Type:    ErrTypeChatBlocked,
				Message: "Chat blocked or bot removed",
			}
		}
		return Classification{
			Type:    ErrTypePermanentAPI,
			Message: apiErr.Description,
		}
	case 500, 502, 503, 504:
		return Classification{
			Type:      ErrTypeTransientNetwork,
			Message:   "Telegram API temporarily unavailable",
			Retryable: true,
		}
	default:
		return Classification{
			Type:      ErrTypeUnknown,
			Message:   apiErr.Description,
			Retryable: true,
		}
	}
}
