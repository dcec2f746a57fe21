package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantType       ErrorType
		wantRetryable  bool
		wantRetryAfter time.Duration
		wantMessage    string
	}{
		{
			name:           "429 with retry_after hint",
			err:            &APIError{Code: 429, Description: "Too Many Requests: retry after 5", RetryAfter: 5 * time.Second},
			wantType:       ErrTypeRateLimited,
			wantRetryable:  true,
			wantRetryAfter: 5 * time.Second,
			wantMessage:    "Rate limited by Telegram",
		},
		{
			name:           "429 without hint falls back to 30s",
			err:            &APIError{Code: 429, Description: "Too Many Requests"},
			wantType:       ErrTypeRateLimited,
			wantRetryable:  true,
			wantRetryAfter: 30 * time.Second,
			wantMessage:    "Rate limited by Telegram",
		},
		{
			name:        "403 bot blocked by user",
			err:         &APIError{Code: 403, Description: "Forbidden: bot was blocked by the user"},
			wantType:    ErrTypeChatBlocked,
			wantMessage: "Chat blocked or bot removed",
		},
		{
			name:        "403 bot kicked from group",
			err:         &APIError{Code: 403, Description: "Forbidden: bot was kicked from the group chat"},
			wantType:    ErrTypeChatBlocked,
			wantMessage: "Chat blocked or bot removed",
		},
		{
			name:        "403 other forbidden",
			err:         &APIError{Code: 403, Description: "Forbidden: bot can't send messages to bots"},
			wantType:    ErrTypePermanentAPI,
			wantMessage: "Forbidden: bot can't send messages to bots",
		},
		{
			name:        "401 invalid token",
			err:         &APIError{Code: 401, Description: "Unauthorized"},
			wantType:    ErrTypeInvalidCredential,
			wantMessage: "Invalid bot token",
		},
		{
			name:        "400 chat not found",
			err:         &APIError{Code: 400, Description: "Bad Request: chat not found"},
			wantType:    ErrTypeChatBlocked,
			wantMessage: "Chat blocked or bot removed",
		},
		{
			name:        "400 other bad request",
			err:         &APIError{Code: 400, Description: "Bad Request: can't parse entities"},
			wantType:    ErrTypePermanentAPI,
			wantMessage: "Bad Request: can't parse entities",
		},
		{
			name:          "500 internal error",
			err:           &APIError{Code: 500, Description: "Internal Server Error"},
			wantType:      ErrTypeTransientNetwork,
			wantRetryable: true,
			wantMessage:   "Telegram API temporarily unavailable",
		},
		{
			name:          "502 bad gateway",
			err:           &APIError{Code: 502, Description: "Bad Gateway"},
			wantType:      ErrTypeTransientNetwork,
			wantRetryable: true,
			wantMessage:   "Telegram API temporarily unavailable",
		},
		{
			name:          "503 unavailable",
			err:           &APIError{Code: 503, Description: "Service Unavailable"},
			wantType:      ErrTypeTransientNetwork,
			wantRetryable: true,
			wantMessage:   "Telegram API temporarily unavailable",
		},
		{
			name:          "504 gateway timeout",
			err:           &APIError{Code: 504, Description: "Gateway Timeout"},
			wantType:      ErrTypeTransientNetwork,
			wantRetryable: true,
			wantMessage:   "Telegram API temporarily unavailable",
		},
		{
			name:          "unexpected api code",
			err:           &APIError{Code: 418, Description: "I'm a teapot"},
			wantType:      ErrTypeUnknown,
			wantRetryable: true,
			wantMessage:   "I'm a teapot",
		},
		{
			name:          "transport error",
			err:           errors.New("dial tcp: connection refused"),
			wantType:      ErrTypeTransientNetwork,
			wantRetryable: true,
			wantMessage:   "Telegram API temporarily unavailable",
		},
		{
			name:          "wrapped api error",
			err:           fmt.Errorf("send: %w", &APIError{Code: 401, Description: "Unauthorized"}),
			wantType:      ErrTypeInvalidCredential,
			wantMessage:   "Invalid bot token",
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
			if got.RetryAfter != tt.wantRetryAfter {
				t.Errorf("RetryAfter = %v, want %v", got.RetryAfter, tt.wantRetryAfter)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}
