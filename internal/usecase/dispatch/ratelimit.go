package dispatch

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultWindow is the sliding window over the delivery log.
	DefaultWindow = 60 * time.Second
	// DefaultPerMinuteLimit is the per-destination send ceiling.
	DefaultPerMinuteLimit = 20
	// minRetryAfter is the floor for the wait suggestion.
	minRetryAfter = 1 * time.Second
)

// SendWindow reads successful send timestamps for one destination.
// The postgres delivery repo implements it.
type SendWindow interface {
	SuccessTimesSince(ctx context.Context, chatID string, since time.Time) ([]time.Time, error)
}

// Decision is the outcome of a rate limit check. RetryAfter is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// WindowLimiter enforces a per-destination sliding window over the
// persisted delivery log. Only successful sends count against the
// limit. The check has no side effects; the send itself appends the
// record that future checks observe. Concurrent senders can therefore
// slightly overshoot the ceiling, which is accepted.
type WindowLimiter struct {
	Repo   SendWindow
	Limit  int
	Window time.Duration
	Logger *slog.Logger
}

// NewWindowLimiter creates a limiter with the given ceiling, falling
// back to defaults for non-positive values.
func NewWindowLimiter(repo SendWindow, limit int, logger *slog.Logger) *WindowLimiter {
	if limit <= 0 {
		limit = DefaultPerMinuteLimit
	}
	return &WindowLimiter{
		Repo:   repo,
		Limit:  limit,
		Window: DefaultWindow,
		Logger: logger,
	}
}

// Check decides whether a send to chatID may proceed now. When the
// window is full, RetryAfter is the time until the oldest in-window
// send ages out, never less than one second. A failed read fails
// open: blocking every notification over a log outage is worse than
// briefly exceeding the ceiling.
func (l *WindowLimiter) Check(ctx context.Context, chatID string) Decision {
	now := time.Now()
	times, err := l.Repo.SuccessTimesSince(ctx, chatID, now.Add(-l.Window))
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("rate limit window read failed, allowing send",
				slog.String("chat_id", chatID),
				slog.Any("error", err))
		}
		return Decision{Allowed: true}
	}
	if len(times) < l.Limit {
		return Decision{Allowed: true}
	}

	oldest := times[0]
	for _, ts := range times[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	retryAfter := oldest.Add(l.Window).Sub(now)
	if retryAfter < minRetryAfter {
		retryAfter = minRetryAfter
	}
	recordRateLimitHit()
	return Decision{Allowed: false, RetryAfter: retryAfter}
}
