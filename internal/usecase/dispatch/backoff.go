package dispatch

import "time"

// BackoffConfig controls the retry delay schedule for failed sends.
type BackoffConfig struct {
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
}

// DefaultBackoff returns the production schedule: 1s, 2s, 4s, capped
// at 30s.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// RetryDelay computes the wait before retry number retryCount (zero
// based). A provider hint always wins over the computed backoff; the
// hint is what a 429 retry_after carries.
func (b BackoffConfig) RetryDelay(retryCount int, providerHint time.Duration) time.Duration {
	if providerHint > 0 {
		return providerHint
	}
	delay := b.InitialDelay
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= b.MaxDelay {
			return b.MaxDelay
		}
	}
	if delay > b.MaxDelay {
		return b.MaxDelay
	}
	return delay
}
