package dispatch

import (
	"testing"
	"time"
)

func TestBackoffConfig_RetryDelay(t *testing.T) {
	b := DefaultBackoff()

	tests := []struct {
		name         string
		retryCount   int
		providerHint time.Duration
		want         time.Duration
	}{
		{"first retry", 0, 0, 1 * time.Second},
		{"second retry doubles", 1, 0, 2 * time.Second},
		{"third retry doubles again", 2, 0, 4 * time.Second},
		{"growth is capped", 10, 0, 30 * time.Second},
		{"provider hint wins", 2, 5 * time.Second, 5 * time.Second},
		{"provider hint wins even over the cap", 0, 45 * time.Second, 45 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.RetryDelay(tt.retryCount, tt.providerHint); got != tt.want {
				t.Errorf("RetryDelay(%d, %v) = %v, want %v", tt.retryCount, tt.providerHint, got, tt.want)
			}
		})
	}
}
