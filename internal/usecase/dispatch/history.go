package dispatch

import (
	"context"

	"resto-notify/internal/domain/entity"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryRepo reads recent delivery records for one destination.
type HistoryRepo interface {
	RecentByChat(ctx context.Context, chatID string, limit int) ([]entity.DeliveryRecord, error)
}

// History serves the delivery-history lookup behind the trigger API.
type History struct {
	Repo HistoryRepo
}

// Recent returns the newest delivery records for a chat, newest
// first. Non-positive limits default to 20, capped at 100.
func (h History) Recent(ctx context.Context, chatID string, limit int) ([]entity.DeliveryRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return h.Repo.RecentByChat(ctx, chatID, limit)
}
