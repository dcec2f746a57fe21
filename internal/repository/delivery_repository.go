package repository

import (
	"context"
	"time"

	"resto-notify/internal/domain/entity"
)

// DeliveryRepository persists the append-only notification audit log.
// It satisfies the narrower read and write interfaces declared by the
// dispatch use case.
type DeliveryRepository interface {
	SaveDelivery(ctx context.Context, rec *entity.DeliveryRecord) error
	SaveBroadcast(ctx context.Context, sum *entity.BroadcastSummary) error
	SuccessTimesSince(ctx context.Context, chatID string, since time.Time) ([]time.Time, error)
	RecentByChat(ctx context.Context, chatID string, limit int) ([]entity.DeliveryRecord, error)
}
