package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/repository"
)

type DeliveryRepo struct{ db *sql.DB }

func NewDeliveryRepo(db *sql.DB) repository.DeliveryRepository {
	return &DeliveryRepo{db: db}
}

// marshalData encodes the free-form payload column. A nil map becomes
// an untyped nil so the driver writes a NULL jsonb value rather than
// an empty byte slice.
func marshalData(data map[string]any) (any, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}

func (repo *DeliveryRepo) SaveDelivery(ctx context.Context, rec *entity.DeliveryRecord) error {
	const query = `
INSERT INTO telegram_notifications (chat_id, message_id, notification_type, success, data, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	dataJSON, err := marshalData(rec.Data)
	if err != nil {
		return fmt.Errorf("SaveDelivery: marshal data: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err = repo.db.QueryRowContext(ctx, query,
		rec.ChatID, rec.MessageID, rec.Category, rec.Success, dataJSON, createdAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("SaveDelivery: %w", err)
	}
	rec.CreatedAt = createdAt
	return nil
}

func (repo *DeliveryRepo) SaveBroadcast(ctx context.Context, sum *entity.BroadcastSummary) error {
	const query = `
INSERT INTO telegram_broadcasts (notification_type, total_recipients, successful_sends, failed_sends, success_rate, data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	dataJSON, err := marshalData(sum.Data)
	if err != nil {
		return fmt.Errorf("SaveBroadcast: marshal data: %w", err)
	}
	createdAt := sum.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err = repo.db.QueryRowContext(ctx, query,
		sum.Category, sum.TotalRecipients, sum.SuccessfulSends, sum.FailedSends,
		sum.SuccessRate, dataJSON, createdAt,
	).Scan(&sum.ID)
	if err != nil {
		return fmt.Errorf("SaveBroadcast: %w", err)
	}
	sum.CreatedAt = createdAt
	return nil
}

func (repo *DeliveryRepo) SuccessTimesSince(ctx context.Context, chatID string, since time.Time) ([]time.Time, error) {
	const query = `
SELECT created_at
FROM telegram_notifications
WHERE chat_id = $1 AND success = TRUE AND created_at >= $2
ORDER BY created_at ASC`
	rows, err := repo.db.QueryContext(ctx, query, chatID, since)
	if err != nil {
		return nil, fmt.Errorf("SuccessTimesSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// 窓あたりの件数はレート上限程度なので小さく事前割り当て
	times := make([]time.Time, 0, 32)
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("SuccessTimesSince: %w", err)
		}
		times = append(times, ts)
	}
	return times, rows.Err()
}

func (repo *DeliveryRepo) RecentByChat(ctx context.Context, chatID string, limit int) ([]entity.DeliveryRecord, error) {
	const query = `
SELECT id, chat_id, message_id, notification_type, success, data, created_at
FROM telegram_notifications
WHERE chat_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentByChat: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]entity.DeliveryRecord, 0, limit)
	for rows.Next() {
		var rec entity.DeliveryRecord
		var dataJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.ChatID, &rec.MessageID, &rec.Category, &rec.Success,
			&dataJSON, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("RecentByChat: %w", err)
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
				return nil, fmt.Errorf("RecentByChat: unmarshal data: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
