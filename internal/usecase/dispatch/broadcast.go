package dispatch

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/infra/telegram"
)

const (
	// defaultBatchSize is how many destinations are sent concurrently.
	defaultBatchSize = 5
	// defaultBatchInterval is the pause between batches, keeping the
	// aggregate send rate under the provider ceiling.
	defaultBatchInterval = 200 * time.Millisecond
)

// FailedSend describes one destination that did not receive the
// broadcast.
type FailedSend struct {
	ChatID    string             `json:"chat_id"`
	ErrorType telegram.ErrorType `json:"error_type,omitempty"`
	Error     string             `json:"error"`
}

// BroadcastResult aggregates per-destination outcomes of a broadcast.
type BroadcastResult struct {
	Category        string       `json:"category"`
	TotalRecipients int          `json:"total_recipients"`
	Successful      []string     `json:"successful_sends"`
	Failed          []FailedSend `json:"failed_sends"`
	SuccessRate     int          `json:"success_rate"`
}

// Broadcaster fans one message out to many destinations in fixed-size
// concurrent batches. Individual failures never abort the run; every
// destination gets its attempt and the summary reports the split.
type Broadcaster struct {
	Sender        *Sender
	Audit         *AuditLog
	BatchSize     int
	BatchInterval time.Duration
	Logger        *slog.Logger
}

// NewBroadcaster wires a Broadcaster with the default batch shape.
func NewBroadcaster(sender *Sender, audit *AuditLog, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		Sender:        sender,
		Audit:         audit,
		BatchSize:     defaultBatchSize,
		BatchInterval: defaultBatchInterval,
		Logger:        logger,
	}
}

func (b *Broadcaster) batchSize() int {
	if b.BatchSize <= 0 {
		return defaultBatchSize
	}
	return b.BatchSize
}

// Broadcast sends msg to every chat ID and returns the aggregate
// outcome. Exactly one BroadcastSummary is appended to the audit log,
// including for an empty destination list.
func (b *Broadcaster) Broadcast(ctx context.Context, chatIDs []string, msg entity.Message, category string, data map[string]any) BroadcastResult {
	start := time.Now()
	log := b.Logger.With(
		slog.String("category", category),
		slog.Int("total_recipients", len(chatIDs)),
	)
	log.Info("broadcast started")

	result := BroadcastResult{
		Category:        category,
		TotalRecipients: len(chatIDs),
		Successful:      make([]string, 0, len(chatIDs)),
		Failed:          make([]FailedSend, 0),
	}

	size := b.batchSize()
	for startIdx := 0; startIdx < len(chatIDs); startIdx += size {
		if startIdx > 0 {
			// バッチ間ペーシング。キャンセルされても残りの宛先は
			// 試行し、各送信が即座に失敗として集計される。
			_ = sleep(ctx, b.BatchInterval)
		}

		end := startIdx + size
		if end > len(chatIDs) {
			end = len(chatIDs)
		}
		batch := chatIDs[startIdx:end]
		outcomes := make([]SendResult, len(batch))

		g := new(errgroup.Group)
		for i, chatID := range batch {
			g.Go(func() error {
				outcomes[i] = b.Sender.Send(ctx, chatID, msg, category, data)
				return nil
			})
		}
		_ = g.Wait()

		for i, chatID := range batch {
			if outcomes[i].Success {
				result.Successful = append(result.Successful, chatID)
			} else {
				result.Failed = append(result.Failed, FailedSend{
					ChatID:    chatID,
					ErrorType: outcomes[i].ErrorType,
					Error:     outcomes[i].Error,
				})
			}
		}
	}

	result.SuccessRate = successRate(len(result.Successful), result.TotalRecipients)

	b.Audit.LogBroadcast(ctx, entity.BroadcastSummary{
		Category:        category,
		TotalRecipients: result.TotalRecipients,
		SuccessfulSends: len(result.Successful),
		FailedSends:     len(result.Failed),
		SuccessRate:     result.SuccessRate,
		Data:            data,
	})
	recordBroadcast(time.Since(start))

	log.Info("broadcast finished",
		slog.Int("successful", len(result.Successful)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("success_rate", result.SuccessRate),
		slog.Duration("duration", time.Since(start)))
	return result
}

// successRate is the rounded percentage of successful sends, zero for
// an empty broadcast.
func successRate(successful, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(successful) / float64(total) * 100))
}
