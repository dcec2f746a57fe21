package dispatch

import (
	"context"
	"log/slog"
	"time"

	"resto-notify/internal/domain/entity"
)

// AuditRepo appends delivery and broadcast rows. The postgres
// delivery repo implements it.
type AuditRepo interface {
	SaveDelivery(ctx context.Context, rec *entity.DeliveryRecord) error
	SaveBroadcast(ctx context.Context, sum *entity.BroadcastSummary) error
}

// AuditLog is the fire-and-forget wrapper around the append-only
// audit tables. A notification that reached the user but could not be
// logged is a success, so write failures are logged and counted but
// never propagated to the caller.
type AuditLog struct {
	Repo   AuditRepo
	Logger *slog.Logger
}

// LogSend appends one delivery record. The write uses a detached
// context so a send that terminated on cancellation is still audited.
func (a *AuditLog) LogSend(ctx context.Context, rec entity.DeliveryRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.Repo.SaveDelivery(writeCtx, &rec); err != nil {
		a.Logger.Error("delivery log write failed",
			slog.String("chat_id", rec.ChatID),
			slog.String("category", rec.Category),
			slog.Bool("success", rec.Success),
			slog.Any("error", err))
		recordAuditWriteFailure("telegram_notifications")
	}
}

// LogBroadcast appends one broadcast summary.
func (a *AuditLog) LogBroadcast(ctx context.Context, sum entity.BroadcastSummary) {
	if sum.CreatedAt.IsZero() {
		sum.CreatedAt = time.Now().UTC()
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.Repo.SaveBroadcast(writeCtx, &sum); err != nil {
		a.Logger.Error("broadcast log write failed",
			slog.String("category", sum.Category),
			slog.Int("total_recipients", sum.TotalRecipients),
			slog.Any("error", err))
		recordAuditWriteFailure("telegram_broadcasts")
	}
}
