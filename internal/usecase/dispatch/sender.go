package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/infra/telegram"
)

// defaultMaxRetries bounds the retry loop for retryable failures.
const defaultMaxRetries = 3

// MessageAPI is the provider surface the sender needs. Implemented by
// telegram.Client.
type MessageAPI interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID string, msg entity.Message) (int64, error)
}

// SendResult is the terminal outcome of one send request.
type SendResult struct {
	Success          bool               `json:"success"`
	MessageID        int64              `json:"message_id,omitempty"`
	RetryCount       int                `json:"retry_count"`
	ErrorType        telegram.ErrorType `json:"error_type,omitempty"`
	Error            string             `json:"error,omitempty"`
	RetryRecommended bool               `json:"retry_recommended"`
}

// Sender delivers a message to a single destination with bounded
// retries. The per-destination window limit is checked before every
// attempt; waiting for the window does not consume retries. Exactly
// one DeliveryRecord is written per terminal outcome, except when the
// bot is not configured at all, which short-circuits before any
// network or audit activity.
type Sender struct {
	API        MessageAPI
	Limiter    *WindowLimiter
	Audit      *AuditLog
	Backoff    BackoffConfig
	MaxRetries int
	Logger     *slog.Logger
}

// NewSender wires a Sender with the default retry schedule.
func NewSender(api MessageAPI, limiter *WindowLimiter, audit *AuditLog, logger *slog.Logger) *Sender {
	return &Sender{
		API:        api,
		Limiter:    limiter,
		Audit:      audit,
		Backoff:    DefaultBackoff(),
		MaxRetries: defaultMaxRetries,
		Logger:     logger,
	}
}

func (s *Sender) maxRetries() int {
	if s.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return s.MaxRetries
}

// Send delivers msg to chatID and returns the terminal outcome. It
// never returns an error; every failure mode is folded into the
// result so batch callers can aggregate without special cases.
func (s *Sender) Send(ctx context.Context, chatID string, msg entity.Message, category string, data map[string]any) SendResult {
	requestID := uuid.New().String()
	log := s.Logger.With(
		slog.String("send_request_id", requestID),
		slog.String("chat_id", chatID),
		slog.String("category", category),
	)

	if !s.API.Configured() {
		log.Warn("telegram bot not configured, skipping send")
		return SendResult{
			Success: false,
			Error:   "Telegram bot not configured",
		}
	}

	retryCount := 0
	for {
		if decision := s.Limiter.Check(ctx, chatID); !decision.Allowed {
			log.Info("per-destination window full, waiting",
				slog.Duration("retry_after", decision.RetryAfter),
				slog.Int("retry_count", retryCount))
			recordRateLimitWait(decision.RetryAfter)
			if err := sleep(ctx, decision.RetryAfter); err != nil {
				return s.terminate(ctx, log, chatID, category, data, retryCount, telegram.Classification{
					Type:    telegram.ErrTypeUnknown,
					Message: "send canceled: " + err.Error(),
				})
			}
			// レート制限待ちはリトライ回数を消費しない
			continue
		}

		messageID, err := s.API.SendMessage(ctx, chatID, msg)
		if err == nil {
			log.Info("notification sent",
				slog.Int64("message_id", messageID),
				slog.Int("retry_count", retryCount))
			s.Audit.LogSend(ctx, entity.DeliveryRecord{
				ChatID:    chatID,
				MessageID: &messageID,
				Category:  category,
				Success:   true,
				Data:      data,
			})
			recordSendOutcome("success")
			return SendResult{
				Success:    true,
				MessageID:  messageID,
				RetryCount: retryCount,
			}
		}

		class := telegram.Classify(err)
		if !class.Retryable || retryCount >= s.maxRetries() {
			return s.terminate(ctx, log, chatID, category, data, retryCount, class)
		}

		delay := s.Backoff.RetryDelay(retryCount, class.RetryAfter)
		log.Warn("send failed, retrying",
			slog.String("error_type", string(class.Type)),
			slog.String("error", class.Message),
			slog.Int("retry_count", retryCount),
			slog.Duration("delay", delay))
		recordRetry()
		if err := sleep(ctx, delay); err != nil {
			return s.terminate(ctx, log, chatID, category, data, retryCount, telegram.Classification{
				Type:    telegram.ErrTypeUnknown,
				Message: "send canceled: " + err.Error(),
			})
		}
		retryCount++
	}
}

// terminate records the terminal failure and builds its result.
// RetryRecommended tells the caller whether trying again later could
// help; exhausted transient failures say yes, classified permanent
// failures say no.
func (s *Sender) terminate(ctx context.Context, log *slog.Logger, chatID, category string, data map[string]any, retryCount int, class telegram.Classification) SendResult {
	log.Error("notification failed",
		slog.String("error_type", string(class.Type)),
		slog.String("error", class.Message),
		slog.Int("retry_count", retryCount))

	failData := make(map[string]any, len(data)+3)
	for k, v := range data {
		failData[k] = v
	}
	failData["error"] = class.Message
	failData["error_type"] = string(class.Type)
	failData["retry_count"] = retryCount

	s.Audit.LogSend(ctx, entity.DeliveryRecord{
		ChatID:   chatID,
		Category: category,
		Success:  false,
		Data:     failData,
	})
	recordSendOutcome(string(class.Type))

	return SendResult{
		Success:          false,
		RetryCount:       retryCount,
		ErrorType:        class.Type,
		Error:            class.Message,
		RetryRecommended: class.Retryable,
	}
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
