package notification

import (
	"context"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/usecase/dispatch"
)

// Sender is the single-destination dispatch surface the handlers use.
type Sender interface {
	Send(ctx context.Context, chatID string, msg entity.Message, category string, data map[string]any) dispatch.SendResult
}

// Broadcaster is the fan-out dispatch surface the handlers use.
type Broadcaster interface {
	Broadcast(ctx context.Context, chatIDs []string, msg entity.Message, category string, data map[string]any) dispatch.BroadcastResult
}

// messageRequest is the shared message portion of send and broadcast
// request bodies.
type messageRequest struct {
	Text      string            `json:"text"`
	ParseMode string            `json:"parse_mode"`
	Buttons   [][]entity.Button `json:"buttons"`
	Category  string            `json:"category"`
	Data      map[string]any    `json:"data"`
}

// toMessage validates and converts the request portion to a domain
// message.
func (r *messageRequest) toMessage() (entity.Message, error) {
	mode, err := entity.ParseParseMode(r.ParseMode)
	if err != nil {
		return entity.Message{}, err
	}
	msg := entity.Message{Text: r.Text, Mode: mode, Buttons: r.Buttons}
	if err := msg.Validate(); err != nil {
		return entity.Message{}, err
	}
	return msg, nil
}

// category falls back to manual for ad-hoc sends.
func (r *messageRequest) category() string {
	if r.Category == "" {
		return "manual"
	}
	return r.Category
}
