package entity

import "fmt"

// DestinationKind classifies who is behind a Telegram chat.
type DestinationKind string

const (
	KindEmployee DestinationKind = "employee"
	KindOwner    DestinationKind = "owner"
	KindGroup    DestinationKind = "group"
)

// Destination is a Telegram chat that can receive notifications.
// ChatID is the Telegram chat identifier as a string (group chats are
// negative numbers, so the value is kept opaque).
type Destination struct {
	ChatID string
	Label  string
	Kind   DestinationKind
}

// Validate validates the Destination entity fields.
func (d *Destination) Validate() error {
	if d.ChatID == "" {
		return &ValidationError{Field: "chat_id", Message: "must not be empty"}
	}
	// Kindが空の場合はemployeeとみなす(後方互換性)
	if d.Kind == "" {
		d.Kind = KindEmployee
	}
	switch d.Kind {
	case KindEmployee, KindOwner, KindGroup:
		return nil
	default:
		return fmt.Errorf("invalid destination kind: %s (must be employee, owner, or group)", d.Kind)
	}
}
