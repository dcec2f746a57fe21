package entity

import (
	"fmt"
	"unicode/utf8"
)

// ParseMode controls how Telegram renders the message text.
type ParseMode string

const (
	ModePlain    ParseMode = "plain"
	ModeMarkdown ParseMode = "markdown"
	ModeHTML     ParseMode = "html"
)

// MaxTextLength is the Telegram Bot API limit for message text.
const MaxTextLength = 4096

// Button is a single inline keyboard button. Exactly one of URL or
// CallbackData should be set.
type Button struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

// Message is an outbound notification message. Buttons is a row-major
// inline keyboard layout; an empty slice means no keyboard.
type Message struct {
	Text    string
	Mode    ParseMode
	Buttons [][]Button
}

// ParseParseMode maps an external string to a ParseMode.
// The empty string defaults to plain text.
func ParseParseMode(s string) (ParseMode, error) {
	switch s {
	case "", string(ModePlain):
		return ModePlain, nil
	case string(ModeMarkdown):
		return ModeMarkdown, nil
	case string(ModeHTML):
		return ModeHTML, nil
	default:
		return "", fmt.Errorf("invalid parse_mode: %s (must be plain, markdown, or html)", s)
	}
}

// Validate validates the Message entity fields.
func (m *Message) Validate() error {
	if m.Text == "" {
		return &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(m.Text) > MaxTextLength {
		return &ValidationError{Field: "text", Message: fmt.Sprintf("must be at most %d characters", MaxTextLength)}
	}
	if m.Mode == "" {
		m.Mode = ModePlain
	}
	switch m.Mode {
	case ModePlain, ModeMarkdown, ModeHTML:
	default:
		return fmt.Errorf("invalid parse mode: %s", m.Mode)
	}
	for _, row := range m.Buttons {
		for _, b := range row {
			if b.Text == "" {
				return &ValidationError{Field: "buttons", Message: "button text must not be empty"}
			}
		}
	}
	return nil
}
