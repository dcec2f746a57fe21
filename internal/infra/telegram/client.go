package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"resto-notify/internal/domain/entity"
)

const (
	defaultTimeout = 10 * time.Second

	// Telegram allows roughly 30 messages per second across all chats.
	// The aggregate limiter keeps bursts under that ceiling; the
	// per-destination window limit is enforced one layer up.
	apiRequestsPerSecond = 30
	apiBurst             = 5
)

// APIError is a non-ok response from the Bot API. Code carries the
// error_code field (which mirrors the HTTP status), Description the
// human-readable reason, and RetryAfter the provider's backoff hint
// for 429 responses (zero when absent).
type APIError struct {
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

// ChatMember is the subset of the getChatMember result the suite uses.
type ChatMember struct {
	Status string `json:"status"`
	User   struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	} `json:"user"`
}

// apiResponse is the Bot API envelope shared by every method.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// Client is an HTTP client for the Telegram Bot API. Every call is
// gated by an aggregate token-bucket limiter and a circuit breaker
// that only counts transport failures and 5xx responses.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// New creates a Client from the given configuration.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(apiRequestsPerSecond), apiBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "telegram-api",
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// API-level rejections (blocked chat, bad request) are
			// healthy responses from the provider's point of view.
			// Only transport errors and 5xx should open the breaker.
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					return apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests
				}
				return false
			},
		}),
	}
}

// Configured reports whether the client can actually send messages.
func (c *Client) Configured() bool {
	return c.cfg.Enabled && c.cfg.Token != ""
}

type inlineButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

// messageResult is the part of the sendMessage result we care about.
type messageResult struct {
	MessageID int64 `json:"message_id"`
}

// parseModeParam maps the domain parse mode to the Bot API value.
// Plain text maps to the empty string, which omits the field.
func parseModeParam(mode string) string {
	switch mode {
	case "markdown":
		return "Markdown"
	case "html":
		return "HTML"
	default:
		return ""
	}
}

func buildReplyMarkup(buttons [][]entity.Button) *replyMarkup {
	rows := make([][]inlineButton, 0, len(buttons))
	for _, row := range buttons {
		out := make([]inlineButton, 0, len(row))
		for _, b := range row {
			out = append(out, inlineButton{Text: b.Text, URL: b.URL, CallbackData: b.CallbackData})
		}
		rows = append(rows, out)
	}
	return &replyMarkup{InlineKeyboard: rows}
}

// SendMessage delivers a text message to a chat and returns the
// provider-assigned message ID.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - chatID: Target chat identifier (user ID or negative group ID)
//   - msg: Validated message with text, parse mode, and optional keyboard
//
// Returns:
//   - int64: The Telegram message ID on success
//   - error: *APIError for non-ok responses, transport error otherwise
func (c *Client) SendMessage(ctx context.Context, chatID string, msg entity.Message) (int64, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    msg.Text,
	}
	if pm := parseModeParam(string(msg.Mode)); pm != "" {
		payload["parse_mode"] = pm
	}
	if len(msg.Buttons) > 0 {
		payload["reply_markup"] = buildReplyMarkup(msg.Buttons)
	}
	var result messageResult
	if err := c.call(ctx, "sendMessage", payload, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

// SendPhoto delivers a photo by URL with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, chatID, photoURL, caption, mode string) (int64, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
	}
	if caption != "" {
		payload["caption"] = caption
	}
	if pm := parseModeParam(mode); pm != "" {
		payload["parse_mode"] = pm
	}
	var result messageResult
	if err := c.call(ctx, "sendPhoto", payload, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

// SendDocument delivers a document by URL with an optional caption.
func (c *Client) SendDocument(ctx context.Context, chatID, documentURL, caption string) (int64, error) {
	payload := map[string]any{
		"chat_id":  chatID,
		"document": documentURL,
	}
	if caption != "" {
		payload["caption"] = caption
	}
	var result messageResult
	if err := c.call(ctx, "sendDocument", payload, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

// DeleteMessage removes a previously sent message from a chat.
func (c *Client) DeleteMessage(ctx context.Context, chatID string, messageID int64) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}
	return c.call(ctx, "deleteMessage", payload, nil)
}

// GetChatMember looks up a user's membership status in a chat. The
// suite uses it to verify a bot is still present in a group before
// broadcasting.
func (c *Client) GetChatMember(ctx context.Context, chatID string, userID int64) (*ChatMember, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"user_id": userID,
	}
	var member ChatMember
	if err := c.call(ctx, "getChatMember", payload, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// call posts one Bot API method through the limiter and breaker and
// decodes the result into out (which may be nil).
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	if !c.Configured() {
		return errors.New("telegram: client not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram: limiter wait: %w", err)
	}

	raw, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, method, payload)
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw.(json.RawMessage), out); err != nil {
		return fmt.Errorf("telegram: decode %s result: %w", method, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telegram: encode %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.cfg.BaseURL, c.cfg.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("telegram: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: %s request: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("telegram: read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		// 5xxでHTMLエラーページが返ることがあるためステータスで判定
		if resp.StatusCode >= 500 {
			return nil, &APIError{Code: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("telegram: decode %s response: %w", method, err)
	}
	if !envelope.OK {
		apiErr := &APIError{
			Code:        envelope.ErrorCode,
			Description: envelope.Description,
		}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		if envelope.Parameters != nil && envelope.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(envelope.Parameters.RetryAfter) * time.Second
		}
		return nil, apiErr
	}
	return envelope.Result, nil
}
