package notification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"resto-notify/internal/handler/http/respond"
	"resto-notify/internal/usecase/dispatch"
)

type HistoryHandler struct{ Svc dispatch.History }

type historyItem struct {
	ID        int64          `json:"id"`
	ChatID    string         `json:"chat_id"`
	MessageID *int64         `json:"message_id,omitempty"`
	Category  string         `json:"category"`
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (h HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("chat_id is required"))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("limit must be an integer"))
			return
		}
		limit = parsed
	}

	records, err := h.Svc.Recent(r.Context(), chatID, limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyItem{
			ID:        rec.ID,
			ChatID:    rec.ChatID,
			MessageID: rec.MessageID,
			Category:  rec.Category,
			Success:   rec.Success,
			Data:      rec.Data,
			CreatedAt: rec.CreatedAt,
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"notifications": items})
}
