package notification

import (
	"encoding/json"
	"errors"
	"net/http"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/handler/http/respond"
)

// maxBroadcastRecipients bounds one broadcast request. The suite's
// biggest fan-out is every employee of one restaurant.
const maxBroadcastRecipients = 500

type BroadcastHandler struct{ Svc Broadcaster }

func (h BroadcastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatIDs []string `json:"chat_ids"`
		messageRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if len(req.ChatIDs) == 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("chat_ids is required"))
		return
	}
	if len(req.ChatIDs) > maxBroadcastRecipients {
		respond.SafeError(w, http.StatusBadRequest, errors.New("chat_ids must not exceed 500 recipients"))
		return
	}
	for _, chatID := range req.ChatIDs {
		dest := entity.Destination{ChatID: chatID}
		if err := dest.Validate(); err != nil {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
	}
	msg, err := req.toMessage()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.Svc.Broadcast(r.Context(), req.ChatIDs, msg, req.category(), req.Data)
	respond.JSON(w, http.StatusOK, result)
}
