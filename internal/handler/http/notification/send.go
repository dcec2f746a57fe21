package notification

import (
	"encoding/json"
	"errors"
	"net/http"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/handler/http/respond"
)

type SendHandler struct{ Svc Sender }

func (h SendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID string `json:"chat_id"`
		Kind   string `json:"kind,omitempty"`
		messageRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	dest := entity.Destination{ChatID: req.ChatID, Kind: entity.DestinationKind(req.Kind)}
	if err := dest.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	msg, err := req.toMessage()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.Svc.Send(r.Context(), dest.ChatID, msg, req.category(), req.Data)
	respond.JSON(w, http.StatusOK, result)
}
