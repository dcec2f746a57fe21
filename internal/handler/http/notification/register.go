package notification

import (
	"net/http"

	"resto-notify/internal/usecase/dispatch"
)

// Register wires the notification endpoints onto the mux. The auth
// middleware is applied one level up, across the whole private mux.
func Register(mux *http.ServeMux, sender Sender, broadcaster Broadcaster, history dispatch.History) {
	mux.Handle("POST /api/notifications/send", SendHandler{sender})
	mux.Handle("POST /api/notifications/broadcast", BroadcastHandler{broadcaster})
	mux.Handle("GET /api/notifications/history", HistoryHandler{history})
}
