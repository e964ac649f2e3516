package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/notifications"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить Origin доменом фронтенда перед продом.
		return true
	},
}

type WebSocketHandler struct {
	hub *notifications.Hub
}

func NewWebSocketHandler(hub *notifications.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs поднимает WebSocket-соединение для событий пользователя.
// Клиент подключается к /ws/usuarios/{usuarioID}; подключаться можно только
// к собственной комнате.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "usuarioID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "usuarioID is required")
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if callerID != userID {
		writeError(w, http.StatusForbidden, "cannot subscribe to another user's events")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту HTTP-ошибкой.
		slog.Error("failed to upgrade websocket connection",
			slog.String("user_id", userID), slog.Any("error", err))
		return
	}

	client := &notifications.Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
