package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yuvrajy/SomethingFishy/internal/services/session"
)

// Handler upgrades HTTP requests to WebSocket connections. Connections
// authenticate with the session token issued when the player joined; the
// token pins the socket to one seat in one room.
type Handler struct {
	hub            *Hub
	sessionService session.ServiceInterface
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, sessionService session.ServiceInterface, logger *slog.Logger) *Handler {
	return &Handler{
		hub:            hub,
		sessionService: sessionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Game rooms are joined by shared code, not cookies, so
				// cross-origin upgrades carry no ambient credentials
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	sess, err := h.sessionService.Validate(token)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(conn, h.hub, sess.RoomCode, sess.PlayerID, h.logger)
	h.hub.Register(client)

	h.logger.Info("websocket connected",
		slog.String("room_code", string(sess.RoomCode)),
		slog.Int("player_id", int(sess.PlayerID)),
	)

	h.hub.HandleConnect(r.Context(), client)
	client.Run(r.Context())
}
