package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yuvrajy/SomethingFishy/internal/api/handler"
	apimiddleware "github.com/yuvrajy/SomethingFishy/internal/api/middleware"
	"github.com/yuvrajy/SomethingFishy/internal/middleware"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/room"
	"github.com/yuvrajy/SomethingFishy/internal/services/session"
	"github.com/yuvrajy/SomethingFishy/internal/web/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController room.ControllerInterface
	SessionService session.ServiceInterface

	// Hub is the websocket push layer; nil disables the /ws endpoint
	// (useful in tests that only exercise the REST surface).
	Hub *ws.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	var notifyJoined func(req *http.Request, code model.RoomCode, player *model.Player)
	if cfg.Hub != nil {
		notifyJoined = func(req *http.Request, code model.RoomCode, player *model.Player) {
			cfg.Hub.NotifyPlayerJoined(req.Context(), code, player)
		}
	}

	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.SessionService, notifyJoined)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/results", roomHandler.Results).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/qr", roomHandler.QR).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The websocket endpoint sits outside the API subrouter: the logging
	// wrapper would get in the way of the connection hijack.
	if cfg.Hub != nil {
		wsHandler := ws.NewHandler(cfg.Hub, cfg.SessionService, cfg.Logger)
		r.Handle("/ws", wsHandler).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
