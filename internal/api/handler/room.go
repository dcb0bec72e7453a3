package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/yuvrajy/SomethingFishy/internal/api/apierr"
	"github.com/yuvrajy/SomethingFishy/internal/api/request"
	"github.com/yuvrajy/SomethingFishy/internal/api/response"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/room"
	"github.com/yuvrajy/SomethingFishy/internal/services/session"
)

const (
	maxNameLength = 24
	qrSize        = 256
)

// RoomHandler handles room lifecycle requests
type RoomHandler struct {
	controller     room.ControllerInterface
	sessionService session.ServiceInterface
	notifyJoined   func(r *http.Request, code model.RoomCode, player *model.Player)
}

// NewRoomHandler creates a new room handler. notifyJoined may be nil when
// no push transport is attached.
func NewRoomHandler(
	controller room.ControllerInterface,
	sessionService session.ServiceInterface,
	notifyJoined func(r *http.Request, code model.RoomCode, player *model.Player),
) *RoomHandler {
	return &RoomHandler{
		controller:     controller,
		sessionService: sessionService,
		notifyJoined:   notifyJoined,
	}
}

// Create handles POST /rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	created, err := h.controller.CreateRoom(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.FromRoom(created))
}

// Get handles GET /rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)

	current, err := h.controller.GetRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FromRoom(current))
}

// Join handles POST /rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}
	if len(name) > maxNameLength {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is too long"))
		return
	}

	player, err := h.controller.AddPlayer(r.Context(), code, name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	sess := h.sessionService.Create(code, player.ID)

	current, err := h.controller.GetRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if h.notifyJoined != nil {
		h.notifyJoined(r, code, player)
	}

	response.JSON(w, http.StatusCreated, response.JoinRoom{
		Token:    sess.Token,
		PlayerID: int(player.ID),
		Room:     response.FromRoom(current),
	})
}

// Results handles GET /rooms/{code}/results
func (h *RoomHandler) Results(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)

	final, err := h.controller.FinalResults(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, final)
}

// QR handles GET /rooms/{code}/qr: a PNG QR code pointing at the room's
// join page, for handing a phone the room without typing the code.
func (h *RoomHandler) QR(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)

	if _, err := h.controller.GetRoom(r.Context(), code); err != nil {
		apierr.WriteError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	joinURL := fmt.Sprintf("%s://%s/join/%s", scheme, r.Host, code)

	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func roomCode(r *http.Request) model.RoomCode {
	return model.RoomCode(strings.ToUpper(mux.Vars(r)["code"]))
}
