package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/clock"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/room"
	"github.com/yuvrajy/SomethingFishy/internal/services/view"
)

// Hub routes game intents from connected clients into the room controller
// and pushes state back out. Because the question/answer split is
// per-player, the hub never broadcasts a raw room: every push is projected
// through the view service individually for each recipient.
type Hub struct {
	controller  room.ControllerInterface
	viewService view.ServiceInterface
	clock       clock.Clock
	logger      *slog.Logger

	mu    sync.RWMutex
	rooms map[model.RoomCode]map[model.PlayerID]*Client
}

// NewHub creates a new Hub
func NewHub(
	controller room.ControllerInterface,
	viewService view.ServiceInterface,
	clock clock.Clock,
	logger *slog.Logger,
) *Hub {
	return &Hub{
		controller:  controller,
		viewService: viewService,
		clock:       clock,
		logger:      logger,
		rooms:       make(map[model.RoomCode]map[model.PlayerID]*Client),
	}
}

// Register attaches a client to its room, replacing any previous connection
// for the same seat.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	clients, ok := h.rooms[client.roomCode]
	if !ok {
		clients = make(map[model.PlayerID]*Client)
		h.rooms[client.roomCode] = clients
	}
	previous := clients[client.playerID]
	clients[client.playerID] = client
	h.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
}

// Unregister detaches a client. A seat that has since been taken over by a
// newer connection is left alone.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if clients, ok := h.rooms[client.roomCode]; ok {
		if clients[client.playerID] == client {
			delete(clients, client.playerID)
			if len(clients) == 0 {
				delete(h.rooms, client.roomCode)
			}
		}
	}
	h.mu.Unlock()
}

// HandleConnect marks the player connected and pushes fresh state to the
// whole room.
func (h *Hub) HandleConnect(ctx context.Context, client *Client) {
	if err := h.controller.SetConnected(ctx, client.roomCode, client.playerID, true); err != nil {
		h.sendError(client, err)
		return
	}

	snapshot, err := h.projectFor(ctx, client.roomCode, client.playerID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	client.Send(h.newMessage(MsgConnected, snapshot))

	h.broadcastEvent(client.roomCode, MsgPlayerReconnected, &PlayerEventPayload{
		PlayerID: int(client.playerID),
		Name:     snapshot.Players[client.playerID].Name,
	})
	h.BroadcastSnapshots(ctx, client.roomCode)
}

// HandleDisconnect runs when a client's socket drops. Players in a waiting
// room leave outright; mid-game they keep their seat and are only flagged
// disconnected so rotation and scoring carry on.
func (h *Hub) HandleDisconnect(ctx context.Context, client *Client) {
	h.Unregister(client)

	current, err := h.controller.GetRoom(ctx, client.roomCode)
	if err != nil {
		// Room already gone
		return
	}

	player := current.GetPlayer(client.playerID)
	if player == nil {
		return
	}
	name := player.Name

	if current.Status == model.RoomStatusWaiting {
		if err := h.controller.RemovePlayer(ctx, client.roomCode, client.playerID); err != nil {
			h.logger.Error("failed to remove player on disconnect",
				slog.String("room_code", string(client.roomCode)),
				slog.Int("player_id", int(client.playerID)),
				slog.String("error", err.Error()),
			)
			return
		}
		h.broadcastEvent(client.roomCode, MsgPlayerLeft, &PlayerEventPayload{
			PlayerID: int(client.playerID),
			Name:     name,
		})
	} else {
		if err := h.controller.SetConnected(ctx, client.roomCode, client.playerID, false); err != nil {
			return
		}
		h.broadcastEvent(client.roomCode, MsgPlayerDisconnected, &PlayerEventPayload{
			PlayerID: int(client.playerID),
			Name:     name,
		})
	}

	h.BroadcastSnapshots(ctx, client.roomCode)
}

// HandleStartGame processes a start_game intent
func (h *Hub) HandleStartGame(ctx context.Context, client *Client) {
	if _, err := h.controller.StartGame(ctx, client.roomCode); err != nil {
		h.sendError(client, err)
		return
	}

	h.broadcastEvent(client.roomCode, MsgGameStarted, nil)
	h.BroadcastSnapshots(ctx, client.roomCode)
}

// HandleGuess processes a make_guess intent. The guess outcome is public
// and broadcast as-is; when a round or the game ends, the follow-up state
// push is delayed by the round gap so clients can show the reveal first.
func (h *Hub) HandleGuess(ctx context.Context, client *Client, targetID model.PlayerID) {
	result, err := h.controller.ProcessGuess(ctx, client.roomCode, client.playerID, targetID)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.broadcastEvent(client.roomCode, MsgGuessResult, result)

	code := client.roomCode
	switch {
	case result.GameOver:
		h.afterRoundGap(ctx, code, func(ctx context.Context) {
			final, err := h.controller.FinalResults(ctx, code)
			if err != nil {
				h.logger.Error("failed to compute final results",
					slog.String("room_code", string(code)),
					slog.String("error", err.Error()),
				)
				return
			}
			h.broadcastEvent(code, MsgGameOver, final)
			h.BroadcastSnapshots(ctx, code)
		})
	case result.RoundEnded:
		h.afterRoundGap(ctx, code, func(ctx context.Context) {
			h.BroadcastSnapshots(ctx, code)
		})
	default:
		h.BroadcastSnapshots(ctx, code)
	}
}

// HandleSkipQuestion processes a skip_question intent
func (h *Hub) HandleSkipQuestion(ctx context.Context, client *Client) {
	if _, err := h.controller.SkipQuestion(ctx, client.roomCode); err != nil {
		h.sendError(client, err)
		return
	}
	h.BroadcastSnapshots(ctx, client.roomCode)
}

// NotifyPlayerJoined pushes a join event and fresh snapshots. Called from
// the HTTP join handler, which is where players actually enter a room.
func (h *Hub) NotifyPlayerJoined(ctx context.Context, code model.RoomCode, player *model.Player) {
	h.broadcastEvent(code, MsgPlayerJoined, &PlayerEventPayload{
		PlayerID: int(player.ID),
		Name:     player.Name,
	})
	h.BroadcastSnapshots(ctx, code)
}

// BroadcastSnapshots pushes each connected client its own projected view
func (h *Hub) BroadcastSnapshots(ctx context.Context, code model.RoomCode) {
	current, err := h.controller.GetRoom(ctx, code)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[code]))
	for _, c := range h.rooms[code] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		snapshot, err := h.viewService.ProjectFor(current, c.playerID)
		if err != nil {
			// Player has since left; their socket will close on its own
			continue
		}
		c.Send(h.newMessage(MsgSnapshot, snapshot))
	}
}

// afterRoundGap schedules fn to run once the configured round gap for the
// room has elapsed. The gap exists purely for presentation pacing, so a
// wall-clock timer is fine here.
func (h *Hub) afterRoundGap(ctx context.Context, code model.RoomCode, fn func(context.Context)) {
	gap := model.DefaultRoundGap
	if current, err := h.controller.GetRoom(ctx, code); err == nil {
		gap = current.Config.RoundGap
	}

	time.AfterFunc(gap, func() {
		fn(context.Background())
	})
}

func (h *Hub) broadcastEvent(code model.RoomCode, msgType MessageType, payload interface{}) {
	msg := h.newMessage(msgType, payload)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[code] {
		c.Send(msg)
	}
}

func (h *Hub) projectFor(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*view.Snapshot, error) {
	current, err := h.controller.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return h.viewService.ProjectFor(current, playerID)
}

func (h *Hub) newMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return NewServerMessage(msgType, payload, h.clock.Now())
}

// sendError maps domain errors to wire error codes
func (h *Hub) sendError(client *Client, err error) {
	code := ErrCodeInternalError
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		code = ErrCodeRoomNotFound
	case errors.Is(err, model.ErrGameNotStarted):
		code = ErrCodeGameNotStarted
	case errors.Is(err, model.ErrGameFinished):
		code = ErrCodeGameFinished
	case errors.Is(err, model.ErrRoomNotWaiting):
		code = ErrCodeGameInProgress
	case errors.Is(err, model.ErrInsufficientPlayers):
		code = ErrCodeNotEnoughPlayers
	case errors.Is(err, model.ErrNotYourTurn):
		code = ErrCodeNotYourTurn
	case errors.Is(err, model.ErrInvalidTarget), errors.Is(err, model.ErrPlayerNotFound):
		code = ErrCodeInvalidTarget
	case errors.Is(err, model.ErrAlreadyGuessed):
		code = ErrCodeAlreadyGuessed
	}

	client.Send(h.newMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: err.Error(),
	}))
}
