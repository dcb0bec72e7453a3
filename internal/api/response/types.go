package response

import (
	"time"

	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// Player is the public view of a player in API responses. Roles and the
// current question material never appear here; per-player state goes over
// the websocket instead.
type Player struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// Room is the public view of a room
type Room struct {
	Code         string    `json:"code"`
	Status       string    `json:"status"`
	CurrentRound int       `json:"current_round"`
	Players      []Player  `json:"players"`
	MinPlayers   int       `json:"min_players"`
	MaxPlayers   int       `json:"max_players"`
	WinThreshold int       `json:"win_threshold"`
	CreatedAt    time.Time `json:"created_at"`
}

// JoinRoom is returned when a player joins a room. The token authenticates
// the subsequent websocket connection.
type JoinRoom struct {
	Token    string `json:"token"`
	PlayerID int    `json:"player_id"`
	Room     Room   `json:"room"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// FromRoom converts a model room to its public response form
func FromRoom(room *model.Room) Room {
	players := make([]Player, 0, len(room.Players))
	for _, p := range room.PlayersInTurnOrder() {
		players = append(players, Player{
			ID:        int(p.ID),
			Name:      p.Name,
			Score:     p.Score,
			Connected: p.Connected,
		})
	}

	return Room{
		Code:         string(room.Code),
		Status:       string(room.Status),
		CurrentRound: room.CurrentRound,
		Players:      players,
		MinPlayers:   room.Config.MinPlayers,
		MaxPlayers:   room.Config.MaxPlayers,
		WinThreshold: room.Config.WinThreshold,
		CreatedAt:    room.CreatedAt,
	}
}
