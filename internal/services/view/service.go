package view

import (
	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// PlayerView is a single player's entry in a projected snapshot. Role is
// populated only on the requesting player's own entry; no projection ever
// reveals another player's role.
type PlayerView struct {
	ID             model.PlayerID `json:"id"`
	Name           string         `json:"name"`
	Score          int            `json:"score"`
	HasBeenGuessed bool           `json:"has_been_guessed"`
	Connected      bool           `json:"connected"`
	Role           model.Role     `json:"role,omitempty"`
}

// Snapshot is the asymmetric-information state payload delivered to one
// player. Question is present only for the guesser; Answer only for
// everyone else (liars must know the truth to lie convincingly). At most
// one of the two is ever set.
type Snapshot struct {
	RoomCode     model.RoomCode                `json:"room_code"`
	Status       model.RoomStatus              `json:"status"`
	CurrentRound int                           `json:"current_round"`
	PlayerID     model.PlayerID                `json:"player_id"`
	Question     string                        `json:"question,omitempty"`
	Answer       string                        `json:"answer,omitempty"`
	Players      map[model.PlayerID]PlayerView `json:"players"`
	Scores       map[model.PlayerID]int        `json:"scores"`
	Guessed      []model.PlayerID              `json:"guessed_this_round"`
}

// Service derives per-player filtered snapshots of room state
type Service struct{}

// New creates a new view service
func New() *Service {
	return &Service{}
}

// ProjectFor builds the snapshot visible to the given player. The raw
// question and answer are stripped unconditionally and re-added only for
// the side entitled to them.
func (s *Service) ProjectFor(room *model.Room, playerID model.PlayerID) (*Snapshot, error) {
	requester := room.GetPlayer(playerID)
	if requester == nil {
		return nil, model.ErrPlayerNotFound
	}

	snapshot := &Snapshot{
		RoomCode:     room.Code,
		Status:       room.Status,
		CurrentRound: room.CurrentRound,
		PlayerID:     playerID,
		Players:      make(map[model.PlayerID]PlayerView, len(room.Players)),
		Scores:       make(map[model.PlayerID]int, len(room.Scores)),
		Guessed:      append([]model.PlayerID{}, room.GuessedThisRound...),
	}

	if room.Status == model.RoomStatusPlaying {
		if requester.IsGuesser() {
			snapshot.Question = room.CurrentQuestion
		} else {
			snapshot.Answer = room.CurrentAnswer
		}
	}

	for id, p := range room.Players {
		pv := PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			Score:          p.Score,
			HasBeenGuessed: p.HasBeenGuessed,
			Connected:      p.Connected,
		}
		if id == playerID {
			pv.Role = p.Role
		}
		snapshot.Players[id] = pv
	}

	for id, score := range room.Scores {
		snapshot.Scores[id] = score
	}

	return snapshot, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	ProjectFor(room *model.Room, playerID model.PlayerID) (*Snapshot, error)
}

var _ ServiceInterface = (*Service)(nil)
