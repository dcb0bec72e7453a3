package model

import "time"

// RoomCode is the shareable identifier players use to join a room
type RoomCode string

// RoomStatus represents the lifecycle phase of a room
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"  // Players joining, game not started
	RoomStatusPlaying  RoomStatus = "playing"  // Rounds in progress
	RoomStatusFinished RoomStatus = "finished" // Terminal; a player reached the win threshold
)

const (
	// DefaultWinThreshold is the canonical score needed to end the game.
	// The single source of truth; RoomConfig carries it so deployments can
	// override, but no other literal exists.
	DefaultWinThreshold = 5

	// DefaultMinPlayers is the minimum room size to start a game. Role
	// assignment needs at least two non-guessers.
	DefaultMinPlayers = 3

	// DefaultMaxPlayers caps room size
	DefaultMaxPlayers = 10

	// DefaultRoundGap is the pause between round-end feedback and the next
	// round's state push, so client animations can finish.
	DefaultRoundGap = 1500 * time.Millisecond
)

// RoomConfig holds configurable settings for a room
type RoomConfig struct {
	MinPlayers   int
	MaxPlayers   int
	WinThreshold int
	RoundGap     time.Duration
}

// DefaultRoomConfig returns the default room configuration
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		MinPlayers:   DefaultMinPlayers,
		MaxPlayers:   DefaultMaxPlayers,
		WinThreshold: DefaultWinThreshold,
		RoundGap:     DefaultRoundGap,
	}
}

// Room holds all mutable state for a single match
type Room struct {
	Code   RoomCode
	Status RoomStatus
	Config RoomConfig

	Players map[PlayerID]*Player

	// TurnOrder is join order and defines guesser rotation. IDs of removed
	// players are dropped but never reassigned.
	TurnOrder    []PlayerID
	NextPlayerID PlayerID

	CurrentRound    int
	CurrentQuestion string
	CurrentAnswer   string

	// UsedQuestions tracks questions already served to this room, keyed by
	// question text. Cleared when the bank is exhausted.
	UsedQuestions map[string]bool

	// GuessedThisRound lists targets already named this round, in order
	GuessedThisRound []PlayerID

	// Scores is a snapshot refreshed after every guess and resolution
	Scores map[PlayerID]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the player with the given ID, or nil
func (r *Room) GetPlayer(id PlayerID) *Player {
	return r.Players[id]
}

// Guesser returns the current guesser, or nil if no round is active
func (r *Room) Guesser() *Player {
	for _, p := range r.Players {
		if p.IsGuesser() {
			return p
		}
	}
	return nil
}

// TruthTeller returns the current truth-teller, or nil
func (r *Room) TruthTeller() *Player {
	for _, p := range r.Players {
		if p.IsTruthTeller() {
			return p
		}
	}
	return nil
}

// PlayersInTurnOrder returns players in join order
func (r *Room) PlayersInTurnOrder() []*Player {
	players := make([]*Player, 0, len(r.TurnOrder))
	for _, id := range r.TurnOrder {
		if p, ok := r.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

// UnguessedCount returns how many players have not been targeted this round,
// excluding the guesser themself.
func (r *Room) UnguessedCount() int {
	count := 0
	for _, p := range r.Players {
		if !p.HasBeenGuessed && !p.IsGuesser() {
			count++
		}
	}
	return count
}

// ConnectedCount returns the number of connected players
func (r *Room) ConnectedCount() int {
	count := 0
	for _, p := range r.Players {
		if p.Connected {
			count++
		}
	}
	return count
}

// Clone returns a deep copy sharing no mutable state with the receiver
func (r *Room) Clone() *Room {
	clone := *r

	clone.Players = make(map[PlayerID]*Player, len(r.Players))
	for id, p := range r.Players {
		clone.Players[id] = p.Clone()
	}

	clone.TurnOrder = append([]PlayerID{}, r.TurnOrder...)
	clone.GuessedThisRound = append([]PlayerID{}, r.GuessedThisRound...)

	clone.UsedQuestions = make(map[string]bool, len(r.UsedQuestions))
	for q, used := range r.UsedQuestions {
		clone.UsedQuestions[q] = used
	}

	clone.Scores = make(map[PlayerID]int, len(r.Scores))
	for id, score := range r.Scores {
		clone.Scores[id] = score
	}

	return &clone
}

// RefreshScores rebuilds the score snapshot from player state
func (r *Room) RefreshScores() {
	scores := make(map[PlayerID]int, len(r.Players))
	for id, p := range r.Players {
		scores[id] = p.Score
	}
	r.Scores = scores
}

// GuessResult reports the outcome of a single processed guess
type GuessResult struct {
	TargetID       PlayerID `json:"target_id"`
	TargetName     string   `json:"target_name"`
	WasTruthTeller bool     `json:"was_truth_teller"`

	// Remaining is the unguessed player count after this guess, excluding
	// the guesser.
	Remaining int `json:"remaining"`

	// PointsEarned is the score delta from this single guess: 1 for a caught
	// liar, pending+1 when the shortcut fires, 0 on a truth-teller hit.
	PointsEarned int `json:"points_earned"`

	RoundEnded    bool `json:"round_ended"`
	FoundAllLiars bool `json:"found_all_liars"`
	GameOver      bool `json:"game_over"`

	// NextGuesser names the next round's guesser when the round ended and
	// the game continues.
	NextGuesser string `json:"next_guesser,omitempty"`
}
