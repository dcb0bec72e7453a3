package model

import "time"

// PlayerID uniquely identifies a player within a room.
// IDs are assigned from a per-room counter at join time and are never
// reused for the lifetime of that room, even after removal.
type PlayerID int

// Role is a player's role in the current round
type Role string

const (
	RoleGuesser     Role = "guesser"
	RoleTruthTeller Role = "truth_teller"
	RoleLiar        Role = "liar"
)

// PlayerStats tracks lifetime counters for end-of-game rankings and awards.
// Every field is monotonically non-decreasing over a game.
type PlayerStats struct {
	RoundsPlayed        int `json:"rounds_played"`
	TimesAsGuesser      int `json:"times_as_guesser"`
	TimesAsTruthTeller  int `json:"times_as_truth_teller"`
	TimesAsLiar         int `json:"times_as_liar"`
	CorrectGuesses      int `json:"correct_guesses"`
	TotalGuesses        int `json:"total_guesses"`
	TimesCaughtAsLiar   int `json:"times_caught_as_liar"`
	TimesSurvivedAsLiar int `json:"times_survived_as_liar"`
}

// GuessAccuracy returns the fraction of guesses that found a liar, 0 if the
// player never guessed.
func (s PlayerStats) GuessAccuracy() float64 {
	if s.TotalGuesses == 0 {
		return 0
	}
	return float64(s.CorrectGuesses) / float64(s.TotalGuesses)
}

// LiarSurvivalRate returns the fraction of liar rounds survived unguessed,
// 0 if the player was never a liar.
func (s PlayerStats) LiarSurvivalRate() float64 {
	if s.TimesAsLiar == 0 {
		return 0
	}
	return float64(s.TimesSurvivedAsLiar) / float64(s.TimesAsLiar)
}

// Player represents a game participant and all of their mutable state
type Player struct {
	ID   PlayerID
	Name string
	Role Role

	// Score is the committed score. It only ever increases; a failed round
	// forfeits PendingRoundPoints, never committed points.
	Score int

	// PendingRoundPoints accumulates points earned by the guesser this round,
	// not yet committed to Score. Reset at round start and on resolution.
	PendingRoundPoints int

	// HasBeenGuessed is true once this player was named as a guess target
	// this round. Reset every round.
	HasBeenGuessed bool

	Stats PlayerStats

	Connected      bool
	DisconnectedAt *time.Time

	JoinedAt time.Time
}

// Clone returns a copy sharing no mutable state with the receiver
func (p *Player) Clone() *Player {
	clone := *p
	if p.DisconnectedAt != nil {
		t := *p.DisconnectedAt
		clone.DisconnectedAt = &t
	}
	return &clone
}

// IsGuesser reports whether the player holds the guesser role
func (p *Player) IsGuesser() bool {
	return p.Role == RoleGuesser
}

// IsTruthTeller reports whether the player holds the truth-teller role
func (p *Player) IsTruthTeller() bool {
	return p.Role == RoleTruthTeller
}

// IsLiar reports whether the player holds the liar role
func (p *Player) IsLiar() bool {
	return p.Role == RoleLiar
}

// ResetRound clears round-scoped state ahead of a new round
func (p *Player) ResetRound() {
	p.HasBeenGuessed = false
	p.PendingRoundPoints = 0
}
