package roles

import (
	"github.com/yuvrajy/SomethingFishy/internal/dependencies/random"
	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// Service assigns round roles. Guesser rotation is strictly round-robin by
// join order; truth-teller selection is the only randomized element.
type Service struct {
	random random.Random
}

// New creates a new role assignment service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Rotate recomputes every player's role for a new round. The role set is
// rebuilt wholesale, never incrementally patched:
//
//  1. The current guesser (the last player in join order when no round has
//     run yet) is demoted, and the next player in join order becomes the
//     guesser, wrapping and never skipping anyone, connected or not.
//  2. Every other player defaults to liar and has their rounds-played
//     counter bumped.
//  3. One non-guesser is promoted to truth-teller uniformly at random; the
//     rest stay liars and are counted as such.
func (s *Service) Rotate(room *model.Room) {
	ordered := room.PlayersInTurnOrder()
	if len(ordered) == 0 {
		return
	}

	// Treat the last joiner as a synthetic prior guesser on the first round
	// so rotation begins with the first joiner.
	guesserIdx := len(ordered) - 1
	for i, p := range ordered {
		if p.IsGuesser() {
			guesserIdx = i
			p.Role = model.RoleLiar
			break
		}
	}

	nextIdx := (guesserIdx + 1) % len(ordered)
	guesser := ordered[nextIdx]
	guesser.Role = model.RoleGuesser
	guesser.Stats.TimesAsGuesser++

	nonGuessers := make([]*model.Player, 0, len(ordered)-1)
	for _, p := range ordered {
		if p == guesser {
			continue
		}
		p.Role = model.RoleLiar
		p.Stats.RoundsPlayed++
		nonGuessers = append(nonGuessers, p)
	}

	truthTeller := nonGuessers[s.random.Intn(len(nonGuessers))]
	truthTeller.Role = model.RoleTruthTeller
	truthTeller.Stats.TimesAsTruthTeller++

	for _, p := range nonGuessers {
		if p.IsLiar() {
			p.Stats.TimesAsLiar++
		}
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Rotate(room *model.Room)
}

var _ ServiceInterface = (*Service)(nil)
