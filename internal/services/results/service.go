package results

import (
	"sort"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/random"
	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// Service computes final standings for a finished game
type Service struct {
	random random.Random
}

// New creates a new results service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// rankKey is the 4-tuple players sort on, descending. The random component
// is drawn once per computation purely to break exact ties; it is never
// stored or replayed.
type rankKey struct {
	player   *model.Player
	accuracy float64
	survival float64
	tiebreak float64
}

func (k rankKey) less(other rankKey) bool {
	if k.player.Score != other.player.Score {
		return k.player.Score > other.player.Score
	}
	if k.accuracy != other.accuracy {
		return k.accuracy > other.accuracy
	}
	if k.survival != other.survival {
		return k.survival > other.survival
	}
	return k.tiebreak > other.tiebreak
}

// Compute builds the final results: winner, full descending ranking with
// tie-break percentages, per-player statistics, and the two awards.
func (s *Service) Compute(room *model.Room) *model.FinalResults {
	keys := make([]rankKey, 0, len(room.Players))
	for _, p := range room.PlayersInTurnOrder() {
		keys = append(keys, rankKey{
			player:   p,
			accuracy: p.Stats.GuessAccuracy(),
			survival: p.Stats.LiarSurvivalRate(),
			tiebreak: s.random.Float64(),
		})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].less(keys[j])
	})

	results := &model.FinalResults{
		Rankings: make([]model.PlayerRanking, len(keys)),
		Stats:    make([]model.PlayerStatLine, 0, len(keys)),
	}

	for i, k := range keys {
		results.Rankings[i] = model.PlayerRanking{
			Rank:         i + 1,
			PlayerID:     k.player.ID,
			Name:         k.player.Name,
			Score:        k.player.Score,
			Accuracy:     k.accuracy * 100,
			SurvivalRate: k.survival * 100,
		}
	}
	if len(keys) > 0 {
		results.Winner = keys[0].player.Name
	}

	totalCorrect := 0
	totalGuesses := 0
	for _, p := range room.PlayersInTurnOrder() {
		caughtRate := 0.0
		if p.Stats.TimesAsLiar > 0 {
			caughtRate = float64(p.Stats.TimesCaughtAsLiar) / float64(p.Stats.TimesAsLiar) * 100
		}
		results.Stats = append(results.Stats, model.PlayerStatLine{
			PlayerID:     p.ID,
			Name:         p.Name,
			Stats:        p.Stats,
			Accuracy:     p.Stats.GuessAccuracy() * 100,
			SurvivalRate: p.Stats.LiarSurvivalRate() * 100,
			CaughtRate:   caughtRate,
		})

		if p.Stats.RoundsPlayed > results.TotalRounds {
			results.TotalRounds = p.Stats.RoundsPlayed
		}
		totalCorrect += p.Stats.CorrectGuesses
		totalGuesses += p.Stats.TotalGuesses
	}
	if totalGuesses > 0 {
		results.OverallAccuracy = float64(totalCorrect) / float64(totalGuesses) * 100
	}

	results.BestGuesser = bestBy(room, func(p *model.Player) (int, bool) {
		return p.Stats.CorrectGuesses, p.Stats.TotalGuesses > 0
	})
	results.BestLiar = bestBy(room, func(p *model.Player) (int, bool) {
		return p.Stats.TimesSurvivedAsLiar, p.Stats.TimesAsLiar > 0
	})

	return results
}

// bestBy picks the eligible player with the highest count, nil if nobody
// qualifies. Join order breaks exact ties.
func bestBy(room *model.Room, metric func(*model.Player) (int, bool)) *model.Award {
	var best *model.Award
	for _, p := range room.PlayersInTurnOrder() {
		count, eligible := metric(p)
		if !eligible {
			continue
		}
		if best == nil || count > best.Count {
			best = &model.Award{
				PlayerID: p.ID,
				Name:     p.Name,
				Count:    count,
			}
		}
	}
	return best
}

// Interface for dependency injection
type ServiceInterface interface {
	Compute(room *model.Room) *model.FinalResults
}

var _ ServiceInterface = (*Service)(nil)
