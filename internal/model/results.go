package model

// PlayerRanking is one entry in the final standings
type PlayerRanking struct {
	Rank     int      `json:"rank"`
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`

	// Accuracy and SurvivalRate are the tie-break dimensions, reported as
	// percentages for display.
	Accuracy     float64 `json:"accuracy"`
	SurvivalRate float64 `json:"survival_rate"`
}

// PlayerStatLine is the per-player lifetime statistics dump shown at game end
type PlayerStatLine struct {
	PlayerID PlayerID    `json:"player_id"`
	Name     string      `json:"name"`
	Stats    PlayerStats `json:"stats"`

	Accuracy     float64 `json:"accuracy"`
	SurvivalRate float64 `json:"survival_rate"`
	CaughtRate   float64 `json:"caught_rate"`
}

// Award is a superlative computed independently of the main ranking
type Award struct {
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
}

// FinalResults is the terminal output of a finished game
type FinalResults struct {
	Winner   string           `json:"winner"`
	Rankings []PlayerRanking  `json:"rankings"`
	Stats    []PlayerStatLine `json:"stats"`

	// TotalRounds and overall accuracy summarise the whole game
	TotalRounds     int     `json:"total_rounds"`
	OverallAccuracy float64 `json:"overall_accuracy"`

	// BestGuesser is the player with the most correct guesses among players
	// who guessed at least once; nil if nobody guessed.
	BestGuesser *Award `json:"best_guesser,omitempty"`

	// BestLiar is the player with the most survived liar rounds among
	// players who were ever a liar; nil if nobody was.
	BestLiar *Award `json:"best_liar,omitempty"`
}
