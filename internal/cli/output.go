package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case JoinResult:
		o.printJoinResult(v)
	case Results:
		o.printResults(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// Room response type
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

// JoinResult combines the issued token with the joined room
type JoinResult struct {
	Token    string `json:"token"`
	PlayerID int    `json:"player_id"`
	Room     Room   `json:"room"`
}

// Ranking response type
type Ranking struct {
	Rank         int     `json:"rank"`
	PlayerID     int     `json:"player_id"`
	Name         string  `json:"name"`
	Score        int     `json:"score"`
	Accuracy     float64 `json:"accuracy"`
	SurvivalRate float64 `json:"survival_rate"`
}

// Award response type
type Award struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// Results response type
type Results struct {
	Winner          string    `json:"winner"`
	Rankings        []Ranking `json:"rankings"`
	TotalRounds     int       `json:"total_rounds"`
	OverallAccuracy float64   `json:"overall_accuracy"`
	BestGuesser     *Award    `json:"best_guesser,omitempty"`
	BestLiar        *Award    `json:"best_liar,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)
	if r.CurrentRound > 0 {
		fmt.Printf("Round: %d\n", r.CurrentRound)
	}
	fmt.Printf("Players (%d/%d, need %d to start):\n", len(r.Players), r.MaxPlayers, r.MinPlayers)
	for _, p := range r.Players {
		connStr := ""
		if !p.Connected {
			connStr = " [disconnected]"
		}
		fmt.Printf("  %d. %s - %d points%s\n", p.ID, p.Name, p.Score, connStr)
	}
	fmt.Printf("Playing to: %d points\n", r.WinThreshold)
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined as player %d\n", j.PlayerID)
	fmt.Printf("Token: %s\n", j.Token)
	fmt.Println()
	o.printRoom(j.Room)
}

func (o *Output) printResults(r Results) {
	fmt.Printf("Winner: %s\n", r.Winner)
	fmt.Printf("Rounds played: %d\n", r.TotalRounds)
	fmt.Printf("Overall guess accuracy: %.1f%%\n", r.OverallAccuracy)

	fmt.Println("\nFinal Standings:")
	for _, rk := range r.Rankings {
		fmt.Printf("  %d. %s - %d points (accuracy %.1f%%, survival %.1f%%)\n",
			rk.Rank, rk.Name, rk.Score, rk.Accuracy, rk.SurvivalRate)
	}

	if r.BestGuesser != nil {
		fmt.Printf("\nBest Guesser: %s (%d correct)\n", r.BestGuesser.Name, r.BestGuesser.Count)
	}
	if r.BestLiar != nil {
		fmt.Printf("Best Liar: %s (%d rounds survived)\n", r.BestLiar.Name, r.BestLiar.Count)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
