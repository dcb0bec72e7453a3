package room

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/clock"
	"github.com/yuvrajy/SomethingFishy/internal/dependencies/random"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/questions"
	"github.com/yuvrajy/SomethingFishy/internal/services/results"
	"github.com/yuvrajy/SomethingFishy/internal/services/roles"
	"github.com/yuvrajy/SomethingFishy/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 4
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// Controller manages the room state machine: lifecycle, role rotation,
// guess processing, round resolution and game end.
//
// Every mutating operation on a room is serialized through a per-code lock,
// so role rotation, score commits and round resolution appear atomic to
// observers. Distinct rooms proceed fully concurrently.
type Controller struct {
	storage         storage.Storage
	questionService *questions.Service
	roleService     *roles.Service
	resultsService  *results.Service
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger

	roomConfig model.RoomConfig

	locks sync.Map // model.RoomCode -> *sync.Mutex
}

// NewController creates a new room controller
func NewController(
	storage storage.Storage,
	questionService *questions.Service,
	roleService *roles.Service,
	resultsService *results.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:         storage,
		questionService: questionService,
		roleService:     roleService,
		resultsService:  resultsService,
		clock:           clock,
		random:          random,
		logger:          logger,
		roomConfig:      model.DefaultRoomConfig(),
	}
}

// SetRoomConfig overrides the config applied to rooms created after the call
func (c *Controller) SetRoomConfig(cfg model.RoomConfig) {
	c.roomConfig = cfg
}

func (c *Controller) lock(code model.RoomCode) func() {
	mu, _ := c.locks.LoadOrStore(code, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// CreateRoom creates a new empty room in the waiting state. An empty
// question bank is a configuration failure and prevents creation entirely.
func (c *Controller) CreateRoom(ctx context.Context) (*model.Room, error) {
	if c.questionService.Count() == 0 {
		return nil, model.ErrNoQuestions
	}

	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	now := c.clock.Now()
	room := &model.Room{
		Code:          code,
		Status:        model.RoomStatusWaiting,
		Config:        c.roomConfig,
		Players:       make(map[model.PlayerID]*model.Player),
		TurnOrder:     []model.PlayerID{},
		NextPlayerID:  1,
		UsedQuestions: make(map[string]bool),
		Scores:        make(map[model.PlayerID]int),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created", slog.String("room_code", string(code)))

	return room, nil
}

// GetRoom retrieves a room by code
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// AddPlayer adds a player to a waiting room and returns the new player.
// Player IDs come from the room's counter and are never reused.
func (c *Controller) AddPlayer(ctx context.Context, code model.RoomCode, name string) (*model.Player, error) {
	defer c.lock(code)()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrRoomNotWaiting
	}
	if len(room.Players) >= room.Config.MaxPlayers {
		return nil, model.ErrRoomFull
	}

	now := c.clock.Now()
	player := &model.Player{
		ID:        room.NextPlayerID,
		Name:      strings.TrimSpace(name),
		Role:      model.RoleLiar,
		Connected: true,
		JoinedAt:  now,
	}
	room.NextPlayerID++
	room.Players[player.ID] = player
	room.TurnOrder = append(room.TurnOrder, player.ID)
	room.RefreshScores()
	room.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room_code", string(code)),
		slog.Int("player_id", int(player.ID)),
		slog.String("name", player.Name),
	)

	return player, nil
}

// RemovePlayer removes a player unconditionally. If the removed player held
// the guesser or truth-teller role mid-round, a fresh round starts
// immediately (pending points are discarded). If the room drops under the
// minimum size while playing, the game finishes. Empty rooms are deleted.
func (c *Controller) RemovePlayer(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error {
	defer c.lock(code)()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	heldRole := player.Role
	delete(room.Players, playerID)
	for i, id := range room.TurnOrder {
		if id == playerID {
			room.TurnOrder = append(room.TurnOrder[:i], room.TurnOrder[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		c.locks.Delete(code)
		return c.storage.DeleteRoom(ctx, code)
	}

	if room.Status == model.RoomStatusPlaying {
		if len(room.Players) < room.Config.MinPlayers {
			room.Status = model.RoomStatusFinished
		} else if heldRole == model.RoleGuesser || heldRole == model.RoleTruthTeller {
			// The round cannot continue without its guesser or truth-teller;
			// skip straight to a fresh round.
			if err := c.startNewRound(room); err != nil {
				return err
			}
		}
	}

	room.RefreshScores()
	room.UpdatedAt = c.clock.Now()

	c.logger.Info("player removed",
		slog.String("room_code", string(code)),
		slog.Int("player_id", int(playerID)),
		slog.String("held_role", string(heldRole)),
	)

	return c.storage.SaveRoom(ctx, room)
}

// SetConnected flips a player's connection flag. Disconnection does not
// remove the player from turn rotation.
func (c *Controller) SetConnected(ctx context.Context, code model.RoomCode, playerID model.PlayerID, connected bool) error {
	defer c.lock(code)()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	player.Connected = connected
	if connected {
		player.DisconnectedAt = nil
	} else {
		now := c.clock.Now()
		player.DisconnectedAt = &now
	}
	room.UpdatedAt = c.clock.Now()

	// A started room with nobody left watching is abandoned; drop it
	// rather than let it linger in storage.
	if !connected && room.Status != model.RoomStatusWaiting && room.ConnectedCount() == 0 {
		return c.storage.DeleteRoom(ctx, code)
	}

	return c.storage.SaveRoom(ctx, room)
}

// StartGame transitions a waiting room to playing and seeds the first round
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	defer c.lock(code)()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrRoomNotWaiting
	}
	if len(room.Players) < room.Config.MinPlayers {
		return nil, model.ErrInsufficientPlayers
	}

	room.Status = model.RoomStatusPlaying
	if err := c.startNewRound(room); err != nil {
		return nil, err
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("room_code", string(code)),
		slog.Int("player_count", len(room.Players)),
	)

	return room, nil
}

// ProcessGuess validates and scores a single guess by the current guesser.
// Validation happens before any mutation, so a rejected guess leaves the
// room untouched.
func (c *Controller) ProcessGuess(ctx context.Context, code model.RoomCode, guesserID, targetID model.PlayerID) (*model.GuessResult, error) {
	defer c.lock(code)()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	switch room.Status {
	case model.RoomStatusWaiting:
		return nil, model.ErrGameNotStarted
	case model.RoomStatusFinished:
		return nil, model.ErrGameFinished
	}

	guesser := room.GetPlayer(guesserID)
	if guesser == nil {
		return nil, model.ErrPlayerNotFound
	}
	if !guesser.IsGuesser() {
		return nil, model.ErrNotYourTurn
	}
	if targetID == guesserID {
		return nil, model.ErrInvalidTarget
	}
	target := room.GetPlayer(targetID)
	if target == nil {
		return nil, model.ErrInvalidTarget
	}
	if target.HasBeenGuessed {
		return nil, model.ErrAlreadyGuessed
	}

	target.HasBeenGuessed = true
	room.GuessedThisRound = append(room.GuessedThisRound, targetID)
	remaining := room.UnguessedCount()

	result := &model.GuessResult{
		TargetID:       targetID,
		TargetName:     target.Name,
		WasTruthTeller: target.IsTruthTeller(),
		Remaining:      remaining,
	}

	if target.IsTruthTeller() {
		// All unbanked points are forfeited. The truth-teller earns their
		// point for being caught even when they were the last one standing.
		guesser.PendingRoundPoints = 0
		guesser.Stats.TotalGuesses++
		target.Score++
		result.RoundEnded = true
	} else {
		guesser.PendingRoundPoints++
		guesser.Stats.CorrectGuesses++
		guesser.Stats.TotalGuesses++
		target.Stats.TimesCaughtAsLiar++
		result.PointsEarned = 1

		// All-liars-found shortcut: the lone unguessed player being the
		// truth-teller means every liar is caught; clearing the round this
		// way earns one bonus point on top of the banked total.
		if remaining == 1 && c.lastUnguessedIsTruthTeller(room) {
			guesser.PendingRoundPoints++
			result.PointsEarned = guesser.PendingRoundPoints
			result.RoundEnded = true
			result.FoundAllLiars = true
		}
	}

	if result.RoundEnded {
		if err := c.resolveRound(room, result); err != nil {
			return nil, err
		}
	}

	room.RefreshScores()
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("guess processed",
		slog.String("room_code", string(code)),
		slog.Int("guesser_id", int(guesserID)),
		slog.Int("target_id", int(targetID)),
		slog.Bool("was_truth_teller", result.WasTruthTeller),
		slog.Bool("round_ended", result.RoundEnded),
	)

	return result, nil
}

func (c *Controller) lastUnguessedIsTruthTeller(room *model.Room) bool {
	for _, p := range room.Players {
		if !p.HasBeenGuessed && !p.IsGuesser() {
			return p.IsTruthTeller()
		}
	}
	return false
}

// resolveRound commits the round's outcome and either ends the game or
// starts the next round. Called only from ProcessGuess.
func (c *Controller) resolveRound(room *model.Room, result *model.GuessResult) error {
	guesser := room.Guesser()

	guesser.Score += guesser.PendingRoundPoints
	guesser.PendingRoundPoints = 0

	// Unguessed liars got away with it
	for _, p := range room.Players {
		if !p.HasBeenGuessed && p.IsLiar() && !p.IsGuesser() {
			p.Score++
			p.Stats.TimesSurvivedAsLiar++
		}
	}

	room.RefreshScores()

	for _, p := range room.Players {
		if p.Score >= room.Config.WinThreshold {
			room.Status = model.RoomStatusFinished
			result.GameOver = true
			c.logger.Info("game finished",
				slog.String("room_code", string(room.Code)),
				slog.Int("winning_score", p.Score),
			)
			return nil
		}
	}

	if err := c.startNewRound(room); err != nil {
		return err
	}
	result.NextGuesser = room.Guesser().Name
	return nil
}

// startNewRound advances the round counter, draws a fresh question and
// recomputes roles. Callers hold the room lock.
func (c *Controller) startNewRound(room *model.Room) error {
	pair, err := c.questionService.Draw(room.UsedQuestions)
	if err != nil {
		return err
	}

	room.CurrentRound++
	room.CurrentQuestion = pair.Question
	room.CurrentAnswer = pair.Answer
	room.GuessedThisRound = []model.PlayerID{}

	for _, p := range room.Players {
		p.ResetRound()
	}
	c.roleService.Rotate(room)

	return nil
}

// SkipQuestion replaces the current round's question without touching roles
// or scores. Only valid while a game is in progress.
func (c *Controller) SkipQuestion(ctx context.Context, code model.RoomCode) (*model.QuestionPair, error) {
	defer c.lock(code)()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	switch room.Status {
	case model.RoomStatusWaiting:
		return nil, model.ErrGameNotStarted
	case model.RoomStatusFinished:
		return nil, model.ErrGameFinished
	}

	pair, err := c.questionService.Draw(room.UsedQuestions)
	if err != nil {
		return nil, err
	}

	room.CurrentQuestion = pair.Question
	room.CurrentAnswer = pair.Answer
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return &pair, nil
}

// FinalResults computes standings for a finished game
func (c *Controller) FinalResults(ctx context.Context, code model.RoomCode) (*model.FinalResults, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.Status != model.RoomStatusFinished {
		return nil, model.ErrGameNotStarted
	}

	return c.resultsService.Compute(room), nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context) (*model.Room, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	AddPlayer(ctx context.Context, code model.RoomCode, name string) (*model.Player, error)
	RemovePlayer(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error
	SetConnected(ctx context.Context, code model.RoomCode, playerID model.PlayerID, connected bool) error
	StartGame(ctx context.Context, code model.RoomCode) (*model.Room, error)
	ProcessGuess(ctx context.Context, code model.RoomCode, guesserID, targetID model.PlayerID) (*model.GuessResult, error)
	SkipQuestion(ctx context.Context, code model.RoomCode) (*model.QuestionPair, error)
	FinalResults(ctx context.Context, code model.RoomCode) (*model.FinalResults, error)
}

var _ ControllerInterface = (*Controller)(nil)
