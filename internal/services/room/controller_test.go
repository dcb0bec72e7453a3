package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/mocks"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/questions"
	"github.com/yuvrajy/SomethingFishy/internal/services/results"
	"github.com/yuvrajy/SomethingFishy/internal/services/roles"
	"github.com/yuvrajy/SomethingFishy/internal/storage/memory"
	"github.com/yuvrajy/SomethingFishy/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage         *memory.Storage
	questionService *questions.Service
	roleService     *roles.Service
	resultsService  *results.Service
	clock           *mocks.MockClock
	random          *mocks.MockRandom
	controller      *Controller
	ctx             context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.questionService = questions.New(s.storage, s.random)
	s.roleService = roles.New(s.random)
	s.resultsService = results.New(s.random)
	s.controller = NewController(
		s.storage, s.questionService, s.roleService, s.resultsService,
		s.clock, s.random, testutil.NopLogger(),
	)
	s.ctx = context.Background()

	_ = s.questionService.LoadPairs([]model.QuestionPair{
		{Question: "What is your favorite food?", Answer: "Pizza"},
		{Question: "Where did you last travel?", Answer: "Norway"},
		{Question: "What was your first pet's name?", Answer: "Biscuit"},
		{Question: "What is your hidden talent?", Answer: "Juggling"},
		{Question: "What did you want to be as a kid?", Answer: "Astronaut"},
		{Question: "What is your favorite movie?", Answer: "Jaws"},
	})
}

// newRoomWithPlayers creates a room and joins the given players in order.
// Room codes come from the mock random's string queue.
func (s *ControllerSuite) newRoomWithPlayers(code string, names ...string) *model.Room {
	s.random.QueueString(code)
	room, err := s.controller.CreateRoom(s.ctx)
	s.Require().NoError(err)
	for _, name := range names {
		_, err := s.controller.AddPlayer(s.ctx, room.Code, name)
		s.Require().NoError(err)
	}
	room, err = s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	return room
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateRoomSucceeds() {
	s.random.QueueString("WXYZ")
	room, err := s.controller.CreateRoom(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.RoomCode("WXYZ"), room.Code)
	s.Equal(model.RoomStatusWaiting, room.Status)
	s.Equal(0, room.CurrentRound)
	s.Empty(room.Players)
	s.Equal(model.PlayerID(1), room.NextPlayerID)
}

func (s *ControllerSuite) TestCreateRoomFailsWithEmptyQuestionBank() {
	_ = s.questionService.LoadPairs(nil)
	_, err := s.controller.CreateRoom(s.ctx)
	s.ErrorIs(err, model.ErrNoQuestions)
}

func (s *ControllerSuite) TestCreateRoomIsPersisted() {
	s.random.QueueString("WXYZ")
	room, err := s.controller.CreateRoom(s.ctx)
	s.Require().NoError(err)

	retrieved, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
}

// AddPlayer tests

func (s *ControllerSuite) TestAddPlayerAssignsSequentialIDs() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")

	s.Equal([]model.PlayerID{1, 2, 3}, room.TurnOrder)
	s.Equal("Alice", room.Players[1].Name)
	s.Equal("Bob", room.Players[2].Name)
	s.Equal("Carol", room.Players[3].Name)
	s.Equal(model.PlayerID(4), room.NextPlayerID)
}

func (s *ControllerSuite) TestAddPlayerStartsConnected() {
	room := s.newRoomWithPlayers("WXYZ", "Alice")
	s.True(room.Players[1].Connected)
	s.Nil(room.Players[1].DisconnectedAt)
}

func (s *ControllerSuite) TestAddPlayerFailsOncePlaying() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.AddPlayer(s.ctx, room.Code, "Dave")
	s.ErrorIs(err, model.ErrRoomNotWaiting)
}

func (s *ControllerSuite) TestAddPlayerFailsWhenFull() {
	names := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8", "P9", "P10"}
	room := s.newRoomWithPlayers("WXYZ", names...)

	_, err := s.controller.AddPlayer(s.ctx, room.Code, "Eleven")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ControllerSuite) TestAddPlayerIDsNeverReused() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob")
	s.Require().NoError(s.controller.RemovePlayer(s.ctx, room.Code, 2))

	p, err := s.controller.AddPlayer(s.ctx, room.Code, "Carol")
	s.Require().NoError(err)
	s.Equal(model.PlayerID(3), p.ID)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameRequiresThreePlayers() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ControllerSuite) TestStartGameFailsIfAlreadyPlaying() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotWaiting)
}

func (s *ControllerSuite) TestStartGameAssignsRolesAndQuestion() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	started, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Equal(model.RoomStatusPlaying, started.Status)
	s.Equal(1, started.CurrentRound)
	s.NotEmpty(started.CurrentQuestion)
	s.NotEmpty(started.CurrentAnswer)

	// First joiner is the first guesser
	s.Equal(model.RoleGuesser, started.Players[1].Role)
	s.assertRoleInvariant(started)
}

func (s *ControllerSuite) TestStartGameFirstRoundCounters() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	started, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Equal(1, started.Players[1].Stats.TimesAsGuesser)
	s.Equal(0, started.Players[1].Stats.RoundsPlayed)
	s.Equal(1, started.Players[2].Stats.RoundsPlayed)
	s.Equal(1, started.Players[3].Stats.RoundsPlayed)
}

// assertRoleInvariant checks exactly one guesser and one truth-teller
func (s *ControllerSuite) assertRoleInvariant(room *model.Room) {
	guessers, truthTellers, liars := 0, 0, 0
	for _, p := range room.Players {
		switch p.Role {
		case model.RoleGuesser:
			guessers++
		case model.RoleTruthTeller:
			truthTellers++
		case model.RoleLiar:
			liars++
		}
	}
	s.Equal(1, guessers)
	s.Equal(1, truthTellers)
	s.Equal(len(room.Players)-2, liars)
}

// ProcessGuess precondition tests

func (s *ControllerSuite) TestProcessGuessFailsBeforeStart() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.ErrorIs(err, model.ErrGameNotStarted)
}

func (s *ControllerSuite) TestProcessGuessFailsForNonGuesser() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 2, 3)
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestProcessGuessRejectsSelfTarget() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 1)
	s.ErrorIs(err, model.ErrInvalidTarget)
}

func (s *ControllerSuite) TestProcessGuessRejectsUnknownTarget() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 99)
	s.ErrorIs(err, model.ErrInvalidTarget)
}

func (s *ControllerSuite) TestProcessGuessRejectsRepeatTarget() {
	// Four players so the first liar guess does not end the round
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol", "Dave")
	// Truth-teller is Carol (index 1 of non-guessers Bob, Carol, Dave)
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.ErrorIs(err, model.ErrAlreadyGuessed)
}

func (s *ControllerSuite) TestFailedGuessLeavesRoomUnchanged() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 2, 3)
	s.Require().Error(err)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Empty(current.GuessedThisRound)
	s.Equal(0, current.Players[1].PendingRoundPoints)
	s.False(current.Players[3].HasBeenGuessed)
}

// Guess scoring tests

// Scenario from the reference flow: room WXYZ with Alice, Bob, Carol.
// Alice is the first guesser; Carol is the truth-teller. Guessing Bob
// (a liar) leaves only Carol unguessed, so the all-liars-found shortcut
// fires and Alice banks her pending point plus the bonus.
func (s *ControllerSuite) TestAllLiarsFoundShortcut() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	// Draw picks index 0; truth-teller index 1 of non-guessers (Bob, Carol)
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	result, err := s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	s.False(result.WasTruthTeller)
	s.True(result.FoundAllLiars)
	s.True(result.RoundEnded)
	s.Equal(2, result.PointsEarned)
	s.Equal("Bob", result.TargetName)
	s.False(result.GameOver)
	s.Equal("Bob", result.NextGuesser)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(2, current.Players[1].Score)
	s.Equal(0, current.Players[1].PendingRoundPoints)
	s.Equal(1, current.Players[1].Stats.CorrectGuesses)
	s.Equal(1, current.Players[2].Stats.TimesCaughtAsLiar)
}

// Same scenario with Bob as the truth-teller: the round ends immediately,
// Bob earns his point, and Alice forfeits her pending points.
func (s *ControllerSuite) TestGuessingTruthTellerEndsRound() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	// Truth-teller index 0 of non-guessers (Bob, Carol)
	s.random.QueueIntn(0, 0)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	result, err := s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	s.True(result.WasTruthTeller)
	s.True(result.RoundEnded)
	s.False(result.FoundAllLiars)
	s.Equal(0, result.PointsEarned)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(0, current.Players[1].PendingRoundPoints)
	s.Equal(0, current.Players[1].Score)
	s.Equal(1, current.Players[2].Score)
	s.Equal(1, current.Players[1].Stats.TotalGuesses)
	s.Equal(0, current.Players[1].Stats.CorrectGuesses)
}

func (s *ControllerSuite) TestLiarGuessAccumulatesPending() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol", "Dave")
	// Truth-teller is Carol (index 1 of Bob, Carol, Dave)
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	result, err := s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	s.False(result.RoundEnded)
	s.Equal(1, result.PointsEarned)
	s.Equal(2, result.Remaining)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(1, current.Players[1].PendingRoundPoints)
	s.Equal(0, current.Players[1].Score)
	s.Equal([]model.PlayerID{2}, current.GuessedThisRound)
}

func (s *ControllerSuite) TestUnguessedLiarsSurviveOnRoundEnd() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol", "Dave")
	// Truth-teller is Bob (index 0 of Bob, Carol, Dave)
	s.random.QueueIntn(0, 0)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	// Alice hits the truth-teller straight away; Carol and Dave get away
	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(1, current.Players[3].Score)
	s.Equal(1, current.Players[3].Stats.TimesSurvivedAsLiar)
	s.Equal(1, current.Players[4].Score)
	s.Equal(1, current.Players[4].Stats.TimesSurvivedAsLiar)
}

func (s *ControllerSuite) TestScoreSnapshotRefreshedAfterGuess() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(map[model.PlayerID]int{1: 2, 2: 0, 3: 0}, current.Scores)
}

// Round rotation tests

func (s *ControllerSuite) TestGuesserRotationIsRoundRobin() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	expected := []model.PlayerID{1, 2, 3, 1, 2}
	for i, want := range expected {
		current, err := s.controller.GetRoom(s.ctx, room.Code)
		s.Require().NoError(err)
		s.Equal(want, current.Guesser().ID, "round %d", i+1)

		// End the round by guessing the truth-teller
		tt := current.TruthTeller()
		_, err = s.controller.ProcessGuess(s.ctx, room.Code, current.Guesser().ID, tt.ID)
		s.Require().NoError(err)
	}
}

func (s *ControllerSuite) TestRotationIncludesDisconnectedPlayers() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.SetConnected(s.ctx, room.Code, 2, false))

	// End round 1; Bob still becomes the guesser despite being disconnected
	current, _ := s.controller.GetRoom(s.ctx, room.Code)
	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, current.TruthTeller().ID)
	s.Require().NoError(err)

	current, err = s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(model.PlayerID(2), current.Guesser().ID)
	s.False(current.Guesser().Connected)
}

func (s *ControllerSuite) TestScoresNeverDecrease() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol", "Dave")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	prev := map[model.PlayerID]int{1: 0, 2: 0, 3: 0, 4: 0}
	for round := 0; round < 6; round++ {
		current, err := s.controller.GetRoom(s.ctx, room.Code)
		s.Require().NoError(err)
		if current.Status == model.RoomStatusFinished {
			break
		}

		// Guesser hunts liars until the round resolves
		for {
			current, err = s.controller.GetRoom(s.ctx, room.Code)
			s.Require().NoError(err)
			guesser := current.Guesser()

			var target *model.Player
			for _, p := range current.PlayersInTurnOrder() {
				if p.ID != guesser.ID && !p.HasBeenGuessed && p.IsLiar() {
					target = p
					break
				}
			}
			if target == nil {
				target = current.TruthTeller()
			}

			result, err := s.controller.ProcessGuess(s.ctx, room.Code, guesser.ID, target.ID)
			s.Require().NoError(err)
			if result.RoundEnded {
				break
			}
		}

		current, err = s.controller.GetRoom(s.ctx, room.Code)
		s.Require().NoError(err)
		for id, score := range current.Scores {
			s.GreaterOrEqual(score, prev[id])
			prev[id] = score
		}
	}
}

// Game end tests

func (s *ControllerSuite) TestGameEndsAtWinThreshold() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	// Truth-teller Carol for round 1
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	// Put Alice one shortcut win away from the threshold
	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	current.Players[1].Score = model.DefaultWinThreshold - 2
	s.Require().NoError(s.storage.SaveRoom(s.ctx, current))

	result, err := s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	s.True(result.RoundEnded)
	s.True(result.GameOver)
	s.Empty(result.NextGuesser)

	current, err = s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, current.Status)
	s.Equal(model.DefaultWinThreshold, current.Players[1].Score)
}

func (s *ControllerSuite) TestFinishedRoomRejectsGuesses() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	current, _ := s.controller.GetRoom(s.ctx, room.Code)
	current.Players[1].Score = model.DefaultWinThreshold
	current.Status = model.RoomStatusFinished
	s.Require().NoError(s.storage.SaveRoom(s.ctx, current))

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.ErrorIs(err, model.ErrGameFinished)
}

func (s *ControllerSuite) TestFinalResultsRankingLength() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	current, _ := s.controller.GetRoom(s.ctx, room.Code)
	current.Players[1].Score = model.DefaultWinThreshold - 2
	s.Require().NoError(s.storage.SaveRoom(s.ctx, current))

	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)

	final, err := s.controller.FinalResults(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Len(final.Rankings, 3)
	s.Equal("Alice", final.Winner)
	for i := 1; i < len(final.Rankings); i++ {
		s.GreaterOrEqual(final.Rankings[i-1].Score, final.Rankings[i].Score)
	}
}

func (s *ControllerSuite) TestFinalResultsRequireFinishedGame() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.FinalResults(s.ctx, room.Code)
	s.Error(err)
}

// SkipQuestion tests

func (s *ControllerSuite) TestSkipQuestionReplacesPair() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	started, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)
	before := started.CurrentQuestion

	pair, err := s.controller.SkipQuestion(s.ctx, room.Code)
	s.Require().NoError(err)
	s.NotEqual(before, pair.Question)

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(pair.Question, current.CurrentQuestion)
	s.Equal(pair.Answer, current.CurrentAnswer)
	// Roles and round counter untouched
	s.Equal(1, current.CurrentRound)
	s.assertRoleInvariant(current)
}

func (s *ControllerSuite) TestSkipQuestionFailsBeforeStart() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.SkipQuestion(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrGameNotStarted)
}

// RemovePlayer tests

func (s *ControllerSuite) TestRemovePlayerInWaitingRoom() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	s.Require().NoError(s.controller.RemovePlayer(s.ctx, room.Code, 2))

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Len(current.Players, 2)
	s.Equal([]model.PlayerID{1, 3}, current.TurnOrder)
}

func (s *ControllerSuite) TestRemoveLastPlayerDeletesRoom() {
	room := s.newRoomWithPlayers("WXYZ", "Alice")
	s.Require().NoError(s.controller.RemovePlayer(s.ctx, room.Code, 1))

	_, err := s.controller.GetRoom(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestRemoveGuesserMidRoundStartsFreshRound() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol", "Dave")
	// Truth-teller Carol
	s.random.QueueIntn(0, 1)
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	// Alice banks a pending point, then leaves
	_, err = s.controller.ProcessGuess(s.ctx, room.Code, 1, 2)
	s.Require().NoError(err)
	s.Require().NoError(s.controller.RemovePlayer(s.ctx, room.Code, 1))

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, current.Status)
	s.Equal(2, current.CurrentRound)
	s.Empty(current.GuessedThisRound)
	s.assertRoleInvariant(current)
	// Alice's pending point left with her; nobody inherited it
	for _, p := range current.Players {
		s.Equal(0, p.PendingRoundPoints)
	}
}

func (s *ControllerSuite) TestRemovePlayerBelowMinimumFinishesGame() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.RemovePlayer(s.ctx, room.Code, 3))

	current, err := s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, current.Status)
}

func (s *ControllerSuite) TestRemoveUnknownPlayer() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob")
	err := s.controller.RemovePlayer(s.ctx, room.Code, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// SetConnected tests

func (s *ControllerSuite) TestSetConnectedTogglesFlag() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")

	s.Require().NoError(s.controller.SetConnected(s.ctx, room.Code, 2, false))
	current, _ := s.controller.GetRoom(s.ctx, room.Code)
	s.False(current.Players[2].Connected)
	s.NotNil(current.Players[2].DisconnectedAt)

	s.Require().NoError(s.controller.SetConnected(s.ctx, room.Code, 2, true))
	current, _ = s.controller.GetRoom(s.ctx, room.Code)
	s.True(current.Players[2].Connected)
	s.Nil(current.Players[2].DisconnectedAt)
}

func (s *ControllerSuite) TestAbandonedPlayingRoomIsDeleted() {
	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.SetConnected(s.ctx, room.Code, 1, false))
	s.Require().NoError(s.controller.SetConnected(s.ctx, room.Code, 2, false))

	// Two of three gone: the room stays.
	_, err = s.controller.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.SetConnected(s.ctx, room.Code, 3, false))

	_, err = s.controller.GetRoom(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Question recycling across rounds

func (s *ControllerSuite) TestQuestionBankRecyclesAcrossRounds() {
	_ = s.questionService.LoadPairs([]model.QuestionPair{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	})

	room := s.newRoomWithPlayers("WXYZ", "Alice", "Bob", "Carol")
	_, err := s.controller.StartGame(s.ctx, room.Code)
	s.Require().NoError(err)

	seen := map[string]int{}
	for i := 0; i < 5; i++ {
		current, err := s.controller.GetRoom(s.ctx, room.Code)
		s.Require().NoError(err)
		if current.Status == model.RoomStatusFinished {
			break
		}
		seen[current.CurrentQuestion]++

		_, err = s.controller.ProcessGuess(s.ctx, room.Code, current.Guesser().ID, current.TruthTeller().ID)
		s.Require().NoError(err)
	}

	// Both questions served, repeats only after a full cycle
	s.GreaterOrEqual(seen["Q1"], 1)
	s.GreaterOrEqual(seen["Q2"], 1)
}
