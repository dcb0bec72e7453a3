package factory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/yuvrajy/SomethingFishy/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestQuestions())
}

// Test: complete game flow from room creation to final results
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueString("WXYZ")

	// Step 1: Create a room
	created, err := s.app.RoomController.CreateRoom(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoomCode("WXYZ"), created.Code)

	// Step 2: Three players join
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := s.app.RoomController.AddPlayer(s.ctx, created.Code, name)
		s.Require().NoError(err)
	}

	// Step 3: Sessions are issued for each seat
	sess := s.app.SessionService.Create(created.Code, 1)
	validated, err := s.app.SessionService.Validate(sess.Token)
	s.Require().NoError(err)
	s.Equal(model.PlayerID(1), validated.PlayerID)

	// Step 4: Start the game
	started, err := s.app.RoomController.StartGame(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, started.Status)
	s.Equal(1, started.CurrentRound)

	// Step 5: Per-player views keep the question on the guesser's side only
	guesserView, err := s.app.ViewService.ProjectFor(started, started.Guesser().ID)
	s.Require().NoError(err)
	s.NotEmpty(guesserView.Question)
	s.Empty(guesserView.Answer)

	ttView, err := s.app.ViewService.ProjectFor(started, started.TruthTeller().ID)
	s.Require().NoError(err)
	s.Empty(ttView.Question)
	s.NotEmpty(ttView.Answer)

	// Step 6: Play until someone wins, guessers hunting liars first
	for rounds := 0; rounds < 50; rounds++ {
		current, err := s.app.RoomController.GetRoom(s.ctx, created.Code)
		s.Require().NoError(err)
		if current.Status == model.RoomStatusFinished {
			break
		}

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

		_, err = s.app.RoomController.ProcessGuess(s.ctx, created.Code, guesser.ID, target.ID)
		s.Require().NoError(err)
	}

	// Step 7: The game finished and produced rankings
	final, err := s.app.RoomController.FinalResults(s.ctx, created.Code)
	s.Require().NoError(err)
	s.NotEmpty(final.Winner)
	s.Len(final.Rankings, 3)
	s.GreaterOrEqual(final.Rankings[0].Score, model.DefaultWinThreshold)
	s.Positive(final.TotalRounds)
}

// Test: guess processing and view projection run concurrently on one room,
// as they do when the websocket hub broadcasts while another client guesses.
// Run with -race; the projection side must never share room memory with the
// controller's locked writers.
func (s *IntegrationSuite) TestConcurrentGuessingAndProjection() {
	s.app.MockRandom.QueueString("WXYZ")

	// A threshold out of reach keeps rounds cycling for the whole test
	cfg := model.DefaultRoomConfig()
	cfg.WinThreshold = 1_000_000
	s.app.RoomController.SetRoomConfig(cfg)

	created, err := s.app.RoomController.CreateRoom(s.ctx)
	s.Require().NoError(err)
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		_, err := s.app.RoomController.AddPlayer(s.ctx, created.Code, name)
		s.Require().NoError(err)
	}
	_, err = s.app.RoomController.StartGame(s.ctx, created.Code)
	s.Require().NoError(err)

	const iterations = 2000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			current, err := s.app.RoomController.GetRoom(s.ctx, created.Code)
			if err != nil {
				return
			}
			guesser := current.Guesser()
			if guesser == nil {
				continue
			}
			for _, target := range current.PlayersInTurnOrder() {
				if target.ID != guesser.ID && !target.HasBeenGuessed {
					_, _ = s.app.RoomController.ProcessGuess(s.ctx, created.Code, guesser.ID, target.ID)
					break
				}
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			current, err := s.app.RoomController.GetRoom(s.ctx, created.Code)
			if err != nil {
				return
			}
			for _, id := range current.TurnOrder {
				_, _ = s.app.ViewService.ProjectFor(current, id)
			}
		}
	}()

	wg.Wait()

	current, err := s.app.RoomController.GetRoom(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, current.Status)
	s.Len(current.Players, 4)
}

func (s *IntegrationSuite) TestMemoryStorageIsDefault() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Storage)
	s.NotNil(app.RoomController)
	s.NotNil(app.Hub)
}

func (s *IntegrationSuite) TestRedisStorageRequiresConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestInvalidStorageType() {
	_, err := New(Config{StorageType: "cloud"})
	s.Error(err)
}
