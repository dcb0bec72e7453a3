package factory

import (
	"time"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/mocks"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/session"
	"github.com/yuvrajy/SomethingFishy/internal/storage/memory"
	"github.com/yuvrajy/SomethingFishy/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestQuestions loads a small question bank for testing
func (t *TestApp) LoadTestQuestions() error {
	return t.QuestionService.LoadPairs([]model.QuestionPair{
		{Question: "What is your favorite food?", Answer: "Pizza"},
		{Question: "Where did you last travel?", Answer: "Norway"},
		{Question: "What was your first pet's name?", Answer: "Biscuit"},
		{Question: "What is your hidden talent?", Answer: "Juggling"},
		{Question: "What did you want to be as a kid?", Answer: "Astronaut"},
		{Question: "What is your favorite movie?", Answer: "Jaws"},
		{Question: "What is the strangest thing you own?", Answer: "A taxidermied duck"},
		{Question: "What was your worst job?", Answer: "Dishwasher"},
	})
}
