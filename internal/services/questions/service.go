package questions

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/random"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/storage"
)

// Service supplies random question/answer pairs, drawn without replacement
// per room until the bank is exhausted, then recycled.
type Service struct {
	storage storage.Storage
	random  random.Random

	mu     sync.RWMutex
	pairs  []model.QuestionPair
	loaded bool
}

// New creates a new question bank service
func New(storage storage.Storage, random random.Random) *Service {
	return &Service{
		storage: storage,
		random:  random,
	}
}

// LoadFromStorage loads question pairs from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	pairs, err := s.storage.GetQuestionPairs(ctx)
	if err != nil {
		return err
	}
	return s.loadPairs(pairs)
}

// LoadFromFile loads question pairs from a file. Each line holds
// "question;answer" split on the first semicolon; blank lines are skipped.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var pairs []model.QuestionPair
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		question, answer, found := strings.Cut(line, ";")
		if !found {
			return fmt.Errorf("questions file %s line %d: missing semicolon", path, lineNo)
		}
		pairs = append(pairs, model.QuestionPair{
			Question: strings.TrimSpace(question),
			Answer:   strings.TrimSpace(answer),
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Save to storage for future use
	if err := s.storage.SaveQuestionPairs(ctx, pairs); err != nil {
		return err
	}

	return s.loadPairs(pairs)
}

// LoadPairs directly loads question pairs (useful for testing)
func (s *Service) LoadPairs(pairs []model.QuestionPair) error {
	return s.loadPairs(pairs)
}

func (s *Service) loadPairs(pairs []model.QuestionPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs = make([]model.QuestionPair, len(pairs))
	copy(s.pairs, pairs)
	s.loaded = true
	return nil
}

// IsLoaded returns whether the question bank has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Count returns the number of pairs in the bank
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}

// Draw returns a pair chosen uniformly at random from all pairs not in the
// used set, and marks it used. When every pair has been served the used set
// is cleared first, so exhaustion recycles seamlessly and is never an error.
// Fails with ErrNoQuestions only if the bank is empty entirely.
func (s *Service) Draw(used map[string]bool) (model.QuestionPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.pairs) == 0 {
		return model.QuestionPair{}, model.ErrNoQuestions
	}

	unused := s.unusedLocked(used)
	if len(unused) == 0 {
		for q := range used {
			delete(used, q)
		}
		unused = s.unusedLocked(used)
	}

	pair := unused[s.random.Intn(len(unused))]
	used[pair.Question] = true
	return pair, nil
}

func (s *Service) unusedLocked(used map[string]bool) []model.QuestionPair {
	unused := make([]model.QuestionPair, 0, len(s.pairs))
	for _, p := range s.pairs {
		if !used[p.Question] {
			unused = append(unused, p)
		}
	}
	return unused
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadPairs(pairs []model.QuestionPair) error
	IsLoaded() bool
	Count() int
	Draw(used map[string]bool) (model.QuestionPair, error)
}

var _ ServiceInterface = (*Service)(nil)
