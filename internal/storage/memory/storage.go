package memory

import (
	"context"
	"sync"

	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms         map[model.RoomCode]*model.Room
	questionPairs []model.QuestionPair
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms: make(map[model.RoomCode]*model.Room),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations
//
// Rooms cross the storage boundary as deep copies in both directions, so
// no caller can reach stored state through a retained pointer. Concurrent
// readers (the websocket broadcast path) and the room controller's locked
// writers therefore never share room memory. The redis backend gets the
// same semantics from its JSON round-trip.

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// Question bank operations

func (s *Storage) SaveQuestionPairs(ctx context.Context, pairs []model.QuestionPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionPairs = make([]model.QuestionPair, len(pairs))
	copy(s.questionPairs, pairs)
	return nil
}

func (s *Storage) GetQuestionPairs(ctx context.Context) ([]model.QuestionPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.questionPairs == nil {
		return nil, model.ErrNoQuestions
	}
	result := make([]model.QuestionPair, len(s.questionPairs))
	copy(result, s.questionPairs)
	return result, nil
}
