package storage

import (
	"context"

	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Question bank operations
	SaveQuestionPairs(ctx context.Context, pairs []model.QuestionPair) error
	GetQuestionPairs(ctx context.Context) ([]model.QuestionPair, error)
}
