package redis

import (
	"fmt"

	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "fishy"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// questionsKey returns the Redis key for the question bank
func questionsKey() string {
	return fmt.Sprintf("%s:questions", keyPrefix)
}
