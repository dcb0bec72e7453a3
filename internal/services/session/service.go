package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/clock"
	"github.com/yuvrajy/SomethingFishy/internal/model"
)

// Session binds an opaque token to a player's seat in a room. Tokens are
// handed out when a player joins over HTTP and presented again when the
// websocket connects, so the socket never has to trust client-supplied
// player IDs.
type Session struct {
	Token     string
	RoomCode  model.RoomCode
	PlayerID  model.PlayerID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service issues and validates session tokens
type Service struct {
	clock clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the session service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new session service
func New(clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Create issues a token for a player's seat in a room
func (s *Service) Create(code model.RoomCode, playerID model.PlayerID) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     uuid.NewString(),
		RoomCode:  code,
		PlayerID:  playerID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// Validate checks a token and returns its session
func (s *Service) Validate(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, model.ErrInvalidSession
	}

	return session, nil
}

// Invalidate removes a session
func (s *Service) Invalidate(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// InvalidateRoom removes every session bound to a room
func (s *Service) InvalidateRoom(code model.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.RoomCode == code {
			delete(s.sessions, token)
		}
	}
}

// CleanExpired removes expired sessions and reports how many were removed
// (call periodically)
func (s *Service) CleanExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Interface for dependency injection
type ServiceInterface interface {
	Create(code model.RoomCode, playerID model.PlayerID) *Session
	Validate(token string) (*Session, error)
	Invalidate(token string)
	InvalidateRoom(code model.RoomCode)
	CleanExpired() int
}

var _ ServiceInterface = (*Service)(nil)
