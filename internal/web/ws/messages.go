package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgStartGame    MessageType = "start_game"
	MsgMakeGuess    MessageType = "make_guess"
	MsgSkipQuestion MessageType = "skip_question"
	MsgPing         MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected          MessageType = "connected"
	MsgError              MessageType = "error"
	MsgSnapshot           MessageType = "snapshot"
	MsgGameStarted        MessageType = "game_started"
	MsgGuessResult        MessageType = "guess_result"
	MsgGameOver           MessageType = "game_over"
	MsgPlayerJoined       MessageType = "player_joined"
	MsgPlayerLeft         MessageType = "player_left"
	MsgPlayerDisconnected MessageType = "player_disconnected"
	MsgPlayerReconnected  MessageType = "player_reconnected"
	MsgPong               MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a server message stamped with the given time
func NewServerMessage(msgType MessageType, payload interface{}, now time.Time) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// MakeGuessPayload is the payload for make_guess
type MakeGuessPayload struct {
	TargetID int `json:"target_id"`
}

// Server message payloads

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerEventPayload accompanies join/leave/connection events
type PlayerEventPayload struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
}

// Error codes
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeRoomNotFound     = "ROOM_NOT_FOUND"
	ErrCodeGameNotStarted   = "GAME_NOT_STARTED"
	ErrCodeGameFinished     = "GAME_FINISHED"
	ErrCodeGameInProgress   = "GAME_IN_PROGRESS"
	ErrCodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	ErrCodeNotYourTurn      = "NOT_YOUR_TURN"
	ErrCodeInvalidTarget    = "INVALID_TARGET"
	ErrCodeAlreadyGuessed   = "ALREADY_GUESSED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)
