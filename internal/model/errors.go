package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrRoomNotWaiting      = errors.New("game already in progress")
	ErrGameNotStarted      = errors.New("game has not started")
	ErrGameFinished        = errors.New("game is already finished")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrInvalidSession = errors.New("invalid or expired session")

	// Guess errors
	ErrNotYourTurn    = errors.New("player is not the guesser")
	ErrInvalidTarget  = errors.New("invalid guess target")
	ErrAlreadyGuessed = errors.New("player has already been guessed this round")

	// Question bank errors. ErrNoQuestions is a configuration failure and is
	// fatal at room creation, never surfaced mid-game.
	ErrNoQuestions = errors.New("question bank is empty")
)
