package model

import "errors"

// Common errors used across the application
var (
	// Rules engine errors
	ErrIllegalMove   = errors.New("illegal move")
	ErrExhaustedDeck = errors.New("deck is exhausted")

	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomCodeTaken      = errors.New("room code already in use")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFinished       = errors.New("game is finished")
	ErrNotInRoom          = errors.New("player is not in room")
	ErrNotHost            = errors.New("player is not the host")
	ErrPlayersNotReady    = errors.New("not all players are ready")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotPlayerTurn     = errors.New("not this player's turn")
	ErrGameComplete      = errors.New("game is already complete")
	ErrUndoUnavailable   = errors.New("undo is not available")
	ErrUnknownGameType   = errors.New("unknown game type")
	ErrInvalidGameState  = errors.New("invalid game state payload")
	ErrInsufficientSeats = errors.New("insufficient seats to start game")
)
