package model

import (
	"encoding/json"
	"time"
)

// SessionID uniquely identifies a game session
type SessionID string

// SessionPhase represents the current phase of a session's state machine
type SessionPhase string

const (
	PhaseIdle     SessionPhase = "idle"
	PhaseSetup    SessionPhase = "setup"
	PhasePlaying  SessionPhase = "playing"
	PhaseRoundEnd SessionPhase = "round_end"
	PhaseGameEnd  SessionPhase = "game_end"
)

// RecordedMove is one applied move, kept so a session can be undone by
// replaying history from the initial deal rather than by inverse
// mutation.
type RecordedMove struct {
	Seat int             `json:"seat"`
	Move json.RawMessage `json:"move"`
}

// Session is one run of a game: the seats, the opaque per-family game
// state, and the move history since the initial deal.
type Session struct {
	ID       SessionID    `json:"id"`
	GameType GameType     `json:"game_type"`
	Phase    SessionPhase `json:"phase"`
	Seats    []Seat       `json:"seats"`

	// RoomID is set only for multiplayer sessions
	RoomID *RoomID `json:"room_id,omitempty"`

	// State is the current game state envelope (games.Envelope)
	State json.RawMessage `json:"state"`

	// InitialState is the state immediately after the deal; History
	// replays on top of it
	InitialState json.RawMessage `json:"initial_state"`
	History      []RecordedMove  `json:"history"`

	// Winners holds the winning seat indexes once the phase is
	// game_end; more than one entry means a shared win, none means a
	// draw with no scorer
	Winners []int `json:"winners,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeatOf returns the seat index occupied by the player, or -1
func (s *Session) SeatOf(id PlayerID) int {
	for i, seat := range s.Seats {
		if seat.Kind == KindHuman && seat.PlayerID == id {
			return i
		}
	}
	return -1
}

// IsMultiplayer reports whether the session is attached to a room
func (s *Session) IsMultiplayer() bool {
	return s.RoomID != nil
}
