package request

import "encoding/json"

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	GameType    string `json:"game_type"`
	Visibility  string `json:"visibility,omitempty"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// LeaveRoomRequest is the request body for leaving a room
type LeaveRoomRequest struct {
	PlayerID string `json:"player_id"`
}

// SetReadyRequest is the request body for toggling the ready flag
type SetReadyRequest struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// StartGameRequest is the request body for starting a room's game
type StartGameRequest struct {
	PlayerID string `json:"player_id"`
}

// SeatSpec describes one seat when creating a session directly
type SeatSpec struct {
	PlayerID    string `json:"player_id,omitempty"`
	DisplayName string `json:"display_name"`
	Kind        string `json:"kind"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// CreateSessionRequest is the request body for creating a session
// outside a room (single-player and practice games)
type CreateSessionRequest struct {
	GameType string     `json:"game_type"`
	Seats    []SeatSpec `json:"seats"`
}

// MoveRequest is the request body for applying a move
type MoveRequest struct {
	PlayerID string          `json:"player_id"`
	Move     json.RawMessage `json:"move"`
}
