package model

import (
	"encoding/json"
	"time"
)

// RoomID uniquely identifies a room
type RoomID string

// RoomCode is the short human-typeable identifier used to join a room
// out-of-band
type RoomCode string

// GameType identifies a rules-engine family
type GameType string

const (
	GameReversi     GameType = "reversi"
	GameCrazyEights GameType = "crazy_eights"
	GameGoFish      GameType = "go_fish"
	GameBaccarat    GameType = "baccarat"
)

// Valid reports whether t is a supported game type
func (t GameType) Valid() bool {
	switch t {
	case GameReversi, GameCrazyEights, GameGoFish, GameBaccarat:
		return true
	}
	return false
}

// MaxPlayers returns the seat limit for the game type
func (t GameType) MaxPlayers() int {
	switch t {
	case GameReversi:
		return 2
	case GameBaccarat:
		return 1
	case GameCrazyEights, GameGoFish:
		return 6
	default:
		return 0
	}
}

// Visibility controls whether a waiting room is listed publicly
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// RoomStatus represents the lifecycle state of a room
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// RoomPlayer is a player's membership in a room. It exists only as
// part of a Room's Players list.
type RoomPlayer struct {
	PlayerID    PlayerID  `json:"player_id"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	IsReady     bool      `json:"is_ready"`
	IsConnected bool      `json:"is_connected"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Room is a shared multiplayer session. GameState is an opaque blob
// owned by the game session controller; the room layer never inspects
// its shape.
type Room struct {
	ID         RoomID          `json:"id"`
	Code       RoomCode        `json:"code"`
	GameType   GameType        `json:"game_type"`
	Visibility Visibility      `json:"visibility"`
	HostID     PlayerID        `json:"host_id"`
	Status     RoomStatus      `json:"status"`
	MaxPlayers int             `json:"max_players"`
	Players    []RoomPlayer    `json:"players"`
	GameState  json.RawMessage `json:"game_state,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// GetPlayer returns the room player with the given ID, or nil
func (r *Room) GetPlayer(id PlayerID) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].PlayerID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// IsFull reports whether the room has reached its seat limit
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// AllReady reports whether every player has marked ready
func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}
