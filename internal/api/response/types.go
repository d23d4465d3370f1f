package response

import (
	"encoding/json"
	"time"

	"github.com/pixelden/gameroom/internal/model"
)

// RoomPlayer is a room member in API responses
type RoomPlayer struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	IsReady     bool      `json:"is_ready"`
	IsConnected bool      `json:"is_connected"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Room is a room in API responses
type Room struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	GameType   string          `json:"game_type"`
	Visibility string          `json:"visibility"`
	Status     string          `json:"status"`
	HostID     string          `json:"host_id"`
	MaxPlayers int             `json:"max_players"`
	Players    []RoomPlayer    `json:"players"`
	GameState  json.RawMessage `json:"game_state,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// RoomFromModel converts a model room to its API representation
func RoomFromModel(room *model.Room) Room {
	players := make([]RoomPlayer, len(room.Players))
	for i, p := range room.Players {
		players[i] = RoomPlayer{
			PlayerID:    string(p.PlayerID),
			DisplayName: p.DisplayName,
			IsHost:      p.IsHost,
			IsReady:     p.IsReady,
			IsConnected: p.IsConnected,
			JoinedAt:    p.JoinedAt,
		}
	}
	return Room{
		ID:         string(room.ID),
		Code:       string(room.Code),
		GameType:   string(room.GameType),
		Visibility: string(room.Visibility),
		Status:     string(room.Status),
		HostID:     string(room.HostID),
		MaxPlayers: room.MaxPlayers,
		Players:    players,
		GameState:  room.GameState,
		CreatedAt:  room.CreatedAt,
		StartedAt:  room.StartedAt,
		FinishedAt: room.FinishedAt,
	}
}

// RoomList is a paginated room listing
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a room slice to its API representation
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := RoomList{Rooms: make([]Room, len(rooms))}
	for i, room := range rooms {
		out.Rooms[i] = RoomFromModel(room)
	}
	return out
}

// Seat is a session seat in API responses
type Seat struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Kind        string `json:"kind"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// Session is a game session in API responses
type Session struct {
	ID        string          `json:"id"`
	GameType  string          `json:"game_type"`
	Phase     string          `json:"phase"`
	Seats     []Seat          `json:"seats"`
	RoomID    string          `json:"room_id,omitempty"`
	State     json.RawMessage `json:"state"`
	Moves     int             `json:"moves"`
	Winners   []int           `json:"winners,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SessionFromModel converts a model session to its API representation
func SessionFromModel(sess *model.Session) Session {
	seats := make([]Seat, len(sess.Seats))
	for i, s := range sess.Seats {
		seats[i] = Seat{
			PlayerID:    string(s.PlayerID),
			DisplayName: s.DisplayName,
			Kind:        string(s.Kind),
			Difficulty:  string(s.Difficulty),
		}
	}
	out := Session{
		ID:        string(sess.ID),
		GameType:  string(sess.GameType),
		Phase:     string(sess.Phase),
		Seats:     seats,
		State:     sess.State,
		Moves:     len(sess.History),
		Winners:   sess.Winners,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	if sess.RoomID != nil {
		out.RoomID = string(*sess.RoomID)
	}
	return out
}

// StartedGame pairs the playing room with its session
type StartedGame struct {
	Room    Room    `json:"room"`
	Session Session `json:"session"`
}
