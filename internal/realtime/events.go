package realtime

import (
	"encoding/json"

	"github.com/pixelden/gameroom/internal/model"
)

// EventType identifies what changed in the room
type EventType string

const (
	EventRoomUpdated  EventType = "room_updated"
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventHostChanged  EventType = "host_changed"
	EventGameStarted  EventType = "game_started"
	EventGameState    EventType = "game_state"
	EventGameOver     EventType = "game_over"
)

// Event is the wire envelope pushed to websocket clients
type Event struct {
	Type    EventType       `json:"type"`
	RoomID  model.RoomID    `json:"room_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Broadcaster publishes room events through the hub manager
type Broadcaster struct {
	hubs *HubManager
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubs *HubManager) *Broadcaster {
	return &Broadcaster{hubs: hubs}
}

// Publish sends an event to every client watching the room. Rooms with
// no watchers are a no-op.
func (b *Broadcaster) Publish(roomID model.RoomID, eventType EventType, payload any) {
	hub := b.hubs.GetHub(roomID)
	if hub == nil {
		return
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		raw = data
	}

	msg, err := json.Marshal(Event{Type: eventType, RoomID: roomID, Payload: raw})
	if err != nil {
		return
	}
	hub.Broadcast(msg)
}
