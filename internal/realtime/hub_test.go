package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pixelden/gameroom/internal/model"
	"github.com/pixelden/gameroom/internal/testutil"
)

// newTestClient builds a client with a live send channel and no
// underlying socket
func newTestClient(hub *Hub, playerID model.PlayerID) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("room-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := newTestClient(hub, "player1")
	hub.Register(client)

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Broadcast([]byte(`{"type":"room_updated"}`))

	select {
	case msg := <-client.send:
		if string(msg) != `{"type":"room_updated"}` {
			t.Errorf("client received %q", string(msg))
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("room-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := newTestClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}

	// The send channel is closed so the write pump shuts down
	if _, open := <-client.send; open {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := NewHub("room-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	clients := []*Client{
		newTestClient(hub, "player1"),
		newTestClient(hub, "player2"),
		newTestClient(hub, "player3"),
	}
	for _, c := range clients {
		hub.Register(c)
	}
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 3 {
		t.Errorf("ClientCount() = %d, want 3", hub.ClientCount())
	}

	hub.Broadcast([]byte(`{}`))

	for i, c := range clients {
		select {
		case <-c.send:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_SlowClientDropsMessagesWithoutBlocking(t *testing.T) {
	hub := NewHub("room-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	slow := newTestClient(hub, "slow")
	slow.send = make(chan []byte) // unbuffered and never drained
	hub.Register(slow)
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Broadcast([]byte(`{}`))
		}
		time.Sleep(10 * time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("broadcast blocked on a slow client")
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub1 := manager.GetOrCreateHub("room-1")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}

	hub2 := manager.GetOrCreateHub("room-1")
	if hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same room")
	}

	hub3 := manager.GetOrCreateHub("room-2")
	if hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different room")
	}

	manager.RemoveHub("room-1")
	manager.RemoveHub("room-2")
}

func TestHubManager_GetHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	if manager.GetHub("missing") != nil {
		t.Error("GetHub returned non-nil for non-existent hub")
	}

	created := manager.GetOrCreateHub("room-1")
	if manager.GetHub("room-1") != created {
		t.Error("GetHub returned different hub than GetOrCreateHub")
	}

	manager.RemoveHub("room-1")
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("room-1")
	manager.RemoveHub("room-1")

	if manager.GetHub("room-1") != nil {
		t.Error("hub still exists after RemoveHub")
	}

	// Removing a non-existent hub should not panic
	manager.RemoveHub("missing")
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("empty")

	active := manager.GetOrCreateHub("active")
	active.Register(newTestClient(active, "player1"))
	time.Sleep(10 * time.Millisecond)

	manager.CleanupEmptyHubs()

	if manager.GetHub("empty") != nil {
		t.Error("empty hub still exists after cleanup")
	}
	if manager.GetHub("active") == nil {
		t.Error("active hub was removed during cleanup")
	}

	manager.RemoveHub("active")
}

func TestBroadcaster_Publish(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager)

	// Publishing to a room with no hub is a no-op
	broadcaster.Publish("missing", EventRoomUpdated, nil)

	hub := manager.GetOrCreateHub("room-1")
	defer manager.RemoveHub("room-1")
	client := newTestClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.Publish("room-1", EventGameState, map[string]int{"turn": 1})

	select {
	case msg := <-client.send:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		if event.Type != EventGameState {
			t.Errorf("event type = %q, want %q", event.Type, EventGameState)
		}
		if event.RoomID != "room-1" {
			t.Errorf("room id = %q, want room-1", event.RoomID)
		}
		if string(event.Payload) != `{"turn":1}` {
			t.Errorf("payload = %s", event.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive published event")
	}
}
