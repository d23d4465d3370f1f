// Package room coordinates multiplayer rooms: join codes, membership,
// readiness, host migration, and the shared game state blob.
package room

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pixelden/gameroom/internal/dependencies/clock"
	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/model"
	"github.com/pixelden/gameroom/internal/storage"
)

const (
	// RoomCodeLength is the length of generated join codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in join codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Coordinator manages room lifecycle and member operations
type Coordinator struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewCoordinator creates a new room Coordinator
func NewCoordinator(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "room-coordinator")),
	}
}

// CreateRoom creates a new room with the given player as host. Code
// generation makes a single attempt; on a collision the storage error
// ErrRoomCodeTaken is returned and the caller decides whether to retry.
func (c *Coordinator) CreateRoom(
	ctx context.Context,
	gameType model.GameType,
	visibility model.Visibility,
	hostID model.PlayerID,
	hostName string,
) (*model.Room, error) {
	if !gameType.Valid() {
		return nil, model.ErrUnknownGameType
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:         model.RoomID(uuid.NewString()),
		Code:       model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet)),
		GameType:   gameType,
		Visibility: visibility,
		HostID:     hostID,
		Status:     model.RoomStatusWaiting,
		MaxPlayers: gameType.MaxPlayers(),
		Players: []model.RoomPlayer{
			{
				PlayerID:    hostID,
				DisplayName: hostName,
				IsHost:      true,
				IsReady:     false,
				IsConnected: true,
				JoinedAt:    now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.InsertRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("code", string(room.Code)),
		slog.String("game_type", string(gameType)),
	)
	return room, nil
}

// GetRoom retrieves a room by ID
func (c *Coordinator) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoomByID(ctx, id)
}

// GetRoomByCode retrieves a room by join code
func (c *Coordinator) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoomByCode(ctx, code)
}

// ListOpenRooms lists public rooms still accepting players
func (c *Coordinator) ListOpenRooms(ctx context.Context, gameType model.GameType, limit, offset int) ([]*model.Room, error) {
	return c.storage.ListOpenRooms(ctx, gameType, limit, offset)
}

// JoinRoom adds a player to a room by join code. A player already in
// the room is reconnected rather than rejected, so a dropped client
// can rejoin with the same code.
func (c *Coordinator) JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID, displayName string) (*model.Room, error) {
	room, err := c.storage.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if existing := room.GetPlayer(playerID); existing != nil {
		existing.IsConnected = true
		room.UpdatedAt = c.clock.Now()
		if err := c.storage.UpdateRoom(ctx, room); err != nil {
			return nil, err
		}
		return room, nil
	}

	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrGameAlreadyStarted
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.Players = append(room.Players, model.RoomPlayer{
		PlayerID:    playerID,
		DisplayName: displayName,
		IsHost:      false,
		IsReady:     false,
		IsConnected: true,
		JoinedAt:    c.clock.Now(),
	})
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// LeaveRoom removes a player from a room. An emptied room is deleted;
// if the host left, the longest-seated remaining player inherits the
// host role.
func (c *Coordinator) LeaveRoom(ctx context.Context, id model.RoomID, playerID model.PlayerID) error {
	room, err := c.storage.GetRoomByID(ctx, id)
	if err != nil {
		return err
	}

	member := room.GetPlayer(playerID)
	if member == nil {
		return model.ErrNotInRoom
	}
	wasHost := member.IsHost

	for i, p := range room.Players {
		if p.PlayerID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		return c.storage.DeleteRoom(ctx, id)
	}

	if wasHost {
		next := c.migrateHost(room)
		c.logger.Info("host migrated",
			slog.String("room_id", string(room.ID)),
			slog.String("new_host", string(next)),
		)
	}

	room.UpdatedAt = c.clock.Now()
	return c.storage.UpdateRoom(ctx, room)
}

// migrateHost promotes the earliest-joined remaining player, breaking
// JoinedAt ties by player ID so every node picks the same host
func (c *Coordinator) migrateHost(room *model.Room) model.PlayerID {
	best := 0
	for i := 1; i < len(room.Players); i++ {
		p, b := room.Players[i], room.Players[best]
		if p.JoinedAt.Before(b.JoinedAt) ||
			(p.JoinedAt.Equal(b.JoinedAt) && p.PlayerID < b.PlayerID) {
			best = i
		}
	}
	room.Players[best].IsHost = true
	room.HostID = room.Players[best].PlayerID
	return room.HostID
}

// SetPlayerReady toggles a player's ready flag
func (c *Coordinator) SetPlayerReady(ctx context.Context, id model.RoomID, playerID model.PlayerID, ready bool) (*model.Room, error) {
	room, err := c.storage.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrGameAlreadyStarted
	}

	member := room.GetPlayer(playerID)
	if member == nil {
		return nil, model.ErrNotInRoom
	}
	member.IsReady = ready
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// StartGame transitions the room to playing with the given initial
// game state. Only the host may start, and only once every seated
// player has marked ready.
func (c *Coordinator) StartGame(ctx context.Context, id model.RoomID, requestingPlayer model.PlayerID, initialState json.RawMessage) (*model.Room, error) {
	room, err := c.storage.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.HostID != requestingPlayer {
		return nil, model.ErrNotHost
	}
	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrGameAlreadyStarted
	}
	if !room.AllReady() {
		return nil, model.ErrPlayersNotReady
	}

	now := c.clock.Now()
	room.Status = model.RoomStatusPlaying
	room.GameState = initialState
	room.StartedAt = &now
	room.UpdatedAt = now

	if err := c.storage.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("room_id", string(room.ID)),
		slog.String("game_type", string(room.GameType)),
		slog.Int("players", len(room.Players)),
	)
	return room, nil
}

// UpdateGameState overwrites the room's game state blob. The blob is
// opaque to the coordinator and updates are last-write-wins; callers
// that need ordering serialize above this layer.
func (c *Coordinator) UpdateGameState(ctx context.Context, id model.RoomID, state json.RawMessage) error {
	room, err := c.storage.GetRoomByID(ctx, id)
	if err != nil {
		return err
	}
	if room.Status != model.RoomStatusPlaying {
		return model.ErrGameFinished
	}

	room.GameState = state
	room.UpdatedAt = c.clock.Now()
	return c.storage.UpdateRoom(ctx, room)
}

// EndGame transitions a playing room to finished
func (c *Coordinator) EndGame(ctx context.Context, id model.RoomID) error {
	room, err := c.storage.GetRoomByID(ctx, id)
	if err != nil {
		return err
	}
	if room.Status != model.RoomStatusPlaying {
		return model.ErrGameFinished
	}

	now := c.clock.Now()
	room.Status = model.RoomStatusFinished
	room.FinishedAt = &now
	room.UpdatedAt = now
	return c.storage.UpdateRoom(ctx, room)
}

// MarkDisconnected flags a player as disconnected without removing
// them, preserving their seat for a reconnect
func (c *Coordinator) MarkDisconnected(ctx context.Context, id model.RoomID, playerID model.PlayerID) error {
	room, err := c.storage.GetRoomByID(ctx, id)
	if err != nil {
		return err
	}

	member := room.GetPlayer(playerID)
	if member == nil {
		return model.ErrNotInRoom
	}
	member.IsConnected = false
	room.UpdatedAt = c.clock.Now()
	return c.storage.UpdateRoom(ctx, room)
}
