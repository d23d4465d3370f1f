package storage

import (
	"context"

	"github.com/pixelden/gameroom/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	InsertRoom(ctx context.Context, room *model.Room) error
	GetRoomByID(ctx context.Context, id model.RoomID) (*model.Room, error)
	GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error)
	UpdateRoom(ctx context.Context, room *model.Room) error
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListOpenRooms(ctx context.Context, gameType model.GameType, limit, offset int) ([]*model.Room, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
}
