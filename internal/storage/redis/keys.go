package redis

import (
	"fmt"

	"github.com/pixelden/gameroom/internal/model"
)

// Key prefix for all room service data
const keyPrefix = "gameroom"

// Key generation functions for each entity type

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// codeIndexKey returns the Redis key for the join_code -> room_id index
func codeIndexKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:idx:code:%s", keyPrefix, code)
}

// openRoomsIndexKey returns the Redis key for the SET of publicly listed rooms
func openRoomsIndexKey() string {
	return fmt.Sprintf("%s:idx:open_rooms", keyPrefix)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}
