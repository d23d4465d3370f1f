package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/pixelden/gameroom/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) room(id, code string) *model.Room {
	return &model.Room{
		ID:         model.RoomID(id),
		Code:       model.RoomCode(code),
		GameType:   model.GameGoFish,
		Visibility: model.VisibilityPublic,
		HostID:     "host",
		Status:     model.RoomStatusWaiting,
		MaxPlayers: 5,
		Players: []model.RoomPlayer{
			{PlayerID: "host", DisplayName: "Host", IsHost: true, IsConnected: true},
		},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Room tests

func (s *StorageSuite) TestInsertAndGetRoom() {
	room := s.room("room-1", "ABC234")
	s.Require().NoError(s.storage.InsertRoom(s.ctx, room))

	byID, err := s.storage.GetRoomByID(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.Code, byID.Code)
	s.Len(byID.Players, 1)

	byCode, err := s.storage.GetRoomByCode(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(room.ID, byCode.ID)
}

func (s *StorageSuite) TestInsertRoomDuplicateCode() {
	s.Require().NoError(s.storage.InsertRoom(s.ctx, s.room("room-1", "ABC234")))

	err := s.storage.InsertRoom(s.ctx, s.room("room-2", "ABC234"))
	s.ErrorIs(err, model.ErrRoomCodeTaken)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoomByID(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.storage.GetRoomByCode(s.ctx, "NOCODE")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestUpdateRoomDropsFromOpenIndex() {
	room := s.room("room-1", "ABC234")
	s.Require().NoError(s.storage.InsertRoom(s.ctx, room))

	rooms, err := s.storage.ListOpenRooms(s.ctx, "", 10, 0)
	s.Require().NoError(err)
	s.Len(rooms, 1)

	room.Status = model.RoomStatusPlaying
	s.Require().NoError(s.storage.UpdateRoom(s.ctx, room))

	rooms, err = s.storage.ListOpenRooms(s.ctx, "", 10, 0)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestDeleteRoomFreesCode() {
	s.Require().NoError(s.storage.InsertRoom(s.ctx, s.room("room-1", "ABC234")))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoomByID(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	s.NoError(s.storage.InsertRoom(s.ctx, s.room("room-2", "ABC234")))
}

func (s *StorageSuite) TestDeleteRoomIdempotent() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestListOpenRoomsSkipsExpiredEntries() {
	room := s.room("room-1", "ABC234")
	s.Require().NoError(s.storage.InsertRoom(s.ctx, room))

	// The room blob expires while the open index entry lingers
	s.mini.FastForward(2 * time.Hour)

	rooms, err := s.storage.ListOpenRooms(s.ctx, "", 10, 0)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestListOpenRoomsGameTypeFilter() {
	s.Require().NoError(s.storage.InsertRoom(s.ctx, s.room("room-1", "CODE01")))

	othello := s.room("room-2", "CODE02")
	othello.GameType = model.GameReversi
	othello.MaxPlayers = 2
	s.Require().NoError(s.storage.InsertRoom(s.ctx, othello))

	rooms, err := s.storage.ListOpenRooms(s.ctx, model.GameReversi, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.RoomID("room-2"), rooms[0].ID)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	sess := &model.Session{
		ID:       "sess-1",
		GameType: model.GameBaccarat,
		Phase:    model.PhaseRoundEnd,
		Seats:    []model.Seat{{PlayerID: "p1", Kind: model.KindHuman}},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	stored, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(sess.GameType, stored.GameType)
	s.Equal(sess.Phase, stored.Phase)
	s.Len(stored.Seats, 1)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExpiry() {
	sess := &model.Session{ID: "sess-1", GameType: model.GameReversi}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	sess := &model.Session{ID: "sess-1", GameType: model.GameReversi}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "sess-1"))

	_, err := s.storage.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
