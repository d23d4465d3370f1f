package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pixelden/gameroom/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) room(id, code string) *model.Room {
	return &model.Room{
		ID:         model.RoomID(id),
		Code:       model.RoomCode(code),
		GameType:   model.GameCrazyEights,
		Visibility: model.VisibilityPublic,
		HostID:     "host",
		Status:     model.RoomStatusWaiting,
		MaxPlayers: 4,
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

func (s *StorageSuite) TestUpdateRoom() {
	room := s.room("room-1", "ABC234")
	s.Require().NoError(s.storage.InsertRoom(s.ctx, room))

	room.Status = model.RoomStatusPlaying
	s.Require().NoError(s.storage.UpdateRoom(s.ctx, room))

	stored, err := s.storage.GetRoomByID(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, stored.Status)
}

func (s *StorageSuite) TestUpdateRoomNotFound() {
	err := s.storage.UpdateRoom(s.ctx, s.room("ghost", "GHOST2"))
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoomFreesCode() {
	s.Require().NoError(s.storage.InsertRoom(s.ctx, s.room("room-1", "ABC234")))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoomByID(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	s.NoError(s.storage.InsertRoom(s.ctx, s.room("room-2", "ABC234")),
		"a deleted room's code is reusable")
}

func (s *StorageSuite) TestDeleteRoomIdempotent() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestListOpenRooms() {
	open := s.room("room-1", "CODE01")
	s.Require().NoError(s.storage.InsertRoom(s.ctx, open))

	playing := s.room("room-2", "CODE02")
	playing.Status = model.RoomStatusPlaying
	s.Require().NoError(s.storage.InsertRoom(s.ctx, playing))

	private := s.room("room-3", "CODE03")
	private.Visibility = model.VisibilityPrivate
	s.Require().NoError(s.storage.InsertRoom(s.ctx, private))

	full := s.room("room-4", "CODE04")
	full.MaxPlayers = 1
	s.Require().NoError(s.storage.InsertRoom(s.ctx, full))

	rooms, err := s.storage.ListOpenRooms(s.ctx, "", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.RoomID("room-1"), rooms[0].ID)
}

func (s *StorageSuite) TestListOpenRoomsGameTypeFilter() {
	eights := s.room("room-1", "CODE01")
	s.Require().NoError(s.storage.InsertRoom(s.ctx, eights))

	othello := s.room("room-2", "CODE02")
	othello.GameType = model.GameReversi
	othello.MaxPlayers = 2
	s.Require().NoError(s.storage.InsertRoom(s.ctx, othello))

	rooms, err := s.storage.ListOpenRooms(s.ctx, model.GameReversi, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.RoomID("room-2"), rooms[0].ID)
}

func (s *StorageSuite) TestListOpenRoomsOrderingAndPaging() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		room := s.room(fmt.Sprintf("room-%d", i), fmt.Sprintf("CODE%02d", i))
		room.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.storage.InsertRoom(s.ctx, room))
	}

	rooms, err := s.storage.ListOpenRooms(s.ctx, "", 2, 0)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("room-4"), rooms[0].ID, "newest room lists first")
	s.Equal(model.RoomID("room-3"), rooms[1].ID)

	rooms, err = s.storage.ListOpenRooms(s.ctx, "", 2, 4)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.RoomID("room-0"), rooms[0].ID)

	rooms, err = s.storage.ListOpenRooms(s.ctx, "", 2, 10)
	s.Require().NoError(err)
	s.Empty(rooms)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	sess := &model.Session{
		ID:       "sess-1",
		GameType: model.GameReversi,
		Phase:    model.PhasePlaying,
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	stored, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(sess.GameType, stored.GameType)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	sess := &model.Session{ID: "sess-1", GameType: model.GameReversi}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "sess-1"))

	_, err := s.storage.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
