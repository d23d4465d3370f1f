package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pixelden/gameroom/internal/api/request"
	"github.com/pixelden/gameroom/internal/api/response"
	"github.com/pixelden/gameroom/internal/model"
	"github.com/pixelden/gameroom/internal/realtime"
	"github.com/pixelden/gameroom/internal/services/room"
	"github.com/pixelden/gameroom/internal/services/session"
)

// maxCreateAttempts bounds retries when a generated join code collides
const maxCreateAttempts = 5

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms       *room.Coordinator
	sessions    *session.Controller
	hubManager  *realtime.HubManager
	broadcaster *realtime.Broadcaster
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Coordinator, sessions *session.Controller, hubManager *realtime.HubManager) *RoomHandler {
	var broadcaster *realtime.Broadcaster
	if hubManager != nil {
		broadcaster = realtime.NewBroadcaster(hubManager)
	}
	return &RoomHandler{
		rooms:       rooms,
		sessions:    sessions,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// publish sends a room event if realtime is wired up
func (h *RoomHandler) publish(roomID model.RoomID, eventType realtime.EventType, payload any) {
	if h.broadcaster != nil {
		h.broadcaster.Publish(roomID, eventType, payload)
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" || req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("player_id and display_name are required"))
		return
	}

	visibility := model.VisibilityPublic
	if req.Visibility == string(model.VisibilityPrivate) {
		visibility = model.VisibilityPrivate
	}

	// The coordinator makes a single code generation attempt; retry a
	// few times here if the code is already claimed
	var created *model.Room
	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		created, err = h.rooms.CreateRoom(r.Context(),
			model.GameType(req.GameType), visibility,
			model.PlayerID(req.PlayerID), req.DisplayName)
		if !errors.Is(err, model.ErrRoomCodeTaken) {
			break
		}
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameType := model.GameType(q.Get("game_type"))
	if gameType != "" && !gameType.Valid() {
		WriteError(w, model.ErrUnknownGameType)
		return
	}

	limit := 50
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	rooms, err := h.rooms.ListOpenRooms(r.Context(), gameType, limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomListFromModel(rooms))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	found, err := h.rooms.GetRoomByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(found))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" || req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("player_id and display_name are required"))
		return
	}

	joined, err := h.rooms.JoinRoom(r.Context(), code, model.PlayerID(req.PlayerID), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(joined.ID, realtime.EventPlayerJoined, response.RoomFromModel(joined))
	response.JSON(w, http.StatusOK, response.RoomFromModel(joined))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.LeaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	found, err := h.rooms.GetRoomByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	hadHost := found.HostID

	if err := h.rooms.LeaveRoom(r.Context(), found.ID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	// Room may be gone if the last player left
	remaining, err := h.rooms.GetRoom(r.Context(), found.ID)
	if err != nil {
		if h.hubManager != nil {
			h.hubManager.RemoveHub(found.ID)
		}
		response.NoContent(w)
		return
	}

	h.publish(remaining.ID, realtime.EventPlayerLeft, response.RoomFromModel(remaining))
	if remaining.HostID != hadHost {
		h.publish(remaining.ID, realtime.EventHostChanged, response.RoomFromModel(remaining))
	}
	response.NoContent(w)
}

// SetReady handles POST /api/v1/rooms/{code}/ready
func (h *RoomHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.SetReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	found, err := h.rooms.GetRoomByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.rooms.SetPlayerReady(r.Context(), found.ID, model.PlayerID(req.PlayerID), req.Ready)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(updated.ID, realtime.EventRoomUpdated, response.RoomFromModel(updated))
	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}

// Start handles POST /api/v1/rooms/{code}/start
//
// The session is dealt first, then the room transitions to playing
// with the session's initial state as its game state blob.
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	found, err := h.rooms.GetRoomByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	seats := make([]model.Seat, len(found.Players))
	for i, p := range found.Players {
		seats[i] = model.Seat{
			PlayerID:    p.PlayerID,
			DisplayName: p.DisplayName,
			Kind:        model.KindHuman,
		}
	}

	sess, err := h.sessions.CreateSession(r.Context(), found.GameType, seats, &found.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	started, err := h.rooms.StartGame(r.Context(), found.ID, model.PlayerID(req.PlayerID), sess.State)
	if err != nil {
		// Roll back the orphaned session
		h.sessions.DiscardSession(context.WithoutCancel(r.Context()), sess.ID)
		WriteError(w, err)
		return
	}

	payload := response.StartedGame{
		Room:    response.RoomFromModel(started),
		Session: response.SessionFromModel(sess),
	}
	h.publish(started.ID, realtime.EventGameStarted, payload)
	response.JSON(w, http.StatusOK, payload)
}

// Watch handles GET /api/v1/rooms/{code}/ws
//
// Upgrades to a websocket delivering room events. The player is
// marked disconnected when the socket drops.
func (h *RoomHandler) Watch(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		WriteError(w, NewInvalidRequestError("realtime is not enabled"))
		return
	}

	code := model.RoomCode(mux.Vars(r)["code"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id query parameter is required"))
		return
	}

	found, err := h.rooms.GetRoomByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if found.GetPlayer(playerID) == nil {
		WriteError(w, model.ErrNotInRoom)
		return
	}

	hub := h.hubManager.GetOrCreateHub(found.ID)
	roomID := found.ID
	err = realtime.ServeWS(w, r, hub, playerID, func() {
		ctx := context.Background()
		if err := h.rooms.MarkDisconnected(ctx, roomID, playerID); err == nil {
			if updated, err := h.rooms.GetRoom(ctx, roomID); err == nil {
				h.publish(roomID, realtime.EventRoomUpdated, response.RoomFromModel(updated))
			}
		}
	})
	if err != nil {
		// Upgrade failed; the upgrader already wrote the error
		return
	}
}
