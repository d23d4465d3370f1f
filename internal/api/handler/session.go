package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pixelden/gameroom/internal/api/request"
	"github.com/pixelden/gameroom/internal/api/response"
	"github.com/pixelden/gameroom/internal/model"
	"github.com/pixelden/gameroom/internal/realtime"
	"github.com/pixelden/gameroom/internal/services/session"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessions    *session.Controller
	broadcaster *realtime.Broadcaster
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Controller, hubManager *realtime.HubManager) *SessionHandler {
	var broadcaster *realtime.Broadcaster
	if hubManager != nil {
		broadcaster = realtime.NewBroadcaster(hubManager)
	}
	return &SessionHandler{
		sessions:    sessions,
		broadcaster: broadcaster,
	}
}

// Create handles POST /api/v1/sessions
//
// Creates a standalone session for single-player and practice games;
// multiplayer sessions are created by starting a room's game instead.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	seats := make([]model.Seat, len(req.Seats))
	for i, spec := range req.Seats {
		kind := model.PlayerKind(spec.Kind)
		if kind != model.KindHuman && kind != model.KindAI {
			WriteError(w, NewInvalidRequestError("seat kind must be human or ai"))
			return
		}
		difficulty := model.Difficulty(spec.Difficulty)
		if kind == model.KindAI {
			if difficulty == "" {
				difficulty = model.DifficultyMedium
			}
			if !difficulty.Valid() {
				WriteError(w, NewInvalidRequestError("unknown difficulty"))
				return
			}
		}
		seats[i] = model.Seat{
			PlayerID:    model.PlayerID(spec.PlayerID),
			DisplayName: spec.DisplayName,
			Kind:        kind,
			Difficulty:  difficulty,
		}
	}

	sess, err := h.sessions.CreateSession(r.Context(), model.GameType(req.GameType), seats, nil)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	sess, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Move handles POST /api/v1/sessions/{id}/moves
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if len(req.Move) == 0 {
		WriteError(w, NewInvalidRequestError("move is required"))
		return
	}

	sess, err := h.sessions.ApplyMove(r.Context(), id, model.PlayerID(req.PlayerID), req.Move)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil && sess.RoomID != nil {
		payload := response.SessionFromModel(sess)
		h.broadcaster.Publish(*sess.RoomID, realtime.EventGameState, payload)
		if sess.Phase == model.PhaseGameEnd {
			h.broadcaster.Publish(*sess.RoomID, realtime.EventGameOver, payload)
		}
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Undo handles POST /api/v1/sessions/{id}/undo
func (h *SessionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	sess, err := h.sessions.Undo(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}
