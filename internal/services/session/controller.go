// Package session drives the turn state machine for one run of a
// game: it validates and applies moves through the rules engines,
// hands AI seats to the strategy module, and tracks the move history
// that undo replays from.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pixelden/gameroom/internal/dependencies/clock"
	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/games"
	"github.com/pixelden/gameroom/internal/games/baccarat"
	"github.com/pixelden/gameroom/internal/games/crazyeights"
	"github.com/pixelden/gameroom/internal/games/gofish"
	"github.com/pixelden/gameroom/internal/games/reversi"
	"github.com/pixelden/gameroom/internal/model"
	"github.com/pixelden/gameroom/internal/services/ai"
	"github.com/pixelden/gameroom/internal/services/room"
	"github.com/pixelden/gameroom/internal/storage"
)

// MaxAIIterations caps the cascading AI loop as a safety limit
const MaxAIIterations = 256

// Controller manages game sessions. Multiplayer sessions funnel every
// move through a per-room mutex before the room's game state is
// updated, because the room coordinator is last-write-wins.
type Controller struct {
	storage storage.Storage
	rooms   *room.Coordinator
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	roomLocks sync.Map // model.RoomID -> *sync.Mutex
}

// NewController creates a session Controller
func NewController(
	store storage.Storage,
	rooms *room.Coordinator,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: store,
		rooms:   rooms,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "session-controller")),
	}
}

// CreateSession deals a new game for the given seats. roomID is nil
// for single-player sessions. If the opening seat belongs to an AI,
// its moves are played out before the session is returned.
func (c *Controller) CreateSession(ctx context.Context, gameType model.GameType, seats []model.Seat, roomID *model.RoomID) (*model.Session, error) {
	if !gameType.Valid() {
		return nil, model.ErrUnknownGameType
	}
	if len(seats) == 0 {
		return nil, model.ErrInsufficientSeats
	}

	state, err := c.deal(gameType, len(seats))
	if err != nil {
		return nil, err
	}
	raw, err := games.Marshal(gameType, state)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	sess := &model.Session{
		ID:           model.SessionID(uuid.NewString()),
		GameType:     gameType,
		Phase:        model.PhasePlaying,
		Seats:        seats,
		RoomID:       roomID,
		State:        raw,
		InitialState: raw,
		History:      []model.RecordedMove{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.runAISeats(sess, state); err != nil {
		return nil, err
	}

	if err := c.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(sess.ID)),
		slog.String("game_type", string(gameType)),
		slog.Int("seats", len(seats)),
	)
	return sess, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// DiscardSession removes a session that never got underway
func (c *Controller) DiscardSession(ctx context.Context, id model.SessionID) error {
	return c.storage.DeleteSession(ctx, id)
}

// deal builds the initial state for the game family
func (c *Controller) deal(gameType model.GameType, numSeats int) (any, error) {
	switch gameType {
	case model.GameReversi:
		if numSeats != 2 {
			return nil, fmt.Errorf("%w: reversi requires exactly 2 seats", model.ErrInsufficientSeats)
		}
		return reversi.NewGame(), nil
	case model.GameCrazyEights:
		return crazyeights.Deal(numSeats, c.random)
	case model.GameGoFish:
		return gofish.Deal(numSeats, c.random)
	case model.GameBaccarat:
		if numSeats != 1 {
			return nil, fmt.Errorf("%w: baccarat seats a single bettor", model.ErrInsufficientSeats)
		}
		return baccarat.NewGame(c.random), nil
	default:
		return nil, model.ErrUnknownGameType
	}
}

// ApplyMove applies a player's move, then plays out any AI seats that
// follow. Multiplayer sessions serialize on the room lock and push the
// resulting state through the room coordinator.
func (c *Controller) ApplyMove(ctx context.Context, id model.SessionID, playerID model.PlayerID, move json.RawMessage) (*model.Session, error) {
	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.IsMultiplayer() {
		mu := c.lockFor(*sess.RoomID)
		mu.Lock()
		defer mu.Unlock()
		// Re-read under the lock so a concurrent move is not clobbered
		sess, err = c.storage.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if sess.Phase == model.PhaseGameEnd {
		return nil, model.ErrGameComplete
	}

	seat := sess.SeatOf(playerID)
	if seat < 0 {
		return nil, model.ErrNotInRoom
	}

	_, state, err := games.Unmarshal(sess.State)
	if err != nil {
		return nil, err
	}
	if activeSeat(sess.GameType, state) != seat {
		return nil, model.ErrNotPlayerTurn
	}

	state, err = c.applyOne(sess.GameType, state, move)
	if err != nil {
		return nil, err
	}
	sess.History = append(sess.History, model.RecordedMove{Seat: seat, Move: move})

	if err := c.runAISeats(sess, state); err != nil {
		return nil, err
	}

	sess.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	if sess.IsMultiplayer() {
		if err := c.pushToRoom(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// Undo rewinds the last human move by replaying the recorded history
// from the initial deal; states are never inverse-mutated. Undo is
// unavailable in multiplayer and for staked baccarat coups.
func (c *Controller) Undo(ctx context.Context, id model.SessionID) (*model.Session, error) {
	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsMultiplayer() || sess.GameType == model.GameBaccarat {
		return nil, model.ErrUndoUnavailable
	}

	// Drop the trailing AI responses, then the human move itself
	history := sess.History
	for len(history) > 0 && sess.Seats[history[len(history)-1].Seat].IsAI() {
		history = history[:len(history)-1]
	}
	if len(history) == 0 {
		return nil, model.ErrUndoUnavailable
	}
	history = history[:len(history)-1]

	_, state, err := games.Unmarshal(sess.InitialState)
	if err != nil {
		return nil, err
	}
	for _, rec := range history {
		state, err = c.applyOne(sess.GameType, state, rec.Move)
		if err != nil {
			return nil, fmt.Errorf("replaying history: %w", err)
		}
	}

	sess.History = history
	sess.Phase = model.PhasePlaying
	sess.Winners = nil
	if err := c.updateState(sess, state); err != nil {
		return nil, err
	}
	sess.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// applyOne decodes and applies a single move against the typed state
func (c *Controller) applyOne(gameType model.GameType, state any, move json.RawMessage) (any, error) {
	switch gameType {
	case model.GameReversi:
		var m reversi.Move
		if err := json.Unmarshal(move, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
		}
		next, _, err := reversi.Apply(state.(reversi.State), m)
		return next, err
	case model.GameCrazyEights:
		var m crazyeights.Move
		if err := json.Unmarshal(move, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
		}
		return crazyeights.Apply(state.(crazyeights.State), m)
	case model.GameGoFish:
		var m gofish.Move
		if err := json.Unmarshal(move, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
		}
		return gofish.Apply(state.(gofish.State), m)
	case model.GameBaccarat:
		var bet baccarat.Bet
		if err := json.Unmarshal(move, &bet); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
		}
		return baccarat.Deal(state.(baccarat.State), bet, c.random)
	default:
		return nil, model.ErrUnknownGameType
	}
}

// runAISeats plays out consecutive AI turns until a human seat is
// active or the game is over, then refreshes the session's phase,
// winners, and state blob.
func (c *Controller) runAISeats(sess *model.Session, state any) error {
	for i := 0; i < MaxAIIterations; i++ {
		if isTerminal(sess.GameType, state) {
			break
		}
		seat := activeSeat(sess.GameType, state)
		if seat < 0 || seat >= len(sess.Seats) || !sess.Seats[seat].IsAI() {
			break
		}

		move, err := c.chooseAIMove(sess.GameType, state, sess.Seats[seat].Difficulty)
		if err != nil {
			return err
		}
		if move == nil {
			break
		}
		state, err = c.applyOne(sess.GameType, state, move)
		if err != nil {
			return err
		}
		sess.History = append(sess.History, model.RecordedMove{Seat: seat, Move: move})
	}
	return c.updateState(sess, state)
}

// chooseAIMove asks the strategy module for the active seat's move,
// encoded in the same wire form human moves arrive in
func (c *Controller) chooseAIMove(gameType model.GameType, state any, difficulty model.Difficulty) (json.RawMessage, error) {
	switch gameType {
	case model.GameReversi:
		m := ai.ChooseReversiMove(state.(reversi.State), difficulty, c.random)
		if m == nil {
			return nil, nil
		}
		return json.Marshal(m)
	case model.GameCrazyEights:
		m := ai.ChooseEightsMove(state.(crazyeights.State), difficulty, c.random)
		return json.Marshal(m)
	case model.GameGoFish:
		m := ai.ChooseGoFishMove(state.(gofish.State), difficulty, c.random)
		if m == nil {
			return nil, nil
		}
		return json.Marshal(m)
	case model.GameBaccarat:
		bet := ai.ChooseBaccaratBet(state.(baccarat.State), difficulty, c.random)
		return json.Marshal(bet)
	default:
		return nil, model.ErrUnknownGameType
	}
}

// updateState re-marshals the state blob and recomputes phase and
// winners
func (c *Controller) updateState(sess *model.Session, state any) error {
	raw, err := games.Marshal(sess.GameType, state)
	if err != nil {
		return err
	}
	sess.State = raw

	if isTerminal(sess.GameType, state) {
		sess.Phase = model.PhaseGameEnd
		sess.Winners = winners(sess.GameType, state)
	} else if sess.GameType == model.GameBaccarat && state.(baccarat.State).LastResult != nil {
		// Between coups the bettor reviews the result before staking again
		sess.Phase = model.PhaseRoundEnd
	} else {
		sess.Phase = model.PhasePlaying
	}
	return nil
}

// pushToRoom mirrors the session state into the room record; the
// coordinator treats the blob as opaque and last-write-wins
func (c *Controller) pushToRoom(ctx context.Context, sess *model.Session) error {
	if err := c.rooms.UpdateGameState(ctx, *sess.RoomID, sess.State); err != nil {
		return err
	}
	if sess.Phase == model.PhaseGameEnd {
		return c.rooms.EndGame(ctx, *sess.RoomID)
	}
	return nil
}

// lockFor returns the mutex serializing moves for a room
func (c *Controller) lockFor(id model.RoomID) *sync.Mutex {
	mu, _ := c.roomLocks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// activeSeat maps the family state's turn marker onto a seat index
func activeSeat(gameType model.GameType, state any) int {
	switch gameType {
	case model.GameReversi:
		if state.(reversi.State).Turn == reversi.White {
			return 1
		}
		return 0
	case model.GameCrazyEights:
		return state.(crazyeights.State).Turn
	case model.GameGoFish:
		return state.(gofish.State).Turn
	case model.GameBaccarat:
		return 0
	default:
		return -1
	}
}

// isTerminal dispatches the family's terminal check
func isTerminal(gameType model.GameType, state any) bool {
	switch gameType {
	case model.GameReversi:
		return reversi.IsTerminal(state.(reversi.State))
	case model.GameCrazyEights:
		return crazyeights.IsTerminal(state.(crazyeights.State))
	case model.GameGoFish:
		return gofish.IsTerminal(state.(gofish.State))
	case model.GameBaccarat:
		return baccarat.IsTerminal(state.(baccarat.State))
	default:
		return false
	}
}

// winners dispatches the family's winner computation; an empty slice
// is a draw
func winners(gameType model.GameType, state any) []int {
	switch gameType {
	case model.GameReversi:
		w, done := reversi.Winner(state.(reversi.State))
		if !done || w == reversi.None {
			return []int{}
		}
		if w == reversi.White {
			return []int{1}
		}
		return []int{0}
	case model.GameCrazyEights:
		w, done := crazyeights.Winner(state.(crazyeights.State))
		if !done {
			return []int{}
		}
		return []int{w}
	case model.GameGoFish:
		return gofish.Winners(state.(gofish.State))
	default:
		return []int{}
	}
}
