// Package games binds the per-family rules engines behind a tagged
// state envelope. Stored game state is opaque to the room layer; this
// package is the single place it is decoded, and every decode
// validates the payload shape before use.
package games

import (
	"encoding/json"
	"fmt"

	"github.com/pixelden/gameroom/internal/games/baccarat"
	"github.com/pixelden/gameroom/internal/games/crazyeights"
	"github.com/pixelden/gameroom/internal/games/gofish"
	"github.com/pixelden/gameroom/internal/games/reversi"
	"github.com/pixelden/gameroom/internal/model"
)

// Envelope tags an opaque state blob with its game family
type Envelope struct {
	GameType model.GameType  `json:"game_type"`
	State    json.RawMessage `json:"state"`
}

// Marshal wraps a family state in a tagged envelope
func Marshal(gameType model.GameType, state any) (json.RawMessage, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{GameType: gameType, State: raw})
}

// Unmarshal decodes a tagged envelope into its family's state type.
// The stored shape is never trusted: unknown tags and malformed
// payloads are rejected.
func Unmarshal(raw json.RawMessage) (model.GameType, any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrInvalidGameState, err)
	}

	switch env.GameType {
	case model.GameReversi:
		var s reversi.State
		if err := json.Unmarshal(env.State, &s); err != nil {
			return env.GameType, nil, fmt.Errorf("%w: %v", model.ErrInvalidGameState, err)
		}
		if s.Turn != reversi.Black && s.Turn != reversi.White {
			return env.GameType, nil, fmt.Errorf("%w: bad turn marker", model.ErrInvalidGameState)
		}
		return env.GameType, s, nil

	case model.GameCrazyEights:
		var s crazyeights.State
		if err := json.Unmarshal(env.State, &s); err != nil {
			return env.GameType, nil, fmt.Errorf("%w: %v", model.ErrInvalidGameState, err)
		}
		if len(s.Hands) < crazyeights.MinPlayers || s.Turn < 0 || s.Turn >= len(s.Hands) {
			return env.GameType, nil, fmt.Errorf("%w: bad hand layout", model.ErrInvalidGameState)
		}
		return env.GameType, s, nil

	case model.GameGoFish:
		var s gofish.State
		if err := json.Unmarshal(env.State, &s); err != nil {
			return env.GameType, nil, fmt.Errorf("%w: %v", model.ErrInvalidGameState, err)
		}
		if len(s.Hands) < gofish.MinPlayers || len(s.Books) != len(s.Hands) || s.Turn < 0 || s.Turn >= len(s.Hands) {
			return env.GameType, nil, fmt.Errorf("%w: bad hand layout", model.ErrInvalidGameState)
		}
		return env.GameType, s, nil

	case model.GameBaccarat:
		var s baccarat.State
		if err := json.Unmarshal(env.State, &s); err != nil {
			return env.GameType, nil, fmt.Errorf("%w: %v", model.ErrInvalidGameState, err)
		}
		return env.GameType, s, nil

	default:
		return env.GameType, nil, fmt.Errorf("%w: %q", model.ErrUnknownGameType, env.GameType)
	}
}
