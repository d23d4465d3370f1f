// Package ai selects moves for AI seats. Every chooser is pure with
// respect to the state it is given: the only randomness comes through
// the injected random source, so a fixed seed reproduces the same
// move for the same state, seat, and difficulty.
package ai

import (
	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/games/reversi"
	"github.com/pixelden/gameroom/internal/model"
)

// Search depths for the minimax tiers
const (
	HardSearchDepth   = 4
	MasterSearchDepth = 6
)

// ChooseReversiMove picks a move for the side to move in s. A nil
// return means the seat must pass.
func ChooseReversiMove(s reversi.State, difficulty model.Difficulty, rnd random.Random) *reversi.Move {
	moves := reversi.LegalMoves(s, s.Turn)
	if len(moves) == 0 {
		return nil
	}

	switch difficulty {
	case model.DifficultyEasy:
		m := moves[rnd.Intn(len(moves))]
		return &m
	case model.DifficultyMedium:
		return heuristicMove(s, moves)
	case model.DifficultyHard:
		return minimaxMove(s, moves, HardSearchDepth)
	case model.DifficultyMaster:
		return minimaxMove(s, moves, MasterSearchDepth)
	default:
		m := moves[rnd.Intn(len(moves))]
		return &m
	}
}
