// Package reversi implements the capture-board rules engine: an 8x8
// grid where a move must bracket at least one contiguous run of
// opponent pieces, which it flips.
package reversi

import (
	"fmt"

	"github.com/pixelden/gameroom/internal/model"
)

// BoardSize is the fixed grid dimension
const BoardSize = 8

// Cell is the occupant of a board cell
type Cell int8

const (
	None  Cell = 0
	Black Cell = 1
	White Cell = 2
)

// Opponent returns the other player's cell value
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return None
	}
}

// Move is a placement on the board
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// State is the full game state. Turn is the side to move; it is left
// unchanged once neither side has a legal move.
type State struct {
	Board [BoardSize][BoardSize]Cell `json:"board"`
	Turn  Cell                       `json:"turn"`
}

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// NewGame returns the standard opening position with black to move
func NewGame() State {
	var s State
	s.Board[3][3] = White
	s.Board[3][4] = Black
	s.Board[4][3] = Black
	s.Board[4][4] = White
	s.Turn = Black
	return s
}

// flipsInDirection returns the cells that would flip if seat played at
// (row, col) walking the given direction: a contiguous run of opponent
// pieces terminated by one of seat's own.
func flipsInDirection(s State, seat Cell, row, col, dr, dc int) []Move {
	var run []Move
	r, c := row+dr, col+dc
	for r >= 0 && r < BoardSize && c >= 0 && c < BoardSize {
		switch s.Board[r][c] {
		case seat.Opponent():
			run = append(run, Move{Row: r, Col: c})
		case seat:
			return run
		default:
			return nil
		}
		r += dr
		c += dc
	}
	return nil
}

// captures returns every cell flipped by playing m; empty means the
// move is illegal.
func captures(s State, seat Cell, m Move) []Move {
	if m.Row < 0 || m.Row >= BoardSize || m.Col < 0 || m.Col >= BoardSize {
		return nil
	}
	if s.Board[m.Row][m.Col] != None {
		return nil
	}
	var all []Move
	for _, d := range directions {
		all = append(all, flipsInDirection(s, seat, m.Row, m.Col, d[0], d[1])...)
	}
	return all
}

// LegalMoves returns every legal placement for seat, scanning in
// row-major order
func LegalMoves(s State, seat Cell) []Move {
	var moves []Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if len(captures(s, seat, Move{Row: row, Col: col})) > 0 {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

// Apply plays m for the side to move and returns the resulting state
// along with the number of pieces flipped. Illegal moves return the
// input state unchanged and ErrIllegalMove.
func Apply(s State, m Move) (State, int, error) {
	flips := captures(s, s.Turn, m)
	if len(flips) == 0 {
		return s, 0, fmt.Errorf("%w: no captures at (%d,%d)", model.ErrIllegalMove, m.Row, m.Col)
	}

	next := s
	next.Board[m.Row][m.Col] = s.Turn
	for _, f := range flips {
		next.Board[f.Row][f.Col] = s.Turn
	}

	// Turn passes to the opponent; if they cannot move it reverts to
	// the mover. If neither can move the position is terminal and Turn
	// is left on the mover.
	opp := s.Turn.Opponent()
	if len(LegalMoves(next, opp)) > 0 {
		next.Turn = opp
	}
	return next, len(flips), nil
}

// IsTerminal reports whether neither side has a legal move
func IsTerminal(s State) bool {
	return len(LegalMoves(s, Black)) == 0 && len(LegalMoves(s, White)) == 0
}

// Count returns the piece counts for both sides
func Count(s State) (black, white int) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch s.Board[row][col] {
			case Black:
				black++
			case White:
				white++
			}
		}
	}
	return black, white
}

// Winner returns the winning side of a terminal position by raw piece
// count. done is false while the game is still in progress; a terminal
// position with equal counts returns (None, true) for a draw.
func Winner(s State) (winner Cell, done bool) {
	if !IsTerminal(s) {
		return None, false
	}
	black, white := Count(s)
	switch {
	case black > white:
		return Black, true
	case white > black:
		return White, true
	default:
		return None, true
	}
}
