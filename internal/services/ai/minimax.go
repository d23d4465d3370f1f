package ai

import "github.com/pixelden/gameroom/internal/games/reversi"

// terminalBase dominates any static evaluation so that proven wins
// and losses outrank heuristic scores
const terminalBase = 1 << 20

// minimaxMove searches to a fixed depth with alpha-beta pruning and
// returns the best root move for the side to move. Root ties are
// broken by encounter order: only a strictly better score replaces
// the incumbent.
func minimaxMove(s reversi.State, moves []reversi.Move, depth int) *reversi.Move {
	seat := s.Turn
	var best *reversi.Move
	alpha, beta := -terminalBase*2, terminalBase*2
	for i := range moves {
		next, _, err := reversi.Apply(s, moves[i])
		if err != nil {
			continue
		}
		score := alphaBeta(next, seat, depth-1, alpha, beta)
		if best == nil || score > alpha {
			best = &moves[i]
			alpha = score
		}
	}
	return best
}

// alphaBeta evaluates s from maxSeat's perspective. Layers alternate
// between the actual side to move; a side with no legal moves is a
// pass-through ply, and a position where neither side can move is
// scored as a terminal win/loss/draw by piece count rather than by
// heuristic.
func alphaBeta(s reversi.State, maxSeat reversi.Cell, depth, alpha, beta int) int {
	if reversi.IsTerminal(s) {
		black, white := reversi.Count(s)
		diff := black - white
		if maxSeat == reversi.White {
			diff = -diff
		}
		switch {
		case diff > 0:
			return terminalBase + diff
		case diff < 0:
			return -terminalBase + diff
		default:
			return 0
		}
	}
	if depth <= 0 {
		return evaluate(s, maxSeat)
	}

	moves := reversi.LegalMoves(s, s.Turn)
	if len(moves) == 0 {
		passed := s
		passed.Turn = s.Turn.Opponent()
		return alphaBeta(passed, maxSeat, depth-1, alpha, beta)
	}

	if s.Turn == maxSeat {
		best := -terminalBase * 2
		for _, m := range moves {
			next, _, err := reversi.Apply(s, m)
			if err != nil {
				continue
			}
			score := alphaBeta(next, maxSeat, depth-1, alpha, beta)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := terminalBase * 2
	for _, m := range moves {
		next, _, err := reversi.Apply(s, m)
		if err != nil {
			continue
		}
		score := alphaBeta(next, maxSeat, depth-1, alpha, beta)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
