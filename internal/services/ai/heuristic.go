package ai

import "github.com/pixelden/gameroom/internal/games/reversi"

// positionWeights scores board cells statically: corners dominate,
// cells adjacent to corners are liabilities until the corner is taken.
var positionWeights = [reversi.BoardSize][reversi.BoardSize]int{
	{120, -20, 20, 5, 5, 20, -20, 120},
	{-20, -40, -5, -5, -5, -5, -40, -20},
	{20, -5, 15, 3, 3, 15, -5, 20},
	{5, -5, 3, 3, 3, 3, -5, 5},
	{5, -5, 3, 3, 3, 3, -5, 5},
	{20, -5, 15, 3, 3, 15, -5, 20},
	{-20, -40, -5, -5, -5, -5, -40, -20},
	{120, -20, 20, 5, 5, 20, -20, 120},
}

// mobilityWeight scales the legal-move-count differential in the
// static evaluation
const mobilityWeight = 4

// isCorner reports whether m is one of the four corner cells
func isCorner(m reversi.Move) bool {
	edge := reversi.BoardSize - 1
	return (m.Row == 0 || m.Row == edge) && (m.Col == 0 || m.Col == edge)
}

// evaluate scores s from seat's perspective: positional weights plus a
// scaled mobility term.
func evaluate(s reversi.State, seat reversi.Cell) int {
	score := 0
	for row := 0; row < reversi.BoardSize; row++ {
		for col := 0; col < reversi.BoardSize; col++ {
			switch s.Board[row][col] {
			case seat:
				score += positionWeights[row][col]
			case seat.Opponent():
				score -= positionWeights[row][col]
			}
		}
	}
	mobility := len(reversi.LegalMoves(s, seat)) - len(reversi.LegalMoves(s, seat.Opponent()))
	return score + mobilityWeight*mobility
}

// heuristicMove picks the highest statically-scored move for the side
// to move. A corner capture short-circuits the evaluation outright.
// Ties keep the first move encountered.
func heuristicMove(s reversi.State, moves []reversi.Move) *reversi.Move {
	seat := s.Turn
	var best *reversi.Move
	bestScore := 0
	for i := range moves {
		m := moves[i]
		if isCorner(m) {
			return &m
		}
		next, _, err := reversi.Apply(s, m)
		if err != nil {
			continue
		}
		score := evaluate(next, seat)
		if best == nil || score > bestScore {
			best = &moves[i]
			bestScore = score
		}
	}
	return best
}
