// Package gofish implements the set-collection rules engine. A move
// asks another seat for a rank; hits transfer every matching card and
// keep the turn, misses draw from the deck and keep the turn only if
// the drawn card matches the asked rank. Four of a kind is extracted
// into a book the instant it exists.
package gofish

import (
	"fmt"

	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/model"
)

const (
	// MinPlayers and MaxPlayers bound the seat count
	MinPlayers = 2
	MaxPlayers = 6
)

// Move asks a target seat for every card of a rank
type Move struct {
	Target int        `json:"target"`
	Rank   model.Rank `json:"rank"`
}

// State is the full game state
type State struct {
	Deck  model.Deck     `json:"deck"`
	Hands [][]model.Card `json:"hands"`

	// Books holds the completed ranks per seat
	Books [][]model.Rank `json:"books"`

	Turn int `json:"turn"`
}

// handSize returns the deal size for the player count
func handSize(numPlayers int) int {
	if numPlayers <= 3 {
		return 7
	}
	return 5
}

// Deal shuffles a fresh deck and deals each hand. Books dealt outright
// are extracted before the first turn.
func Deal(numPlayers int, rnd random.Random) (State, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return State{}, fmt.Errorf("go fish requires %d-%d players, got %d", MinPlayers, MaxPlayers, numPlayers)
	}

	deck := model.NewDeck().Shuffled(rnd)
	s := State{
		Hands: make([][]model.Card, numPlayers),
		Books: make([][]model.Rank, numPlayers),
		Turn:  0,
	}

	size := handSize(numPlayers)
	for seat := 0; seat < numPlayers; seat++ {
		hand, rest, err := deck.DrawN(size)
		if err != nil {
			return State{}, err
		}
		s.Hands[seat] = hand
		deck = rest
	}
	s.Deck = deck
	return ExtractBooks(s), nil
}

// ExtractBooks moves every four-of-a-kind out of hands into its
// seat's book list. Calling it on a state with no complete sets is a
// no-op, so repeated calls never double-count.
func ExtractBooks(s State) State {
	next := s
	next.Hands = make([][]model.Card, len(s.Hands))
	next.Books = make([][]model.Rank, len(s.Books))
	for seat := range s.Hands {
		next.Books[seat] = append([]model.Rank(nil), s.Books[seat]...)
		hand := append([]model.Card(nil), s.Hands[seat]...)
		for r := model.RankAce; r <= model.RankKing; r++ {
			if model.CountRank(hand, r) == 4 {
				kept := hand[:0:0]
				for _, c := range hand {
					if c.Rank != r {
						kept = append(kept, c)
					}
				}
				hand = kept
				next.Books[seat] = append(next.Books[seat], r)
			}
		}
		next.Hands[seat] = hand
	}
	return next
}

// TotalBooks returns the number of completed books across all seats
func TotalBooks(s State) int {
	n := 0
	for _, b := range s.Books {
		n += len(b)
	}
	return n
}

// LegalMoves returns every (target, rank) ask available to seat: any
// rank in hand directed at any other seat holding cards
func LegalMoves(s State, seat int) []Move {
	if seat != s.Turn || IsTerminal(s) {
		return nil
	}
	ranks := make(map[model.Rank]bool)
	for _, c := range s.Hands[seat] {
		ranks[c.Rank] = true
	}
	var moves []Move
	for target := range s.Hands {
		if target == seat || len(s.Hands[target]) == 0 {
			continue
		}
		for r := model.RankAce; r <= model.RankKing; r++ {
			if ranks[r] {
				moves = append(moves, Move{Target: target, Rank: r})
			}
		}
	}
	return moves
}

// Apply performs an ask for the seat whose turn it is. Illegal moves
// return the input state unchanged and ErrIllegalMove.
func Apply(s State, m Move) (State, error) {
	if IsTerminal(s) {
		return s, model.ErrGameComplete
	}
	seat := s.Turn
	if m.Target == seat || m.Target < 0 || m.Target >= len(s.Hands) {
		return s, fmt.Errorf("%w: invalid target seat %d", model.ErrIllegalMove, m.Target)
	}
	if !m.Rank.Valid() {
		return s, fmt.Errorf("%w: invalid rank %d", model.ErrIllegalMove, m.Rank)
	}
	if model.CountRank(s.Hands[seat], m.Rank) == 0 {
		return s, fmt.Errorf("%w: must hold at least one %d to ask for it", model.ErrIllegalMove, m.Rank)
	}

	next := clone(s)

	if model.CountRank(next.Hands[m.Target], m.Rank) > 0 {
		// Hit: every matching card transfers and the asker goes again
		kept := next.Hands[m.Target][:0:0]
		for _, c := range next.Hands[m.Target] {
			if c.Rank == m.Rank {
				next.Hands[seat] = append(next.Hands[seat], c)
			} else {
				kept = append(kept, c)
			}
		}
		next.Hands[m.Target] = kept
		return settle(next, seat)
	}

	// Miss: go fish. An empty deck means no card is available and the
	// turn simply passes.
	if len(next.Deck) == 0 {
		return settle(advancePast(next, seat), seat)
	}
	card, rest, err := next.Deck.Draw()
	if err != nil {
		return s, err
	}
	next.Deck = rest
	next.Hands[seat] = append(next.Hands[seat], card)
	if card.Rank == m.Rank {
		// Drew the asked-for rank: the asker continues
		return settle(next, seat)
	}
	return settle(advancePast(next, seat), seat)
}

// settle runs post-move bookkeeping: book extraction, then a refill
// draw for whichever seat holds the turn with an empty hand. A seat
// with no cards and no deck to draw from is skipped.
func settle(s State, _ int) (State, error) {
	s = ExtractBooks(s)
	for i := 0; i < 52; i++ {
		if IsTerminal(s) || len(s.Hands[s.Turn]) > 0 {
			break
		}
		if len(s.Deck) > 0 {
			card, rest, err := s.Deck.Draw()
			if err != nil {
				return s, err
			}
			s.Deck = rest
			s.Hands[s.Turn] = append(s.Hands[s.Turn], card)
			s = ExtractBooks(s)
			continue
		}
		s.Turn = (s.Turn + 1) % len(s.Hands)
	}
	return s, nil
}

// advancePast hands the turn to the next seat
func advancePast(s State, seat int) State {
	s.Turn = (seat + 1) % len(s.Hands)
	return s
}

// clone deep-copies the mutable slices of s
func clone(s State) State {
	next := s
	next.Deck = append(model.Deck(nil), s.Deck...)
	next.Hands = make([][]model.Card, len(s.Hands))
	for i, h := range s.Hands {
		next.Hands[i] = append([]model.Card(nil), h...)
	}
	next.Books = make([][]model.Rank, len(s.Books))
	for i, b := range s.Books {
		next.Books[i] = append([]model.Rank(nil), b...)
	}
	return next
}

// IsTerminal reports whether all 13 ranks have been booked
func IsTerminal(s State) bool {
	return TotalBooks(s) >= model.NumRanks
}

// Winners returns the seats holding the most books in a finished
// game; more than one entry is a shared win. Nil while in progress.
func Winners(s State) []int {
	if !IsTerminal(s) {
		return nil
	}
	best := 0
	for _, b := range s.Books {
		if len(b) > best {
			best = len(b)
		}
	}
	var winners []int
	for seat, b := range s.Books {
		if len(b) == best {
			winners = append(winners, seat)
		}
	}
	return winners
}
