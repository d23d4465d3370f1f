// Package crazyeights implements the draw-and-match rules engine:
// match the top discard by suit or rank, with rank 8 wild. A wild is a
// two-phase move: the eight is played, then its player declares the
// suit the next legality check must use.
package crazyeights

import (
	"fmt"

	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/model"
)

const (
	// WildRank is playable regardless of the current suit or rank
	WildRank model.Rank = 8

	// MaxDrawsPerTurn caps how many cards a stuck player may draw
	// before being forced to pass
	MaxDrawsPerTurn = 3

	// MinPlayers and MaxPlayers bound the seat count
	MinPlayers = 2
	MaxPlayers = 6
)

// Action is the kind of move being made
type Action string

const (
	ActionPlay        Action = "play"
	ActionDeclareSuit Action = "declare_suit"
	ActionDraw        Action = "draw"
	ActionPass        Action = "pass"
)

// Move is a single player action
type Move struct {
	Action Action     `json:"action"`
	CardID int        `json:"card_id,omitempty"`
	Suit   model.Suit `json:"suit,omitempty"`
}

// State is the full game state
type State struct {
	Deck    model.Deck     `json:"deck"`
	Discard []model.Card   `json:"discard"`
	Hands   [][]model.Card `json:"hands"`
	Turn    int            `json:"turn"`

	// CurrentSuit is the effective suit: the top discard's printed
	// suit, or the declared suit after a wild
	CurrentSuit model.Suit `json:"current_suit"`

	// AwaitingSuit is true between playing a wild and declaring its suit
	AwaitingSuit bool `json:"awaiting_suit"`

	// DrawsThisTurn counts draws by the current player this turn
	DrawsThisTurn int `json:"draws_this_turn"`

	// Winner is the seat that emptied its hand, or -1
	Winner int `json:"winner"`
}

// handSize returns the deal size for the player count
func handSize(numPlayers int) int {
	if numPlayers <= 3 {
		return 7
	}
	return 5
}

// Deal shuffles a fresh deck, deals each hand, and flips the starting
// discard
func Deal(numPlayers int, rnd random.Random) (State, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return State{}, fmt.Errorf("crazy eights requires %d-%d players, got %d", MinPlayers, MaxPlayers, numPlayers)
	}

	deck := model.NewDeck().Shuffled(rnd)
	s := State{
		Hands:  make([][]model.Card, numPlayers),
		Turn:   0,
		Winner: -1,
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

	top, rest, err := deck.Draw()
	if err != nil {
		return State{}, err
	}
	s.Discard = []model.Card{top}
	s.Deck = rest
	s.CurrentSuit = top.Suit
	return s, nil
}

// TopDiscard returns the top of the discard pile
func (s State) TopDiscard() model.Card {
	return s.Discard[len(s.Discard)-1]
}

// playable reports whether c can legally be played on the current pile
func playable(s State, c model.Card) bool {
	if c.Rank == WildRank {
		return true
	}
	return c.Suit == s.CurrentSuit || c.Rank == s.TopDiscard().Rank
}

// LegalMoves returns the moves available to seat. After a wild the
// only legal moves are suit declarations. A draw is legal until the
// per-turn cap or deck exhaustion, after which pass becomes legal.
func LegalMoves(s State, seat int) []Move {
	if s.Winner >= 0 || seat != s.Turn {
		return nil
	}

	if s.AwaitingSuit {
		moves := make([]Move, 0, 4)
		for _, suit := range model.Suits() {
			moves = append(moves, Move{Action: ActionDeclareSuit, Suit: suit})
		}
		return moves
	}

	var moves []Move
	for _, c := range s.Hands[seat] {
		if playable(s, c) {
			moves = append(moves, Move{Action: ActionPlay, CardID: c.ID})
		}
	}
	if s.DrawsThisTurn < MaxDrawsPerTurn && len(s.Deck) > 0 {
		moves = append(moves, Move{Action: ActionDraw})
	} else if len(moves) == 0 {
		moves = append(moves, Move{Action: ActionPass})
	}
	return moves
}

// Apply plays m for the side to move. Illegal moves return the input
// state unchanged and ErrIllegalMove.
func Apply(s State, m Move) (State, error) {
	if s.Winner >= 0 {
		return s, model.ErrGameComplete
	}
	seat := s.Turn

	switch m.Action {
	case ActionPlay:
		if s.AwaitingSuit {
			return s, fmt.Errorf("%w: suit declaration pending", model.ErrIllegalMove)
		}
		var card *model.Card
		for i := range s.Hands[seat] {
			if s.Hands[seat][i].ID == m.CardID {
				card = &s.Hands[seat][i]
				break
			}
		}
		if card == nil {
			return s, fmt.Errorf("%w: card %d not in hand", model.ErrIllegalMove, m.CardID)
		}
		if !playable(s, *card) {
			return s, fmt.Errorf("%w: %s does not match %s/%s", model.ErrIllegalMove, card, s.CurrentSuit, s.TopDiscard())
		}

		next := clone(s)
		played := *card
		next.Hands[seat], _ = model.RemoveCardByID(next.Hands[seat], m.CardID)
		next.Discard = append(next.Discard, played)

		if len(next.Hands[seat]) == 0 {
			next.Winner = seat
			return next, nil
		}

		if played.Rank == WildRank {
			// Same player declares the suit before the turn passes
			next.AwaitingSuit = true
			return next, nil
		}
		next.CurrentSuit = played.Suit
		return advanceTurn(next), nil

	case ActionDeclareSuit:
		if !s.AwaitingSuit {
			return s, fmt.Errorf("%w: no suit declaration pending", model.ErrIllegalMove)
		}
		if !m.Suit.Valid() {
			return s, fmt.Errorf("%w: invalid suit %q", model.ErrIllegalMove, m.Suit)
		}
		next := clone(s)
		next.CurrentSuit = m.Suit
		next.AwaitingSuit = false
		return advanceTurn(next), nil

	case ActionDraw:
		if s.AwaitingSuit {
			return s, fmt.Errorf("%w: suit declaration pending", model.ErrIllegalMove)
		}
		if s.DrawsThisTurn >= MaxDrawsPerTurn {
			return s, fmt.Errorf("%w: draw cap reached", model.ErrIllegalMove)
		}
		if len(s.Deck) == 0 {
			return s, model.ErrExhaustedDeck
		}
		next := clone(s)
		card, rest, err := next.Deck.Draw()
		if err != nil {
			return s, err
		}
		next.Deck = rest
		next.Hands[seat] = append(next.Hands[seat], card)
		next.DrawsThisTurn++
		return next, nil

	case ActionPass:
		// A pass is only forced: no playable card and no draws left
		for _, c := range s.Hands[seat] {
			if playable(s, c) {
				return s, fmt.Errorf("%w: playable card in hand", model.ErrIllegalMove)
			}
		}
		if s.DrawsThisTurn < MaxDrawsPerTurn && len(s.Deck) > 0 {
			return s, fmt.Errorf("%w: must draw before passing", model.ErrIllegalMove)
		}
		return advanceTurn(clone(s)), nil

	default:
		return s, fmt.Errorf("%w: unknown action %q", model.ErrIllegalMove, m.Action)
	}
}

// advanceTurn hands play to the next seat and resets the draw count
func advanceTurn(s State) State {
	s.Turn = (s.Turn + 1) % len(s.Hands)
	s.DrawsThisTurn = 0
	return s
}

// clone deep-copies the mutable slices of s
func clone(s State) State {
	next := s
	next.Deck = append(model.Deck(nil), s.Deck...)
	next.Discard = append([]model.Card(nil), s.Discard...)
	next.Hands = make([][]model.Card, len(s.Hands))
	for i, h := range s.Hands {
		next.Hands[i] = append([]model.Card(nil), h...)
	}
	return next
}

// IsTerminal reports whether a player has emptied their hand
func IsTerminal(s State) bool {
	return s.Winner >= 0
}

// Winner returns the winning seat of a finished round. done is false
// while the round is in progress.
func Winner(s State) (seat int, done bool) {
	if s.Winner < 0 {
		return -1, false
	}
	return s.Winner, true
}
