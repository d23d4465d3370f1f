package model

import "github.com/pixelden/gameroom/internal/dependencies/random"

// Deck is an ordered sequence of cards. It is owned exclusively by the
// active game session while in play: cards leave via Draw (from the
// head) and come back only through a reshuffle of a discard pile.
type Deck []Card

// NewDeck builds a standard 52-card deck in suit-then-rank order.
// Card IDs are assigned 0..51 and stay stable across shuffles.
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	id := 0
	for _, suit := range Suits() {
		for r := RankAce; r <= RankKing; r++ {
			deck = append(deck, Card{ID: id, Suit: suit, Rank: r})
			id++
		}
	}
	return deck
}

// Shuffled returns a new deck with the cards permuted by a
// Fisher-Yates shuffle driven by rnd. The receiver is not modified.
func (d Deck) Shuffled(rnd random.Random) Deck {
	out := make(Deck, len(d))
	copy(out, d)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Draw removes and returns the card at the head of the deck.
// Returns ErrExhaustedDeck if the deck is empty.
func (d Deck) Draw() (Card, Deck, error) {
	if len(d) == 0 {
		return Card{}, d, ErrExhaustedDeck
	}
	return d[0], d[1:], nil
}

// DrawN removes up to n cards from the head of the deck. It errors
// only when the deck cannot supply all n cards.
func (d Deck) DrawN(n int) ([]Card, Deck, error) {
	if len(d) < n {
		return nil, d, ErrExhaustedDeck
	}
	drawn := make([]Card, n)
	copy(drawn, d[:n])
	return drawn, d[n:], nil
}
