package model

import "fmt"

// Suit is one of the four French playing card suits
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits returns all four suits in a fixed order
func Suits() []Suit {
	return []Suit{Spades, Hearts, Diamonds, Clubs}
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Diamonds, Clubs:
		return true
	}
	return false
}

// Rank is a card rank: 1 = ace through 13 = king
type Rank int

const (
	RankAce   Rank = 1
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13

	// NumRanks is the number of distinct ranks in a standard deck
	NumRanks = 13
)

// Valid reports whether r is in the 1..13 range
func (r Rank) Valid() bool {
	return r >= RankAce && r <= RankKing
}

// Card is an immutable playing card value. ID is distinct from the
// suit/rank value so that duplicate-rank cards stay distinguishable
// when moving between hands and books.
type Card struct {
	ID   int  `json:"id"`
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%d-of-%s", c.Rank, c.Suit)
}

// RemoveCardByID returns cards with the card bearing id removed.
// The second return is false if no card with that id is present.
func RemoveCardByID(cards []Card, id int) ([]Card, bool) {
	for i, c := range cards {
		if c.ID == id {
			out := make([]Card, 0, len(cards)-1)
			out = append(out, cards[:i]...)
			out = append(out, cards[i+1:]...)
			return out, true
		}
	}
	return cards, false
}

// CountRank returns how many cards of the given rank are in cards
func CountRank(cards []Card, rank Rank) int {
	n := 0
	for _, c := range cards {
		if c.Rank == rank {
			n++
		}
	}
	return n
}

// CountSuit returns how many cards of the given suit are in cards
func CountSuit(cards []Card, suit Suit) int {
	n := 0
	for _, c := range cards {
		if c.Suit == suit {
			n++
		}
	}
	return n
}
