package ai

import (
	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/games/baccarat"
	"github.com/pixelden/gameroom/internal/games/crazyeights"
	"github.com/pixelden/gameroom/internal/games/gofish"
	"github.com/pixelden/gameroom/internal/model"
)

// mostHeldSuit returns the suit most represented in hand, with the
// fixed suit order breaking ties
func mostHeldSuit(hand []model.Card) model.Suit {
	best := model.Spades
	bestCount := -1
	for _, suit := range model.Suits() {
		if n := model.CountSuit(hand, suit); n > bestCount {
			best = suit
			bestCount = n
		}
	}
	return best
}

// ChooseEightsMove picks a move for the seat whose turn it is in s.
// Naturals are preferred over wilds; among naturals the rank held most
// often is discarded first. Suit declarations always name the suit
// most represented in the remaining hand.
func ChooseEightsMove(s crazyeights.State, difficulty model.Difficulty, rnd random.Random) crazyeights.Move {
	seat := s.Turn
	legal := crazyeights.LegalMoves(s, seat)
	if len(legal) == 0 {
		return crazyeights.Move{Action: crazyeights.ActionPass}
	}

	if s.AwaitingSuit {
		return crazyeights.Move{Action: crazyeights.ActionDeclareSuit, Suit: mostHeldSuit(s.Hands[seat])}
	}

	if difficulty == model.DifficultyEasy {
		return legal[rnd.Intn(len(legal))]
	}

	hand := s.Hands[seat]
	var bestNatural, bestWild *crazyeights.Move
	bestNaturalFreq := 0
	for i := range legal {
		m := legal[i]
		if m.Action != crazyeights.ActionPlay {
			continue
		}
		var card model.Card
		for _, c := range hand {
			if c.ID == m.CardID {
				card = c
				break
			}
		}
		if card.Rank == crazyeights.WildRank {
			if bestWild == nil {
				bestWild = &legal[i]
			}
			continue
		}
		if freq := model.CountRank(hand, card.Rank); freq > bestNaturalFreq {
			bestNatural = &legal[i]
			bestNaturalFreq = freq
		}
	}
	if bestNatural != nil {
		return *bestNatural
	}
	// A wild is spent only when nothing else matches
	if bestWild != nil {
		return *bestWild
	}
	// Nothing playable: the remaining legal move is a draw or a pass
	return legal[len(legal)-1]
}

// ChooseGoFishMove picks an ask for the seat whose turn it is in s.
// Ranks one card short of a book are asked for first: triples over
// pairs over singles. A nil return means the seat has no legal ask.
func ChooseGoFishMove(s gofish.State, difficulty model.Difficulty, rnd random.Random) *gofish.Move {
	seat := s.Turn
	legal := gofish.LegalMoves(s, seat)
	if len(legal) == 0 {
		return nil
	}

	if difficulty == model.DifficultyEasy {
		m := legal[rnd.Intn(len(legal))]
		return &m
	}

	hand := s.Hands[seat]
	var candidates []gofish.Move
	bestFreq := 0
	for _, m := range legal {
		freq := model.CountRank(hand, m.Rank)
		if freq > bestFreq {
			bestFreq = freq
			candidates = candidates[:0]
		}
		if freq == bestFreq {
			candidates = append(candidates, m)
		}
	}
	m := candidates[rnd.Intn(len(candidates))]
	return &m
}

// ChooseBaccaratBet stakes a bet for an AI seat. Bank carries the
// lowest house edge and is the non-easy default; the easy tier bets a
// side at random.
func ChooseBaccaratBet(s baccarat.State, difficulty model.Difficulty, rnd random.Random) baccarat.Bet {
	amount := 10
	if s.Balance < amount {
		amount = s.Balance
	}
	if difficulty == model.DifficultyEasy {
		sides := []baccarat.BetType{baccarat.BetPlayer, baccarat.BetBank}
		return baccarat.Bet{Type: sides[rnd.Intn(len(sides))], Amount: amount}
	}
	return baccarat.Bet{Type: baccarat.BetBank, Amount: amount}
}
