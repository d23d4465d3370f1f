// Package baccarat implements the bank-vs-player rules engine. A coup
// is fully deterministic once the bet is staked: naturals end the deal
// immediately, the player draws on a two-card total of five or less,
// and the bank's third card is governed by a fixed lookup table.
package baccarat

import (
	"fmt"

	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/model"
)

const (
	// ReshuffleThreshold triggers a shoe rebuild before a coup when
	// fewer cards remain. The value is a tunable carried over from the
	// original table setup, not a penetration rule.
	ReshuffleThreshold = 20

	// BankCommissionPercent is retained from winning bank bets
	BankCommissionPercent = 5

	// TiePayoutMultiplier is the tie bet payout ratio
	TiePayoutMultiplier = 8

	// DefaultBalance is the starting chip balance
	DefaultBalance = 100
)

// BetType is the side a bet is staked on
type BetType string

const (
	BetPlayer BetType = "player"
	BetBank   BetType = "bank"
	BetTie    BetType = "tie"
)

// Valid reports whether b is a known bet type
func (b BetType) Valid() bool {
	switch b {
	case BetPlayer, BetBank, BetTie:
		return true
	}
	return false
}

// Bet is a staked wager for one coup
type Bet struct {
	Type   BetType `json:"type"`
	Amount int     `json:"amount"`
}

// Outcome is the result side of a coup
type Outcome string

const (
	OutcomePlayer Outcome = "player"
	OutcomeBank   Outcome = "bank"
	OutcomeTie    Outcome = "tie"
)

// Result records a resolved coup
type Result struct {
	PlayerHand  []model.Card `json:"player_hand"`
	BankHand    []model.Card `json:"bank_hand"`
	PlayerScore int          `json:"player_score"`
	BankScore   int          `json:"bank_score"`
	Outcome     Outcome      `json:"outcome"`

	// Net is the bettor's balance change: positive on a win, negative
	// on a loss, zero on a push
	Net int `json:"net"`
}

// State is the full game state between coups
type State struct {
	Shoe       model.Deck   `json:"shoe"`
	Discard    []model.Card `json:"discard"`
	Balance    int          `json:"balance"`
	LastResult *Result      `json:"last_result,omitempty"`
	Coups      int          `json:"coups"`
}

// NewGame builds a freshly shuffled single-deck shoe
func NewGame(rnd random.Random) State {
	return State{
		Shoe:    model.NewDeck().Shuffled(rnd),
		Balance: DefaultBalance,
	}
}

// CardValue returns a card's baccarat value: ace 1, ten and faces 0,
// otherwise face value
func CardValue(c model.Card) int {
	if c.Rank >= 10 {
		return 0
	}
	return int(c.Rank)
}

// HandScore is the units digit of the sum of card values
func HandScore(cards []model.Card) int {
	sum := 0
	for _, c := range cards {
		sum += CardValue(c)
	}
	return sum % 10
}

// bankDraws is the fixed third-card table, keyed on the bank's
// two-card total and the value of the player's third card. When the
// player stood pat, the bank draws on five or less.
func bankDraws(bankTotal int, playerThird int, playerDrew bool) bool {
	if !playerDrew {
		return bankTotal <= 5
	}
	switch bankTotal {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird == 6 || playerThird == 7
	default:
		return false
	}
}

// Deal resolves one coup for the staked bet. The shoe is rebuilt from
// the discard pile when it runs below ReshuffleThreshold. The only
// possible error is an invalid bet; the deal itself has no decisions.
func Deal(s State, bet Bet, rnd random.Random) (State, error) {
	if !bet.Type.Valid() {
		return s, fmt.Errorf("%w: unknown bet type %q", model.ErrIllegalMove, bet.Type)
	}
	if bet.Amount <= 0 || bet.Amount > s.Balance {
		return s, fmt.Errorf("%w: bet %d outside balance %d", model.ErrIllegalMove, bet.Amount, s.Balance)
	}

	next := s
	next.Shoe = append(model.Deck(nil), s.Shoe...)
	next.Discard = append([]model.Card(nil), s.Discard...)

	if len(next.Shoe) < ReshuffleThreshold {
		next.Shoe = append(next.Shoe, next.Discard...)
		next.Shoe = next.Shoe.Shuffled(rnd)
		next.Discard = nil
	}

	draw := func() model.Card {
		c := next.Shoe[0]
		next.Shoe = next.Shoe[1:]
		return c
	}

	// Two cards each, dealt alternately starting with the player
	player := []model.Card{draw()}
	bank := []model.Card{draw()}
	player = append(player, draw())
	bank = append(bank, draw())

	playerScore := HandScore(player)
	bankScore := HandScore(bank)

	// A natural eight or nine on either side ends the deal
	natural := playerScore >= 8 || bankScore >= 8

	playerDrew := false
	playerThird := 0
	if !natural && playerScore <= 5 {
		third := draw()
		player = append(player, third)
		playerDrew = true
		playerThird = CardValue(third)
		playerScore = HandScore(player)
	}
	if !natural && bankDraws(bankScore, playerThird, playerDrew) {
		bank = append(bank, draw())
		bankScore = HandScore(bank)
	}

	var outcome Outcome
	switch {
	case playerScore > bankScore:
		outcome = OutcomePlayer
	case bankScore > playerScore:
		outcome = OutcomeBank
	default:
		outcome = OutcomeTie
	}

	net := settleBet(bet, outcome)
	next.Balance += net
	next.Discard = append(next.Discard, player...)
	next.Discard = append(next.Discard, bank...)
	next.Coups++
	next.LastResult = &Result{
		PlayerHand:  player,
		BankHand:    bank,
		PlayerScore: playerScore,
		BankScore:   bankScore,
		Outcome:     outcome,
		Net:         net,
	}
	return next, nil
}

// settleBet returns the bettor's net balance change. Player and bank
// bets push on a tie; the commission applies only to winning bank
// bets.
func settleBet(bet Bet, outcome Outcome) int {
	switch bet.Type {
	case BetPlayer:
		switch outcome {
		case OutcomePlayer:
			return bet.Amount
		case OutcomeTie:
			return 0
		default:
			return -bet.Amount
		}
	case BetBank:
		switch outcome {
		case OutcomeBank:
			return bet.Amount * (100 - BankCommissionPercent) / 100
		case OutcomeTie:
			return 0
		default:
			return -bet.Amount
		}
	default: // BetTie
		if outcome == OutcomeTie {
			return bet.Amount * TiePayoutMultiplier
		}
		return -bet.Amount
	}
}

// IsTerminal reports whether the bettor can no longer stake anything
func IsTerminal(s State) bool {
	return s.Balance <= 0
}
