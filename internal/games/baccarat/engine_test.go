package baccarat

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pixelden/gameroom/internal/dependencies/mocks"
	"github.com/pixelden/gameroom/internal/model"
)

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// shoe builds a deck dealing the given ranks in draw order, padded with
// kings so the coup stays clear of the reshuffle threshold
func shoe(ranks ...model.Rank) model.Deck {
	var d model.Deck
	for i, r := range ranks {
		d = append(d, model.Card{ID: i, Suit: model.Spades, Rank: r})
	}
	for i := 0; i < ReshuffleThreshold+4; i++ {
		d = append(d, model.Card{ID: 100 + i, Suit: model.Hearts, Rank: model.RankKing})
	}
	return d
}

func (s *EngineSuite) TestHandScoreKeepsUnitsDigit() {
	cards := []model.Card{
		{Rank: 7, Suit: model.Spades},
		{Rank: 8, Suit: model.Hearts},
	}
	s.Equal(5, HandScore(cards))
	s.Equal(0, CardValue(model.Card{Rank: model.RankKing}))
	s.Equal(0, CardValue(model.Card{Rank: 10}))
	s.Equal(1, CardValue(model.Card{Rank: model.RankAce}))
}

func (s *EngineSuite) TestNaturalEndsTheDeal() {
	// Player 4+5 = 9 natural, bank 2+3 = 5. Neither side draws.
	st := State{Shoe: shoe(4, 2, 5, 3), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetPlayer, Amount: 10}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Require().NotNil(next.LastResult)
	s.Len(next.LastResult.PlayerHand, 2)
	s.Len(next.LastResult.BankHand, 2)
	s.Equal(9, next.LastResult.PlayerScore)
	s.Equal(5, next.LastResult.BankScore)
	s.Equal(OutcomePlayer, next.LastResult.Outcome)
	s.Equal(DefaultBalance+10, next.Balance)
	s.Equal(1, next.Coups)
}

func (s *EngineSuite) TestPlayerDrawsOnFiveOrLess() {
	// Player 2+3 = 5 draws a 6 for 1. Bank 2+2 = 4 with player third 6
	// draws a 4 for 8 and wins.
	st := State{Shoe: shoe(2, 2, 3, 2, 6, 4), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetPlayer, Amount: 10}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Len(next.LastResult.PlayerHand, 3)
	s.Len(next.LastResult.BankHand, 3)
	s.Equal(1, next.LastResult.PlayerScore)
	s.Equal(8, next.LastResult.BankScore)
	s.Equal(OutcomeBank, next.LastResult.Outcome)
	s.Equal(DefaultBalance-10, next.Balance)
}

func (s *EngineSuite) TestBankStandsOnSixAgainstLowThirdCard() {
	// Player 2+3 = 5 draws an ace. Bank 3+3 = 6 stands since the
	// player's third card was neither a six nor a seven.
	st := State{Shoe: shoe(2, 3, 3, 3, model.RankAce), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetBank, Amount: 10}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Len(next.LastResult.BankHand, 2)
	s.Equal(6, next.LastResult.PlayerScore)
	s.Equal(6, next.LastResult.BankScore)
	s.Equal(OutcomeTie, next.LastResult.Outcome)
	s.Equal(DefaultBalance, next.Balance, "bank bets push on a tie")
}

func (s *EngineSuite) TestBankThirdCardTable() {
	cases := []struct {
		bankTotal   int
		playerThird int
		playerDrew  bool
		draws       bool
	}{
		{2, 0, true, true},
		{3, 8, true, false},
		{3, 7, true, true},
		{4, 1, true, false},
		{4, 2, true, true},
		{4, 7, true, true},
		{4, 8, true, false},
		{5, 3, true, false},
		{5, 4, true, true},
		{6, 5, true, false},
		{6, 6, true, true},
		{6, 7, true, true},
		{7, 6, true, false},
		{5, 0, false, true},
		{6, 0, false, false},
	}
	for _, c := range cases {
		s.Equal(c.draws, bankDraws(c.bankTotal, c.playerThird, c.playerDrew),
			"bank %d player third %d drew %v", c.bankTotal, c.playerThird, c.playerDrew)
	}
}

func (s *EngineSuite) TestBankWinPaysCommission() {
	// Player 4+3 = 7 stands, bank 4+4 = 8 natural wins.
	st := State{Shoe: shoe(4, 4, 3, 4), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetBank, Amount: 100}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Equal(OutcomeBank, next.LastResult.Outcome)
	s.Equal(95, next.LastResult.Net)
	s.Equal(DefaultBalance+95, next.Balance)
}

func (s *EngineSuite) TestTiePaysEightToOne() {
	// Both sides natural eight.
	st := State{Shoe: shoe(4, 3, 4, 5), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetTie, Amount: 5}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Equal(OutcomeTie, next.LastResult.Outcome)
	s.Equal(5*TiePayoutMultiplier, next.LastResult.Net)
}

func (s *EngineSuite) TestTieBetLosesOnDecision() {
	st := State{Shoe: shoe(4, 2, 5, 3), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetTie, Amount: 5}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Equal(OutcomePlayer, next.LastResult.Outcome)
	s.Equal(-5, next.LastResult.Net)
}

func (s *EngineSuite) TestDealtCardsMoveToDiscard() {
	st := State{Shoe: shoe(4, 2, 5, 3), Balance: DefaultBalance}

	next, err := Deal(st, Bet{Type: BetPlayer, Amount: 10}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Len(next.Discard, 4)
	s.Len(next.Shoe, len(st.Shoe)-4)
}

func (s *EngineSuite) TestShoeRebuildsBelowThreshold() {
	old := NewGame(mocks.NewMockRandom())
	st := State{
		Shoe:    old.Shoe[:ReshuffleThreshold-1],
		Discard: old.Shoe[ReshuffleThreshold-1:],
		Balance: DefaultBalance,
	}
	total := len(st.Shoe) + len(st.Discard)

	next, err := Deal(st, Bet{Type: BetPlayer, Amount: 10}, mocks.NewMockRandom())
	s.Require().NoError(err)
	dealt := len(next.LastResult.PlayerHand) + len(next.LastResult.BankHand)
	s.Len(next.Discard, dealt, "old discard folds back into the shoe")
	s.Equal(total, len(next.Shoe)+len(next.Discard))
}

func (s *EngineSuite) TestInvalidBetsLeaveStateUntouched() {
	st := State{Shoe: shoe(4, 2, 5, 3), Balance: 50}

	_, err := Deal(st, Bet{Type: "side", Amount: 10}, mocks.NewMockRandom())
	s.ErrorIs(err, model.ErrIllegalMove)

	_, err = Deal(st, Bet{Type: BetPlayer, Amount: 0}, mocks.NewMockRandom())
	s.ErrorIs(err, model.ErrIllegalMove)

	_, err = Deal(st, Bet{Type: BetPlayer, Amount: 51}, mocks.NewMockRandom())
	s.ErrorIs(err, model.ErrIllegalMove)

	s.Equal(50, st.Balance)
	s.Nil(st.LastResult)
}

func (s *EngineSuite) TestDealDoesNotMutateInput() {
	st := State{Shoe: shoe(2, 2, 3, 2, 6, 4), Balance: DefaultBalance}
	shoeLen := len(st.Shoe)

	_, err := Deal(st, Bet{Type: BetPlayer, Amount: 10}, mocks.NewMockRandom())
	s.Require().NoError(err)
	s.Len(st.Shoe, shoeLen)
	s.Equal(DefaultBalance, st.Balance)
	s.Zero(st.Coups)
}

func (s *EngineSuite) TestTerminalWhenBalanceExhausted() {
	s.False(IsTerminal(State{Balance: 1}))
	s.True(IsTerminal(State{Balance: 0}))
}
