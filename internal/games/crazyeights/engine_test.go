package crazyeights

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pixelden/gameroom/internal/dependencies/random"
	"github.com/pixelden/gameroom/internal/model"
)

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// fixedState builds a hand-crafted two-player position:
// seat 0 holds a matching-suit card, a matching-rank card, a wild and
// an unplayable card; the discard shows the 5 of hearts.
func fixedState() State {
	return State{
		Deck: model.Deck{
			{ID: 40, Suit: model.Clubs, Rank: 2},
			{ID: 41, Suit: model.Clubs, Rank: 3},
		},
		Discard: []model.Card{{ID: 30, Suit: model.Hearts, Rank: 5}},
		Hands: [][]model.Card{
			{
				{ID: 1, Suit: model.Hearts, Rank: 9},   // matches suit
				{ID: 2, Suit: model.Spades, Rank: 5},   // matches rank
				{ID: 3, Suit: model.Clubs, Rank: 8},    // wild
				{ID: 4, Suit: model.Diamonds, Rank: 2}, // unplayable
			},
			{
				{ID: 10, Suit: model.Spades, Rank: 3},
				{ID: 11, Suit: model.Clubs, Rank: 12},
			},
		},
		Turn:        0,
		CurrentSuit: model.Hearts,
		Winner:      -1,
	}
}

func (s *EngineSuite) TestDealHandSizes() {
	rnd := random.NewSeeded(1)

	two, err := Deal(2, rnd)
	s.Require().NoError(err)
	s.Len(two.Hands[0], 7, "7 cards each for up to 3 players")
	s.Len(two.Hands[1], 7)
	s.Len(two.Discard, 1)
	s.Equal(two.TopDiscard().Suit, two.CurrentSuit)
	s.Len(two.Deck, 52-14-1)

	four, err := Deal(4, rnd)
	s.Require().NoError(err)
	for seat := range four.Hands {
		s.Len(four.Hands[seat], 5, "5 cards each for 4+ players")
	}
}

func (s *EngineSuite) TestDealRejectsBadPlayerCounts() {
	rnd := random.NewSeeded(1)

	_, err := Deal(1, rnd)
	s.Error(err)
	_, err = Deal(7, rnd)
	s.Error(err)
}

func (s *EngineSuite) TestLegalMovesMatchSuitRankAndWild() {
	st := fixedState()

	moves := LegalMoves(st, 0)
	s.Contains(moves, Move{Action: ActionPlay, CardID: 1})
	s.Contains(moves, Move{Action: ActionPlay, CardID: 2})
	s.Contains(moves, Move{Action: ActionPlay, CardID: 3}, "wild is always playable")
	s.NotContains(moves, Move{Action: ActionPlay, CardID: 4})
	s.Contains(moves, Move{Action: ActionDraw})
}

func (s *EngineSuite) TestPlayMatchingSuitAdvancesTurn() {
	st := fixedState()

	next, err := Apply(st, Move{Action: ActionPlay, CardID: 1})
	s.Require().NoError(err)
	s.Equal(1, next.Turn)
	s.Equal(model.Hearts, next.CurrentSuit)
	s.Len(next.Hands[0], 3)
	s.Equal(9, int(next.TopDiscard().Rank))
}

func (s *EngineSuite) TestPlayMatchingRankChangesSuit() {
	st := fixedState()

	next, err := Apply(st, Move{Action: ActionPlay, CardID: 2})
	s.Require().NoError(err)
	s.Equal(model.Spades, next.CurrentSuit, "effective suit follows the played card")
}

func (s *EngineSuite) TestWildRequiresSuitDeclaration() {
	st := fixedState()

	next, err := Apply(st, Move{Action: ActionPlay, CardID: 3})
	s.Require().NoError(err)
	s.True(next.AwaitingSuit)
	s.Equal(0, next.Turn, "turn does not pass until the suit is declared")

	moves := LegalMoves(next, 0)
	s.Len(moves, 4)
	for _, m := range moves {
		s.Equal(ActionDeclareSuit, m.Action)
	}

	// Playing while a declaration is pending is illegal
	_, err = Apply(next, Move{Action: ActionPlay, CardID: 1})
	s.ErrorIs(err, model.ErrIllegalMove)

	declared, err := Apply(next, Move{Action: ActionDeclareSuit, Suit: model.Clubs})
	s.Require().NoError(err)
	s.Equal(model.Clubs, declared.CurrentSuit)
	s.False(declared.AwaitingSuit)
	s.Equal(1, declared.Turn)
}

func (s *EngineSuite) TestDeclaredSuitGovernsNextPlay() {
	st := fixedState()

	next, err := Apply(st, Move{Action: ActionPlay, CardID: 3})
	s.Require().NoError(err)
	next, err = Apply(next, Move{Action: ActionDeclareSuit, Suit: model.Clubs})
	s.Require().NoError(err)

	// Seat 1's club queen matches the declared suit, not the 8's suit
	played, err := Apply(next, Move{Action: ActionPlay, CardID: 11})
	s.Require().NoError(err)
	s.Equal(model.Clubs, played.CurrentSuit)

	// The spade 3 would not have matched
	_, err = Apply(next, Move{Action: ActionPlay, CardID: 10})
	s.ErrorIs(err, model.ErrIllegalMove)
}

func (s *EngineSuite) TestDrawCapThenForcedPass() {
	st := fixedState()
	// Strand seat 0 with only the unplayable diamond
	st.Hands[0] = []model.Card{{ID: 4, Suit: model.Diamonds, Rank: 2}}

	next, err := Apply(st, Move{Action: ActionDraw})
	s.Require().NoError(err)
	s.Equal(1, next.DrawsThisTurn)
	s.Len(next.Hands[0], 2)
	s.Equal(0, next.Turn, "drawing does not end the turn")

	// Deck runs dry after the second draw
	next, err = Apply(next, Move{Action: ActionDraw})
	s.Require().NoError(err)
	s.Empty(next.Deck)

	_, err = Apply(next, Move{Action: ActionDraw})
	s.ErrorIs(err, model.ErrExhaustedDeck)

	// Both drawn clubs are unplayable on hearts/5, so pass is forced
	passed, err := Apply(next, Move{Action: ActionPass})
	s.Require().NoError(err)
	s.Equal(1, passed.Turn)
	s.Equal(0, passed.DrawsThisTurn)
}

func (s *EngineSuite) TestPassIllegalWithPlayableCard() {
	st := fixedState()

	_, err := Apply(st, Move{Action: ActionPass})
	s.ErrorIs(err, model.ErrIllegalMove)
}

func (s *EngineSuite) TestWinOnEmptyHand() {
	st := fixedState()
	st.Hands[0] = []model.Card{{ID: 1, Suit: model.Hearts, Rank: 9}}

	next, err := Apply(st, Move{Action: ActionPlay, CardID: 1})
	s.Require().NoError(err)
	s.True(IsTerminal(next))

	seat, done := Winner(next)
	s.True(done)
	s.Equal(0, seat)

	_, err = Apply(next, Move{Action: ActionPlay, CardID: 10})
	s.ErrorIs(err, model.ErrGameComplete)
}

func (s *EngineSuite) TestApplyDoesNotMutateInput() {
	st := fixedState()

	_, err := Apply(st, Move{Action: ActionPlay, CardID: 1})
	s.Require().NoError(err)
	s.Len(st.Hands[0], 4)
	s.Len(st.Discard, 1)
}
