package game

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokertools/tablewatch/internal/deck"
)

func tablePlayers(stacks ...int) []*Player {
	players := make([]*Player, len(stacks))
	for i, s := range stacks {
		players[i] = NewPlayer(fmt.Sprintf("player %d", i+1), i+1, s)
	}
	return players
}

func mustHand(t *testing.T, first, second string) deck.Hand {
	t.Helper()
	h, err := deck.ParseHand(first, second)
	require.NoError(t, err)
	return h
}

func mustFlop(t *testing.T, a, b, c string) [3]deck.Card {
	t.Helper()
	return [3]deck.Card{deck.MustParse(a), deck.MustParse(b), deck.MustParse(c)}
}

func requireStacks(t *testing.T, snap Snapshot, want []StackView) {
	t.Helper()
	require.Equal(t, want, snap.Stacks)
}

func TestRoundFoldOutAfterFlopRaises(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1))

	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.RaiseTo(1, 600))
	require.NoError(t, r.Fold(2))

	require.True(t, r.Settled())
	snap := r.Snapshot()

	assert.Equal(t, 1300, snap.Pot)
	assert.True(t, snap.Won)
	assert.Equal(t, [][]string{{"player_1"}, {"player_2"}, {"player_3"}}, snap.Ranking)
	assert.Equal(t, PositionsView{Dealer: "player_1", SmallBlind: "player_2", BigBlind: "player_3"}, snap.Positions)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 1500, Balance: 500},
		{Player: "player_2", Stack: 600, Balance: -400},
		{Player: "player_3", Stack: 900, Balance: -100},
	})

	assert.Equal(t, []ActionView{
		{Action: "Check", Player: "player_1"},
		{Action: "Raise", Player: "player_2", Amount: 150},
		{Action: "Fold", Player: "player_3"},
		{Action: "Call", Player: "player_1", Amount: 200},
	}, snap.Actions["pre_flop"])
	assert.Equal(t, []ActionView{
		{Action: "Check", Player: "player_1"},
		{Action: "Raise", Player: "player_2", Amount: 200},
		{Action: "Raise", Player: "player_1", Amount: 600},
		{Action: "Fold", Player: "player_2"},
	}, snap.Actions["flop"])
	assert.Empty(t, snap.Actions["turn"])
	assert.Empty(t, snap.Actions["river"])
}

// Same hand driven with bets instead of raises, plus decision timings.
func TestRoundBetsLogIncrementsAndElapsed(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Apply(Action{Kind: ActionCheck, Seat: 1, Elapsed: 2 * time.Second}))
	require.NoError(t, r.Apply(Action{Kind: ActionBet, Seat: 2, Amount: 150, Elapsed: time.Second}))
	require.NoError(t, r.Apply(Action{Kind: ActionFold, Seat: 3, Elapsed: 3 * time.Second}))
	require.NoError(t, r.Apply(Action{Kind: ActionCall, Seat: 1}))

	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")))
	require.NoError(t, r.Apply(Action{Kind: ActionCheck, Seat: 1, Elapsed: 3 * time.Second}))
	require.NoError(t, r.Apply(Action{Kind: ActionBet, Seat: 2, Amount: 200, Elapsed: time.Second}))
	require.NoError(t, r.Apply(Action{Kind: ActionBet, Seat: 1, Amount: 600, Elapsed: time.Second}))
	require.NoError(t, r.Apply(Action{Kind: ActionFold, Seat: 2, Elapsed: 4 * time.Second}))

	require.True(t, r.Settled())
	snap := r.Snapshot()

	assert.Equal(t, 1300, snap.Pot)
	assert.Equal(t, []ActionView{
		{Action: "Check", Player: "player_1", ElapsedTime: 2},
		{Action: "Bet", Player: "player_2", ElapsedTime: 1, Amount: 150},
		{Action: "Fold", Player: "player_3", ElapsedTime: 3},
		{Action: "Call", Player: "player_1", Amount: 200},
	}, snap.Actions["pre_flop"])
	assert.Equal(t, []ActionView{
		{Action: "Check", Player: "player_1", ElapsedTime: 3},
		{Action: "Bet", Player: "player_2", ElapsedTime: 1, Amount: 200},
		{Action: "Bet", Player: "player_1", ElapsedTime: 1, Amount: 600},
		{Action: "Fold", Player: "player_2", ElapsedTime: 4},
	}, snap.Actions["flop"])
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 1500, Balance: 500},
		{Player: "player_2", Stack: 600, Balance: -400},
		{Player: "player_3", Stack: 900, Balance: -100},
	})
}

func TestRoundSplitPotAtShowdown(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1))

	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.RaiseTo(1, 600))
	require.NoError(t, r.Call(2))

	require.NoError(t, r.SetTurn(deck.MustParse("4C")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(2))

	require.NoError(t, r.SetRiver(deck.MustParse("8D")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(2))

	require.True(t, r.WaitingShowdown())
	require.NoError(t, r.SetPlayerHand(mustHand(t, "AD", "KC"), 2))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 1700, snap.Pot)
	assert.True(t, snap.Won)
	assert.Equal(t, [][]string{{"player_1", "player_2"}, {"player_3"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 1050, Balance: 50},
		{Player: "player_2", Stack: 1050, Balance: 50},
		{Player: "player_3", Stack: 900, Balance: -100},
	})
}

func TestRoundSidePotShortAllInWins(t *testing.T) {
	players := tablePlayers(500, 1000, 1500)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "7C", "8C"), 2)
	require.NoError(t, err)

	require.NoError(t, r.Check(2))
	require.NoError(t, r.RaiseTo(3, 200))
	require.NoError(t, r.Call(1))
	require.NoError(t, r.Call(2))

	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "KC", "JC")))
	require.NoError(t, r.Check(2))
	require.NoError(t, r.RaiseTo(3, 500))
	require.NoError(t, r.Call(1)) // short: all-in for 300
	require.NoError(t, r.Call(2))

	require.NoError(t, r.SetTurn(deck.MustParse("9C")))
	require.NoError(t, r.Check(2))
	require.NoError(t, r.RaiseTo(3, 800))
	require.NoError(t, r.Fold(2))

	// Lone live seat with chips: the river runs out with no action.
	require.NoError(t, r.SetRiver(deck.MustParse("8D")))
	require.True(t, r.WaitingShowdown())

	require.NoError(t, r.SetPlayerHand(mustHand(t, "AD", "KS"), 3))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 2700, snap.Pot)
	assert.True(t, snap.Won)
	assert.Equal(t, [][]string{{"player_1"}, {"player_3"}, {"player_2"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 1500, Balance: 1000},
		{Player: "player_2", Stack: 300, Balance: -700},
		{Player: "player_3", Stack: 1200, Balance: -300},
	})

	assert.Equal(t, []ActionView{
		{Action: "Check", Player: "player_2"},
		{Action: "Raise", Player: "player_3", Amount: 500},
		{Action: "Call", Player: "player_1", Amount: 300},
		{Action: "Call", Player: "player_2", Amount: 500},
	}, snap.Actions["flop"])
	assert.Empty(t, snap.Actions["river"])
}

func TestRoundFoldOutPreflop(t *testing.T) {
	players := tablePlayers(300, 300, 300)
	r, err := NewRound(Blinds{Small: 10, Big: 20}, players, mustHand(t, "TH", "9C"), 2)
	require.NoError(t, err)

	require.NoError(t, r.Fold(2))
	require.NoError(t, r.RaiseTo(3, 300))
	require.NoError(t, r.Fold(1))

	require.True(t, r.Settled())
	snap := r.Snapshot()

	assert.Equal(t, 320, snap.Pot)
	assert.False(t, snap.Won)
	assert.Equal(t, [][]string{{"player_3"}, {"player_1"}, {"player_2"}}, snap.Ranking)
	assert.Equal(t, []ActionView{
		{Action: "Fold", Player: "player_2"},
		{Action: "Raise", Player: "player_3", Amount: 290},
		{Action: "Fold", Player: "player_1"},
	}, snap.Actions["pre_flop"])
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 280, Balance: -20},
		{Player: "player_2", Stack: 300, Balance: 0},
		{Player: "player_3", Stack: 320, Balance: 20},
	})

	// Hole cards stay visible even after the hero folds.
	assert.Len(t, snap.Hands["player_1"], 2)
	assert.Empty(t, snap.Hands["player_3"])
}

func TestRoundAllInRaiseTakesBlinds(t *testing.T) {
	players := tablePlayers(280, 300, 320)
	r, err := NewRound(Blinds{Small: 10, Big: 20}, players, mustHand(t, "2H", "3C"), 3)
	require.NoError(t, err)

	require.NoError(t, r.Call(3))
	require.NoError(t, r.Call(1))
	require.NoError(t, r.RaiseTo(2, 300))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Fold(1))

	require.True(t, r.Settled())
	snap := r.Snapshot()

	assert.Equal(t, 340, snap.Pot)
	assert.Equal(t, [][]string{{"player_2"}, {"player_1"}, {"player_3"}}, snap.Ranking)
	assert.Equal(t, []ActionView{
		{Action: "Call", Player: "player_3", Amount: 20},
		{Action: "Call", Player: "player_1", Amount: 10},
		{Action: "Raise", Player: "player_2", Amount: 280},
		{Action: "Fold", Player: "player_3"},
		{Action: "Fold", Player: "player_1"},
	}, snap.Actions["pre_flop"])
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 260, Balance: -20},
		{Player: "player_2", Stack: 340, Balance: 40},
		{Player: "player_3", Stack: 300, Balance: -20},
	})
}

func TestRoundShowdownAfterCheckedStreets(t *testing.T) {
	players := tablePlayers(260, 340, 300)
	r, err := NewRound(Blinds{Small: 10, Big: 20}, players, mustHand(t, "5C", "KC"), 1)
	require.NoError(t, err)

	require.NoError(t, r.RaiseTo(1, 40))
	require.NoError(t, r.Fold(2))
	require.NoError(t, r.Call(3))

	require.NoError(t, r.SetFlop(mustFlop(t, "QH", "9S", "4C")))
	require.NoError(t, r.Bet(1, 30))
	require.NoError(t, r.Call(3))

	require.NoError(t, r.SetTurn(deck.MustParse("TS")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))

	require.NoError(t, r.SetRiver(deck.MustParse("9H")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))

	require.True(t, r.WaitingShowdown())
	require.NoError(t, r.SetPlayerHand(mustHand(t, "3C", "2C"), 3))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 150, snap.Pot)
	assert.True(t, snap.Won)
	assert.Equal(t, [][]string{{"player_1"}, {"player_3"}, {"player_2"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 340, Balance: 80},
		{Player: "player_2", Stack: 330, Balance: -10},
		{Player: "player_3", Stack: 230, Balance: -70},
	})
}

func TestRoundPreflopAllInsRunOutTheBoard(t *testing.T) {
	players := tablePlayers(340, 330, 230)
	r, err := NewRound(Blinds{Small: 10, Big: 20}, players, mustHand(t, "5C", "KH"), 2)
	require.NoError(t, err)

	require.NoError(t, r.RaiseTo(2, 330))
	require.NoError(t, r.Call(3)) // short: all-in for 220
	require.NoError(t, r.Fold(1))

	// Everyone left is all-in: the board runs out with no more action.
	require.NoError(t, r.SetFlop(mustFlop(t, "6C", "9S", "6H")))
	require.NoError(t, r.SetTurn(deck.MustParse("2S")))
	require.NoError(t, r.SetRiver(deck.MustParse("3C")))

	require.True(t, r.WaitingShowdown())
	require.NoError(t, r.SetPlayerHand(mustHand(t, "KS", "7S"), 2))
	require.NoError(t, r.SetPlayerHand(mustHand(t, "8D", "8C"), 3))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 580, snap.Pot)
	assert.False(t, snap.Won)
	assert.Equal(t, [][]string{{"player_3"}, {"player_2"}, {"player_1"}}, snap.Ranking)
	assert.Equal(t, []ActionView{
		{Action: "Raise", Player: "player_2", Amount: 330},
		{Action: "Call", Player: "player_3", Amount: 220},
		{Action: "Fold", Player: "player_1"},
	}, snap.Actions["pre_flop"])
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 320, Balance: -20},
		{Player: "player_2", Stack: 100, Balance: -230},
		{Player: "player_3", Stack: 480, Balance: 250},
	})
}

func TestRoundSplitAllInRunout(t *testing.T) {
	players := tablePlayers(220, 200, 480)
	r, err := NewRound(Blinds{Small: 15, Big: 30}, players, mustHand(t, "JS", "5H"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Fold(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.Call(3))

	require.NoError(t, r.SetFlop(mustFlop(t, "KH", "KS", "4D")))
	require.NoError(t, r.SetTurn(deck.MustParse("4C")))
	require.NoError(t, r.SetRiver(deck.MustParse("QH")))

	require.True(t, r.WaitingShowdown())
	require.NoError(t, r.SetPlayerHand(mustHand(t, "2D", "2H"), 2))
	require.NoError(t, r.SetPlayerHand(mustHand(t, "JH", "6S"), 3))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 400, snap.Pot)
	assert.Equal(t, [][]string{{"player_2", "player_3"}, {"player_1"}}, snap.Ranking)
	assert.Equal(t, []ActionView{
		{Action: "Fold", Player: "player_1"},
		{Action: "Raise", Player: "player_2", Amount: 185},
		{Action: "Call", Player: "player_3", Amount: 170},
	}, snap.Actions["pre_flop"])
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 220, Balance: 0},
		{Player: "player_2", Stack: 200, Balance: 0},
		{Player: "player_3", Stack: 480, Balance: 0},
	})
}

// With a seat eliminated earlier in the game, the two remaining seats
// play heads-up: the dealer posts the small blind and the eliminated
// seat is left out of the ranking.
func TestRoundHeadsUpAfterElimination(t *testing.T) {
	players := tablePlayers(255, 0, 645)
	players[1].Bust()

	r, err := NewRound(Blinds{Small: 15, Big: 30}, players, mustHand(t, "4S", "QD"), 3)
	require.NoError(t, err)

	require.NoError(t, r.Call(3))
	require.NoError(t, r.Check(1))

	require.NoError(t, r.SetFlop(mustFlop(t, "TH", "TC", "TD")))
	require.NoError(t, r.Check(3))
	require.NoError(t, r.Check(1))

	require.NoError(t, r.SetTurn(deck.MustParse("9C")))
	require.NoError(t, r.Check(3))
	require.NoError(t, r.Check(1))

	require.NoError(t, r.SetRiver(deck.MustParse("3H")))
	require.NoError(t, r.Bet(3, 615))
	require.NoError(t, r.Call(1)) // short: all-in for 225

	require.True(t, r.WaitingShowdown())
	require.NoError(t, r.SetPlayerHand(mustHand(t, "TS", "JD"), 3))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 900, snap.Pot)
	assert.False(t, snap.Won)
	assert.Equal(t, PositionsView{Dealer: "player_3", SmallBlind: "player_3", BigBlind: "player_1"}, snap.Positions)
	assert.Equal(t, [][]string{{"player_3"}, {"player_1"}}, snap.Ranking)
	assert.Equal(t, []ActionView{
		{Action: "Bet", Player: "player_3", Amount: 615},
		{Action: "Call", Player: "player_1", Amount: 225},
	}, snap.Actions["river"])
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 0, Balance: -255},
		{Player: "player_2", Stack: 0, Balance: 0},
		{Player: "player_3", Stack: 900, Balance: 255},
	})
	assert.Empty(t, snap.Hands["player_2"])
}

func TestRoundButtonOpensEveryStreet(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "QC", "5H"), 1)
	require.NoError(t, err)

	require.NoError(t, r.RaiseTo(1, 300))
	require.NoError(t, r.Fold(2))
	require.NoError(t, r.Call(3))
	assert.Equal(t, 650, r.Pot())

	require.NoError(t, r.SetFlop(mustFlop(t, "8D", "2S", "KC")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))

	require.NoError(t, r.SetTurn(deck.MustParse("6H")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(3, 400))
	require.NoError(t, r.Call(1))
	assert.Equal(t, 1450, r.Pot())

	require.NoError(t, r.SetRiver(deck.MustParse("9S")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))

	require.True(t, r.WaitingShowdown())
	require.NoError(t, r.SetPlayerHand(mustHand(t, "7C", "4S"), 3))
	require.NoError(t, r.Showdown())

	snap := r.Snapshot()
	assert.Equal(t, 1450, snap.Pot)
	assert.True(t, snap.Won)
	assert.Equal(t, [][]string{{"player_1"}, {"player_3"}, {"player_2"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 1750, Balance: 750},
		{Player: "player_2", Stack: 950, Balance: -50},
		{Player: "player_3", Stack: 300, Balance: -700},
	})
}

func TestRoundUncalledFlopBetStaysInWonPot(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AD", "6H"), 2)
	require.NoError(t, err)

	require.NoError(t, r.RaiseTo(2, 300))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1))

	assert.Equal(t, 650, r.Pot())
	stack1, err := r.PlayerStack(1)
	require.NoError(t, err)
	assert.Equal(t, 700, stack1)

	require.NoError(t, r.SetFlop(mustFlop(t, "7D", "5H", "2S")))
	require.NoError(t, r.Bet(2, 400))
	require.NoError(t, r.Fold(1))

	require.True(t, r.Settled())
	snap := r.Snapshot()
	assert.Equal(t, 1050, snap.Pot)
	assert.False(t, snap.Won)
	assert.Equal(t, [][]string{{"player_2"}, {"player_1"}, {"player_3"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 700, Balance: -300},
		{Player: "player_2", Stack: 1350, Balance: 350},
		{Player: "player_3", Stack: 950, Balance: -50},
	})
}

func TestRoundButtonFoldsToFlopBet(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "7D", "3C"), 2)
	require.NoError(t, err)

	require.NoError(t, r.RaiseTo(2, 300))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1))

	require.NoError(t, r.SetFlop(mustFlop(t, "4H", "8S", "JS")))
	require.NoError(t, r.Bet(2, 200))
	require.NoError(t, r.Fold(1))

	require.True(t, r.Settled())
	snap := r.Snapshot()
	assert.Equal(t, 850, snap.Pot)
	assert.Equal(t, [][]string{{"player_2"}, {"player_1"}, {"player_3"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 700, Balance: -300},
		{Player: "player_2", Stack: 1350, Balance: 350},
		{Player: "player_3", Stack: 950, Balance: -50},
	})
}

func TestRoundRemainderChipGoesToButtonSide(t *testing.T) {
	players := tablePlayers(100, 100, 100)
	r, err := NewRound(Blinds{Small: 1, Big: 2}, players, mustHand(t, "2H", "3D"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Call(1))
	require.NoError(t, r.Fold(2))
	require.NoError(t, r.Check(3))

	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "KD")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))
	require.NoError(t, r.SetTurn(deck.MustParse("KH")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))
	require.NoError(t, r.SetRiver(deck.MustParse("QS")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Check(3))

	require.NoError(t, r.SetPlayerHand(mustHand(t, "2C", "3S"), 3))
	require.NoError(t, r.Showdown())

	// Both seats play the board; the 5-chip pot splits 3/2 with the odd
	// chip to the button.
	snap := r.Snapshot()
	assert.Equal(t, 5, snap.Pot)
	assert.Equal(t, [][]string{{"player_1", "player_3"}, {"player_2"}}, snap.Ranking)
	requireStacks(t, snap, []StackView{
		{Player: "player_1", Stack: 101, Balance: 1},
		{Player: "player_2", Stack: 99, Balance: -1},
		{Player: "player_3", Stack: 100, Balance: 0},
	})
}

func TestRoundActionValidation(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	// Seat 2 is not due yet.
	require.ErrorIs(t, r.Check(2), ErrOutOfTurn)
	require.ErrorIs(t, r.Apply(Action{Kind: ActionCheck, Seat: 9}), ErrUnknownSeat)

	// Nothing to call before any aggression for the button.
	require.NoError(t, r.Check(1))
	require.ErrorIs(t, r.Bet(2, 2000), ErrInsufficientStack)
	require.ErrorIs(t, r.RaiseTo(2, 50), ErrIllegalAction)
	require.NoError(t, r.RaiseTo(2, 200))

	// Checking behind a raise is illegal, as is raising beyond a stack.
	require.ErrorIs(t, r.Check(3), ErrIllegalAction)
	require.ErrorIs(t, r.RaiseTo(3, 5000), ErrInsufficientStack)
	require.NoError(t, r.Fold(3))

	// A folded seat cannot come back.
	require.ErrorIs(t, r.Call(3), ErrIllegalAction)
	require.NoError(t, r.Call(1))

	// Betting is closed between streets; board pushes must be in order.
	require.ErrorIs(t, r.Check(1), ErrIllegalAction)
	require.ErrorIs(t, r.SetTurn(deck.MustParse("4C")), ErrBoardSequence)
	require.ErrorIs(t, r.Showdown(), ErrShowdownNotReady)

	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")))
	require.ErrorIs(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")), ErrBoardSequence)

	// Calling with no outstanding bet is illegal post-flop.
	require.ErrorIs(t, r.Call(1), ErrIllegalAction)
}

func TestRoundBoardPushWhileBettingOpen(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.ErrorIs(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")), ErrBettingOpen)
}

func TestRoundShowdownRequiresAllHands(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Check(1))
	require.NoError(t, r.Call(2))
	require.NoError(t, r.Check(3))
	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")))
	for _, seat := range []int{1, 2, 3} {
		require.NoError(t, r.Check(seat))
	}
	require.NoError(t, r.SetTurn(deck.MustParse("4C")))
	for _, seat := range []int{1, 2, 3} {
		require.NoError(t, r.Check(seat))
	}
	require.NoError(t, r.SetRiver(deck.MustParse("8D")))
	for _, seat := range []int{1, 2, 3} {
		require.NoError(t, r.Check(seat))
	}

	require.True(t, r.WaitingShowdown())
	require.ErrorIs(t, r.Showdown(), ErrMissingHand)

	require.NoError(t, r.SetPlayerHand(mustHand(t, "2D", "2H"), 2))
	require.ErrorIs(t, r.Showdown(), ErrMissingHand)

	require.NoError(t, r.SetPlayerHand(mustHand(t, "JH", "6S"), 3))
	require.NoError(t, r.Showdown())

	require.True(t, r.Settled())
	require.ErrorIs(t, r.Check(1), ErrRoundSettled)
	require.ErrorIs(t, r.SetPlayerHand(mustHand(t, "9H", "9C"), 2), ErrRoundSettled)
}

func TestRoundSnapshotIdempotent(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))

	first := r.Snapshot()
	second := r.Snapshot()
	require.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.JSONEq(t, string(a), string(b))
}

func TestRoundSnapshotJSONShape(t *testing.T) {
	players := tablePlayers(1000, 1000, 1000)
	r, err := NewRound(Blinds{Small: 50, Big: 100}, players, mustHand(t, "AH", "KH"), 1)
	require.NoError(t, err)

	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1))
	require.NoError(t, r.SetFlop(mustFlop(t, "AS", "AC", "3C")))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.RaiseTo(2, 200))
	require.NoError(t, r.RaiseTo(1, 600))
	require.NoError(t, r.Fold(2))

	got, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)

	expected := `
	{
		"actions": {
			"pre_flop": [
				{ "action": "Check", "player": "player_1", "elapsed_time": 0 },
				{ "action": "Raise", "player": "player_2", "elapsed_time": 0, "amount": 150 },
				{ "action": "Fold", "player": "player_3", "elapsed_time": 0 },
				{ "action": "Call", "player": "player_1", "elapsed_time": 0, "amount": 200 }
			],
			"flop": [
				{ "action": "Check", "player": "player_1", "elapsed_time": 0 },
				{ "action": "Raise", "player": "player_2", "elapsed_time": 0, "amount": 200 },
				{ "action": "Raise", "player": "player_1", "elapsed_time": 0, "amount": 600 },
				{ "action": "Fold", "player": "player_2", "elapsed_time": 0 }
			],
			"turn": [],
			"river": []
		},
		"board": [
			{ "shortName": "AS", "rank": "Ace", "suit": "Spade" },
			{ "shortName": "AC", "rank": "Ace", "suit": "Club" },
			{ "shortName": "3C", "rank": "Three", "suit": "Club" }
		],
		"hands": {
			"player_1": [
				{ "shortName": "AH", "rank": "Ace", "suit": "Heart" },
				{ "shortName": "KH", "rank": "King", "suit": "Heart" }
			],
			"player_2": [],
			"player_3": []
		},
		"pot": 1300,
		"blinds": { "small": 50, "big": 100 },
		"won": true,
		"positions": {
			"dealer": "player_1",
			"small_blind": "player_2",
			"big_blind": "player_3"
		},
		"ranking": [["player_1"], ["player_2"], ["player_3"]],
		"stacks": [
			{ "player": "player_1", "stack": 1500, "balance": 500 },
			{ "player": "player_2", "stack": 600, "balance": -400 },
			{ "player": "player_3", "stack": 900, "balance": -100 }
		]
	}`
	require.JSONEq(t, expected, string(got))
}

func TestRoundHeadsUpBlindRule(t *testing.T) {
	players := tablePlayers(500, 500)
	r, err := NewRound(Blinds{Small: 10, Big: 20}, players, mustHand(t, "AH", "KH"), 2)
	require.NoError(t, err)

	snap := r.Snapshot()
	assert.Equal(t, PositionsView{Dealer: "player_2", SmallBlind: "player_2", BigBlind: "player_1"}, snap.Positions)

	// The button acts first pre-flop as everywhere else.
	require.ErrorIs(t, r.Check(1), ErrOutOfTurn)
	require.NoError(t, r.Call(2))
	require.NoError(t, r.Check(1))

	assert.Equal(t, 40, r.Pot())
}
