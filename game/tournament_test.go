package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealerRotationSkipsEliminated(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal", "Dave"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	table.Seats[1].Eliminated = true
	table.Seats[1].Chips = 0

	require.NoError(t, table.startHand(rand.NewSource(1)))
	assert.Equal(t, 0, table.DealerSeat)
	// the live ordering is 0, 2, 3: blinds fall on 2 and 3
	assert.Equal(t, 2, table.SmallBlindSeat)
	assert.Equal(t, 3, table.BigBlindSeat)
	assert.Equal(t, 0, table.ActiveSeat)

	// eliminated seat takes no part in the hand
	assert.True(t, table.Seats[1].Folded)
	assert.Empty(t, table.Seats[1].HoleCards)
	for _, seatNo := range []int{0, 2, 3} {
		assert.Len(t, table.Seats[seatNo].HoleCards, 2)
	}
}

func TestHeadsUpBlindPositions(t *testing.T) {
	names := []string{"Bob", "Dev"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	require.NoError(t, table.startHand(rand.NewSource(1)))

	// heads up the button posts the small blind and acts first
	assert.Equal(t, 0, table.DealerSeat)
	assert.Equal(t, 0, table.SmallBlindSeat)
	assert.Equal(t, 1, table.BigBlindSeat)
	assert.Equal(t, 0, table.ActiveSeat)
}

func TestShortStackPostsBlindAllIn(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal", "Dave", "Anna", "Aditya"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	table.Seats[2].Chips = 12 // will be the big blind of the first hand

	require.NoError(t, table.startHand(rand.NewSource(1)))
	bigBlind := table.Seats[2]
	assert.Equal(t, int32(12), bigBlind.Bet)
	assert.Equal(t, int32(0), bigBlind.Chips)
	assert.True(t, bigBlind.AllIn)
	// the bet to match stays at the full big blind
	assert.Equal(t, int32(20), table.CurrentBet)
}

func TestEliminationOnlyAtHandBoundary(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	require.NoError(t, table.startHand(rand.NewSource(3)))

	// a busted stack mid-hand is not eliminated until finishHand
	table.Seats[1].Chips = 0
	table.Seats[1].AllIn = true
	assert.False(t, table.Seats[1].Eliminated)

	eliminated, complete := table.finishHand()
	assert.Empty(t, eliminated, "finishHand must be a no-op before the showdown")
	assert.False(t, complete)

	table.Phase = PhaseShowdown
	eliminated, complete = table.finishHand()
	assert.Equal(t, []int{1}, eliminated)
	assert.False(t, complete)
	assert.True(t, table.Seats[1].Eliminated)
	assert.Equal(t, 2, table.LiveSeatCount())
}

func TestTournamentCompletesWithOneSurvivor(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	require.NoError(t, table.startHand(rand.NewSource(3)))

	table.Phase = PhaseShowdown
	table.Seats[0].Chips = 3000
	table.Seats[0].Bet = 0
	table.Seats[1].Chips = 0
	table.Seats[1].Bet = 0
	table.Seats[2].Chips = 0
	table.Seats[2].Bet = 0
	table.Pot = 0

	eliminated, complete := table.finishHand()
	assert.ElementsMatch(t, []int{1, 2}, eliminated)
	assert.True(t, complete)
	assert.Equal(t, PhaseTournamentComplete, table.Phase)
	assert.Equal(t, 0, table.WinnerSeat)

	// terminal: no further hand can start
	err := table.startHand(rand.NewSource(4))
	assert.Error(t, err)
}

func TestLiveSeatAfterExcludesEliminated(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal", "Dave", "Anna", "Aditya"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	table.Seats[1].Eliminated = true
	table.Seats[3].Eliminated = true

	// live ordering from seat 0: 2, 4, 5, 0, 2, ...
	assert.Equal(t, 2, table.liveSeatAfter(0, 1))
	assert.Equal(t, 4, table.liveSeatAfter(0, 2))
	assert.Equal(t, 5, table.liveSeatAfter(0, 3))
	assert.Equal(t, 0, table.liveSeatAfter(0, 4))
	assert.Equal(t, 2, table.liveSeatAfter(0, 5))
}

func TestHoleCardsUniqueAcrossSeats(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal", "Dave", "Anna", "Aditya"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)
	require.NoError(t, table.startHand(rand.NewSource(9)))

	seen := make(map[int32]bool)
	for _, seat := range table.Seats {
		for _, card := range seat.HoleCards {
			assert.False(t, seen[int32(card)], "card %s dealt twice", card)
			seen[int32(card)] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestHandCounterAdvances(t *testing.T) {
	names := []string{"Bob", "Dev", "Kamal"}
	table := newTableState(names, ModeBotBattle, 1000, 10, 20)

	require.NoError(t, table.startHand(rand.NewSource(5)))
	assert.Equal(t, uint32(1), table.HandNum)
	firstDealer := table.DealerSeat

	table.Phase = PhaseShowdown
	_, complete := table.finishHand()
	require.False(t, complete)
	require.NoError(t, table.startHand(rand.NewSource(6)))
	assert.Equal(t, uint32(2), table.HandNum)
	assert.Equal(t, table.nextLiveSeat(firstDealer), table.DealerSeat)
}
