package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.com/tourney/poker"
)

// policySnapshot builds a six seat snapshot with the decision on seat 3.
func policySnapshot(hole []poker.Card, community []poker.Card, currentBet int32, seatBet int32, chips int32, handNum uint32) *TableSnapshot {
	seats := make([]SeatSnapshot, 6)
	for i := range seats {
		seats[i] = SeatSnapshot{
			PlayerID: fmt.Sprintf("player-%d", i),
			Name:     fmt.Sprintf("Bot%d", i),
			SeatNo:   i,
			Chips:    1000,
		}
	}
	seats[3].HoleCards = hole
	seats[3].Bet = seatBet
	seats[3].Chips = chips
	return &TableSnapshot{
		Seats:      seats,
		Community:  community,
		Pot:        0,
		CurrentBet: currentBet,
		Phase:      PhasePreflop,
		ActiveSeat: 3,
		DealerSeat: 0,
		SmallBlind: 10,
		BigBlind:   20,
		HandNum:    handNum,
		WinnerSeat: -1,
	}
}

func holeCards(a, b string) []poker.Card {
	return []poker.Card{poker.NewCard(a), poker.NewCard(b)}
}

func TestDecideIsDeterministicPerSeatPerHand(t *testing.T) {
	snap := policySnapshot(holeCards("Ah", "Kh"), nil, 20, 0, 1000, 17)
	first := Decide(snap, 3)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Decide(snap, 3))
	}
}

func TestDecideNeverMutatesSnapshot(t *testing.T) {
	snap := policySnapshot(holeCards("Ah", "Kh"), nil, 20, 0, 1000, 3)
	chipsBefore := snap.Seats[3].Chips
	betBefore := snap.Seats[3].Bet
	potBefore := snap.Pot

	Decide(snap, 3)
	assert.Equal(t, chipsBefore, snap.Seats[3].Chips)
	assert.Equal(t, betBefore, snap.Seats[3].Bet)
	assert.Equal(t, potBefore, snap.Pot)
}

func TestDecideNeverFoldsWhenCheckIsFree(t *testing.T) {
	for handNum := uint32(1); handNum <= 100; handNum++ {
		snap := policySnapshot(holeCards("7h", "2c"), nil, 0, 0, 1000, handNum)
		decision := Decide(snap, 3)
		assert.NotEqual(t, ActionFold, decision.Action,
			"hand %d: folded with nothing to match", handNum)
	}
}

func TestDecideRaisesAlwaysExceedCurrentBet(t *testing.T) {
	holes := [][]poker.Card{
		holeCards("Ah", "Ad"),
		holeCards("Kh", "Qh"),
		holeCards("9c", "8c"),
		holeCards("7h", "2c"),
	}
	for _, hole := range holes {
		for handNum := uint32(1); handNum <= 100; handNum++ {
			snap := policySnapshot(hole, nil, 20, 0, 1000, handNum)
			decision := Decide(snap, 3)
			if decision.Action == ActionRaise {
				assert.Greater(t, decision.Amount, snap.CurrentBet)
			}
		}
	}
}

func TestPremiumHandsMostlyRaise(t *testing.T) {
	raises, folds := 0, 0
	const trials = 200
	for handNum := uint32(1); handNum <= trials; handNum++ {
		snap := policySnapshot(holeCards("Ah", "Ad"), nil, 20, 0, 1000, handNum)
		switch Decide(snap, 3).Action {
		case ActionRaise:
			raises++
		case ActionFold:
			folds++
		}
	}
	assert.Greater(t, raises, trials/4, "pocket aces should raise often")
	// the premium fold quirk is rare by construction
	assert.Less(t, folds, trials/10)
}

func TestTrashFoldsIntoLargeBet(t *testing.T) {
	for handNum := uint32(1); handNum <= 50; handNum++ {
		snap := policySnapshot(holeCards("7h", "2c"), nil, 300, 0, 1000, handNum)
		decision := Decide(snap, 3)
		// seat 3 is not in late position, so the bluff quirk never hits
		assert.Equal(t, ActionFold, decision.Action, "hand %d", handNum)
	}
}

func TestPostflopStrengthFormula(t *testing.T) {
	hole := holeCards("9c", "9d")
	community := []poker.Card{
		poker.NewCard("9h"),
		poker.NewCard("4s"),
		poker.NewCard("4c"),
	}
	// full house: 6*15 + (9/14)*10 + 50
	strength := postflopStrength(hole, community)
	assert.InDelta(t, 146.43, strength, 0.01)
}

func TestPreflopStrengthOrdering(t *testing.T) {
	aces := preflopStrength(holeCards("Ah", "Ad"))
	kings := preflopStrength(holeCards("Kh", "Kd"))
	aceKingSuited := preflopStrength(holeCards("Ah", "Kh"))
	aceKingOff := preflopStrength(holeCards("Ah", "Kd"))
	connectors := preflopStrength(holeCards("9h", "8h"))
	trash := preflopStrength(holeCards("7h", "2c"))

	assert.GreaterOrEqual(t, aces, kings)
	assert.Greater(t, kings, aceKingSuited)
	assert.Greater(t, aceKingSuited, aceKingOff)
	assert.Greater(t, aceKingOff, connectors)
	assert.Greater(t, connectors, trash)
	assert.GreaterOrEqual(t, preflopStrength(holeCards("Ah", "Ad")), premiumStrength)
}

func TestDeterministicRollStableAndBounded(t *testing.T) {
	roll := deterministicRoll("player-3", 17, "quirk")
	require.Equal(t, roll, deterministicRoll("player-3", 17, "quirk"))
	assert.GreaterOrEqual(t, roll, 0.0)
	assert.LessOrEqual(t, roll, 1.0)
	// different hands and seats roll differently
	assert.NotEqual(t, roll, deterministicRoll("player-3", 18, "quirk"))
	assert.NotEqual(t, roll, deterministicRoll("player-4", 17, "quirk"))
}
