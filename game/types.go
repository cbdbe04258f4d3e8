package game

import (
	"github.com/google/uuid"

	"cardroom.com/tourney/poker"
)

// GamePhase is the lifecycle of a hand within the tournament.
type GamePhase int32

const (
	PhaseWaiting GamePhase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseTournamentComplete
)

var phaseToString = map[GamePhase]string{
	PhaseWaiting:            "WAITING",
	PhasePreflop:            "PREFLOP",
	PhaseFlop:               "FLOP",
	PhaseTurn:               "TURN",
	PhaseRiver:              "RIVER",
	PhaseShowdown:           "SHOWDOWN",
	PhaseTournamentComplete: "TOURNAMENT_COMPLETE",
}

func (p GamePhase) String() string {
	return phaseToString[p]
}

// IsBettingPhase reports whether player actions are accepted in this phase.
func (p GamePhase) IsBettingPhase() bool {
	switch p {
	case PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

type ActionType int32

const (
	ActionFold ActionType = iota
	ActionCall
	ActionRaise
	ActionAllIn
)

var actionToString = map[ActionType]string{
	ActionFold:  "FOLD",
	ActionCall:  "CALL",
	ActionRaise: "RAISE",
	ActionAllIn: "ALLIN",
}

func (a ActionType) String() string {
	return actionToString[a]
}

type GameMode int32

const (
	// ModeVsBots seats one human at seat 0, bots everywhere else.
	ModeVsBots GameMode = iota
	// ModeBotBattle is bots only, used by the standalone driver.
	ModeBotBattle
)

// Seat holds one player's standing at the table. Per-round fields (Bet,
// Folded, AllIn, Acted) are owned by the betting machine; Chips,
// Eliminated and HoleCards are owned by the tournament controller.
type Seat struct {
	PlayerID   uuid.UUID
	Name       string
	IsHuman    bool
	SeatNo     int
	Chips      int32
	HoleCards  []poker.Card
	Bet        int32
	Folded     bool
	AllIn      bool
	Acted      bool
	Eliminated bool
}

// TableState is the single authoritative game state. It is owned by the
// engine; external callers only ever see snapshots of it.
type TableState struct {
	Seats          []*Seat
	Community      []poker.Card
	Pot            int32
	CurrentBet     int32
	Phase          GamePhase
	ActiveSeat     int
	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int32
	BigBlind       int32
	RoundClosed    bool
	HandNum        uint32
	// WinnerSeat is set when a single seat took the whole pot
	// (early win or unsplit showdown); -1 otherwise.
	WinnerSeat int

	deck *poker.Deck
}

// TotalChips sums stacks, live bets and the pot. Constant for the
// lifetime of a tournament.
func (t *TableState) TotalChips() int32 {
	total := t.Pot
	for _, seat := range t.Seats {
		total += seat.Chips + seat.Bet
	}
	return total
}

// LiveSeatCount is the number of seats still in the tournament.
func (t *TableState) LiveSeatCount() int {
	count := 0
	for _, seat := range t.Seats {
		if !seat.Eliminated {
			count++
		}
	}
	return count
}

// isContender reports whether the seat can still act this round.
func (t *TableState) isContender(seatNo int) bool {
	seat := t.Seats[seatNo]
	return !seat.Folded && !seat.AllIn && !seat.Eliminated
}

// isInHand reports whether the seat still holds a claim on the pot.
func (t *TableState) isInHand(seatNo int) bool {
	seat := t.Seats[seatNo]
	return !seat.Folded && !seat.Eliminated
}
