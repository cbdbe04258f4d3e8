package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardroom.com/tourney/logging"
	"cardroom.com/tourney/poker"
)

var tournamentLogger = log.With().Str("logger_name", "game::tournament").Logger()

// newTableState seats the participants with fresh identities and equal
// stacks. In ModeVsBots the first name is the human seat.
func newTableState(names []string, mode GameMode, startingChips int32, smallBlind int32, bigBlind int32) *TableState {
	seats := make([]*Seat, len(names))
	for i, name := range names {
		seats[i] = &Seat{
			PlayerID: uuid.New(),
			Name:     name,
			IsHuman:  mode == ModeVsBots && i == 0,
			SeatNo:   i,
			Chips:    startingChips,
		}
	}
	return &TableState{
		Seats:          seats,
		Phase:          PhaseWaiting,
		ActiveSeat:     -1,
		DealerSeat:     len(seats) - 1,
		SmallBlindSeat: -1,
		BigBlindSeat:   -1,
		SmallBlind:     smallBlind,
		BigBlind:       bigBlind,
		WinnerSeat:     -1,
	}
}

// nextLiveSeat scans cyclically for the next non-eliminated seat,
// bounded by the seat count; -1 when none is found.
func (t *TableState) nextLiveSeat(from int) int {
	seatNo := from
	for i := 0; i < len(t.Seats); i++ {
		seatNo = (seatNo + 1) % len(t.Seats)
		if !t.Seats[seatNo].Eliminated {
			return seatNo
		}
	}
	return -1
}

// liveSeatAfter walks n steps through the live-seat-only cyclic
// ordering. Eliminated seats are excluded from the rotation entirely,
// not merely skipped once.
func (t *TableState) liveSeatAfter(from int, n int) int {
	seatNo := from
	for i := 0; i < n; i++ {
		seatNo = t.nextLiveSeat(seatNo)
		if seatNo < 0 {
			return -1
		}
	}
	return seatNo
}

// startHand rotates the dealer, builds a fresh shuffled deck, deals the
// hole cards and posts the blinds. The table comes out in PREFLOP with
// the action on the first-to-act seat.
func (t *TableState) startHand(source rand.Source) error {
	if t.Phase == PhaseTournamentComplete {
		return UnexpectedPhaseError{Phase: t.Phase, Msg: "tournament is over"}
	}
	if t.LiveSeatCount() < 2 {
		return UnexpectedPhaseError{Phase: t.Phase, Msg: "not enough players for a hand"}
	}

	t.HandNum++
	t.Community = nil
	t.Pot = 0
	t.CurrentBet = 0
	t.RoundClosed = false
	t.WinnerSeat = -1
	for _, seat := range t.Seats {
		seat.Bet = 0
		seat.AllIn = false
		seat.Acted = false
		seat.HoleCards = nil
		// eliminated seats take no part in the hand
		seat.Folded = seat.Eliminated
	}

	dealer := t.nextLiveSeat(t.DealerSeat)
	if dealer < 0 {
		return FatalEngineError{Msg: "no live seat to take the button"}
	}
	t.DealerSeat = dealer

	t.deck = poker.NewDeck(source)
	if err := t.dealHoleCards(); err != nil {
		return err
	}

	smallBlindSeat, bigBlindSeat, firstToAct := t.blindPositions()
	t.SmallBlindSeat = smallBlindSeat
	t.BigBlindSeat = bigBlindSeat
	t.postBlind(smallBlindSeat, t.SmallBlind)
	t.postBlind(bigBlindSeat, t.BigBlind)
	t.CurrentBet = t.BigBlind

	// the small blind still owes action; the big blind has matched the
	// full current bet by posting it
	t.Seats[smallBlindSeat].Acted = false
	t.Seats[bigBlindSeat].Acted = true

	t.Phase = PhasePreflop
	t.ActiveSeat = firstToAct
	if !t.isContender(firstToAct) {
		t.advanceTurn()
	}
	t.RoundClosed = t.evaluateRoundClosed()

	tournamentLogger.Debug().
		Uint32(logging.HandNumKey, t.HandNum).
		Msgf("Hand started. Button: %d SB: %d BB: %d First to act: %d",
			t.DealerSeat, smallBlindSeat, bigBlindSeat, t.ActiveSeat)
	return nil
}

// blindPositions computes SB, BB and first-to-act over the live-seat
// ordering. Heads up, the dealer posts the small blind and acts first.
func (t *TableState) blindPositions() (int, int, int) {
	if t.LiveSeatCount() == 2 {
		other := t.nextLiveSeat(t.DealerSeat)
		return t.DealerSeat, other, t.DealerSeat
	}
	smallBlind := t.liveSeatAfter(t.DealerSeat, 1)
	bigBlind := t.liveSeatAfter(t.DealerSeat, 2)
	firstToAct := t.liveSeatAfter(t.DealerSeat, 3)
	return smallBlind, bigBlind, firstToAct
}

// postBlind takes the forced bet, capped by the stack so a short stack
// posts all-in.
func (t *TableState) postBlind(seatNo int, amount int32) {
	seat := t.Seats[seatNo]
	if amount > seat.Chips {
		amount = seat.Chips
	}
	seat.Chips -= amount
	seat.Bet = amount
	if seat.Chips == 0 {
		seat.AllIn = true
	}
}

// dealHoleCards hands two cards to every live seat, one at a time
// around the table starting left of the button.
func (t *TableState) dealHoleCards() error {
	for round := 0; round < 2; round++ {
		seatNo := t.DealerSeat
		for i := 0; i < t.LiveSeatCount(); i++ {
			seatNo = t.nextLiveSeat(seatNo)
			card, err := t.deck.Draw()
			if err != nil {
				return FatalEngineError{Msg: err.Error()}
			}
			seat := t.Seats[seatNo]
			seat.HoleCards = append(seat.HoleCards, card)
		}
	}
	return nil
}

// finishHand runs the hand-boundary bookkeeping after a showdown: seats
// that busted are eliminated now (never mid-hand), and the tournament
// completes when a single live seat remains.
func (t *TableState) finishHand() (eliminated []int, complete bool) {
	if t.Phase != PhaseShowdown {
		return nil, false
	}
	for seatNo, seat := range t.Seats {
		if !seat.Eliminated && seat.Chips == 0 {
			seat.Eliminated = true
			eliminated = append(eliminated, seatNo)
			tournamentLogger.Info().
				Uint32(logging.HandNumKey, t.HandNum).
				Str(logging.PlayerNameKey, seat.Name).
				Msgf("Seat %d eliminated", seatNo)
		}
	}
	if t.LiveSeatCount() == 1 {
		t.Phase = PhaseTournamentComplete
		for seatNo, seat := range t.Seats {
			if !seat.Eliminated {
				t.WinnerSeat = seatNo
			}
		}
		return eliminated, true
	}
	return eliminated, false
}
