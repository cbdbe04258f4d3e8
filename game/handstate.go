package game

import (
	"github.com/rs/zerolog/log"

	"cardroom.com/tourney/logging"
	"cardroom.com/tourney/poker"
)

var handLogger = log.With().Str("logger_name", "game::handstate").Logger()

// HandWinner reports one seat's share of the pot at settlement.
type HandWinner struct {
	SeatNo int
	Amount int32
	// Rank is the zero value when the hand was won by everyone else
	// folding, since no cards were evaluated.
	Rank poker.HandRank
}

// applyAction validates and applies one player action. Validation happens
// before any mutation; a rejected action leaves the table untouched.
// After a successful action the round-closure predicate is re-evaluated
// and, while the round stays open, the turn moves to the next contender.
func (t *TableState) applyAction(seatNo int, action ActionType, amount int32) error {
	if !t.Phase.IsBettingPhase() {
		return UnexpectedPhaseError{Phase: t.Phase, Msg: "no betting round in progress"}
	}
	if t.RoundClosed {
		return UnexpectedPhaseError{Phase: t.Phase, Msg: "betting round is closed, waiting for the next street"}
	}
	if seatNo != t.ActiveSeat {
		return InvalidTurnError{SeatNo: seatNo, ActiveSeat: t.ActiveSeat}
	}
	seat := t.Seats[seatNo]
	if seat.Folded || seat.AllIn || seat.Eliminated {
		return InvalidTurnError{SeatNo: seatNo, ActiveSeat: t.ActiveSeat}
	}

	switch action {
	case ActionFold:
		seat.Folded = true
		seat.Acted = true
	case ActionCall:
		t.applyCall(seat)
	case ActionRaise:
		if amount <= t.CurrentBet {
			return InvalidRaiseError{Amount: amount, CurrentBet: t.CurrentBet}
		}
		t.applyRaise(seat, amount)
	case ActionAllIn:
		t.applyAllIn(seat)
	default:
		return UnexpectedPhaseError{Phase: t.Phase, Msg: "unknown action"}
	}

	t.RoundClosed = t.evaluateRoundClosed()
	if !t.RoundClosed {
		t.advanceTurn()
	}
	return nil
}

// applyCall matches the current bet, capped by the stack. A call for
// zero chips is a check.
func (t *TableState) applyCall(seat *Seat) {
	amount := t.CurrentBet - seat.Bet
	if amount > seat.Chips {
		amount = seat.Chips
	}
	seat.Chips -= amount
	seat.Bet += amount
	if seat.Chips == 0 && amount > 0 {
		seat.AllIn = true
	}
	seat.Acted = true
}

// applyRaise raises the bet to the given total. The total is capped by
// the seat's stack; if the cap brings it back under the current bet the
// raise degrades to an all-in call and does not re-open the round.
func (t *TableState) applyRaise(seat *Seat, amount int32) {
	totalBet := amount
	if max := seat.Chips + seat.Bet; totalBet > max {
		totalBet = max
	}
	if totalBet <= t.CurrentBet {
		t.applyCall(seat)
		return
	}
	delta := totalBet - seat.Bet
	seat.Chips -= delta
	seat.Bet = totalBet
	t.CurrentBet = totalBet
	seat.Acted = true
	if seat.Chips == 0 {
		seat.AllIn = true
	}
	t.reopenRound(seat.SeatNo)
}

// applyAllIn pushes the whole stack. Above the current bet it is a
// raise and re-opens the round, otherwise a stack-exhausting call.
func (t *TableState) applyAllIn(seat *Seat) {
	target := seat.Chips + seat.Bet
	if target > t.CurrentBet {
		t.applyRaise(seat, target)
	} else {
		t.applyCall(seat)
	}
}

// reopenRound clears the acted flag on every other live seat after a
// raise, so each of them owes another action.
func (t *TableState) reopenRound(raiserSeatNo int) {
	for seatNo := range t.Seats {
		if seatNo == raiserSeatNo || !t.isContender(seatNo) {
			continue
		}
		t.Seats[seatNo].Acted = false
	}
}

func (t *TableState) contenderCount() int {
	count := 0
	for seatNo := range t.Seats {
		if t.isContender(seatNo) {
			count++
		}
	}
	return count
}

func (t *TableState) inHandCount() int {
	count := 0
	for seatNo := range t.Seats {
		if t.isInHand(seatNo) {
			count++
		}
	}
	return count
}

// evaluateRoundClosed is the round-closure predicate, re-run after every
// action. The round is closed once at most one seat can still act, or
// once every contender has acted and matched the current bet. All-in
// seats are exempt from the match requirement.
func (t *TableState) evaluateRoundClosed() bool {
	if t.contenderCount() <= 1 {
		return true
	}
	for seatNo, seat := range t.Seats {
		if !t.isContender(seatNo) {
			continue
		}
		if !seat.Acted || seat.Bet != t.CurrentBet {
			return false
		}
	}
	return true
}

// nextContender scans seat indices cyclically starting after the given
// seat. The scan is bounded by the table size; -1 when no seat qualifies.
func (t *TableState) nextContender(from int) int {
	seatNo := from
	for i := 0; i < len(t.Seats); i++ {
		seatNo = (seatNo + 1) % len(t.Seats)
		if t.isContender(seatNo) {
			return seatNo
		}
	}
	return -1
}

// advanceTurn moves the active seat to the next contender. When none is
// found the index is left unchanged; the closure predicate guarantees no
// further turn is taken in that case.
func (t *TableState) advanceTurn() {
	next := t.nextContender(t.ActiveSeat)
	if next < 0 {
		handLogger.Warn().
			Uint32(logging.HandNumKey, t.HandNum).
			Msgf("No next contender from seat %d in an open round", t.ActiveSeat)
		return
	}
	t.ActiveSeat = next
}

// collectBets sweeps the live bets into the pot at the end of a round.
func (t *TableState) collectBets() {
	for _, seat := range t.Seats {
		t.Pot += seat.Bet
		seat.Bet = 0
	}
	t.CurrentBet = 0
}

// settleIfEarlyWin pays the whole table (pot plus live bets) to the last
// seat holding cards when everyone else has folded. The evaluator is
// never consulted. Returns false when the hand is still contested.
func (t *TableState) settleIfEarlyWin() (*HandWinner, bool) {
	if !t.RoundClosed || t.inHandCount() != 1 {
		return nil, false
	}
	t.collectBets()
	for seatNo := range t.Seats {
		if !t.isInHand(seatNo) {
			continue
		}
		winner := &HandWinner{SeatNo: seatNo, Amount: t.Pot}
		t.Seats[seatNo].Chips += t.Pot
		t.Pot = 0
		t.WinnerSeat = seatNo
		t.Phase = PhaseShowdown
		return winner, true
	}
	return nil, false
}

// advanceRound moves a closed betting round to the next street, dealing
// the flop, turn or river, or runs the showdown after the river.
// Winners are returned only for the showdown transition.
func (t *TableState) advanceRound() ([]*HandWinner, error) {
	if !t.Phase.IsBettingPhase() {
		return nil, UnexpectedPhaseError{Phase: t.Phase, Msg: "no betting round to advance"}
	}
	if !t.RoundClosed {
		return nil, RoundNotClosedError{Phase: t.Phase}
	}

	t.collectBets()

	switch t.Phase {
	case PhasePreflop:
		if err := t.dealCommunity(3); err != nil {
			return nil, err
		}
		t.Phase = PhaseFlop
	case PhaseFlop:
		if err := t.dealCommunity(1); err != nil {
			return nil, err
		}
		t.Phase = PhaseTurn
	case PhaseTurn:
		if err := t.dealCommunity(1); err != nil {
			return nil, err
		}
		t.Phase = PhaseRiver
	case PhaseRiver:
		return t.performShowdown()
	}

	t.resetRoundActions()
	return nil, nil
}

// resetRoundActions opens the new street: nobody has acted, there is no
// bet to match, and the first contender after the dealer is up. When one
// or zero contenders remain (multi-way all-in) the street stays closed
// and play auto-advances to the river.
func (t *TableState) resetRoundActions() {
	for seatNo := range t.Seats {
		if t.isContender(seatNo) {
			t.Seats[seatNo].Acted = false
		}
	}
	t.RoundClosed = t.contenderCount() <= 1
	if t.RoundClosed {
		return
	}
	next := t.nextContender(t.DealerSeat)
	if next < 0 {
		// contenderCount > 1 guarantees a hit; defect if not
		handLogger.Error().
			Uint32(logging.HandNumKey, t.HandNum).
			Msg("No first actor found for the new street")
		return
	}
	t.ActiveSeat = next
}

func (t *TableState) dealCommunity(n int) error {
	for i := 0; i < n; i++ {
		card, err := t.deck.Draw()
		if err != nil {
			return FatalEngineError{Msg: err.Error()}
		}
		t.Community = append(t.Community, card)
	}
	return nil
}

// performShowdown evaluates every seat still holding cards over its hole
// cards plus the board and splits the pot among the best hands.
//
// Single-pot model: there are no side pots. With multiple all-ins of
// unequal size the entire pool goes to the best hand (split evenly on
// ties, odd chips to the earliest winning seat), which deviates from
// standard multi-way settlement.
func (t *TableState) performShowdown() ([]*HandWinner, error) {
	var best poker.HandRank
	ranks := make(map[int]poker.HandRank)
	for seatNo, seat := range t.Seats {
		if !t.isInHand(seatNo) {
			continue
		}
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, seat.HoleCards...)
		cards = append(cards, t.Community...)
		rank, err := poker.Evaluate(cards)
		if err != nil {
			return nil, FatalEngineError{Msg: err.Error()}
		}
		ranks[seatNo] = rank
		if best.Cards == nil || poker.Compare(rank, best) < 0 {
			best = rank
		}
	}
	if len(ranks) == 0 {
		return nil, FatalEngineError{Msg: "showdown with no live hands"}
	}

	winners := make([]*HandWinner, 0, len(ranks))
	for seatNo := range t.Seats {
		rank, ok := ranks[seatNo]
		if !ok || poker.Compare(rank, best) != 0 {
			continue
		}
		winners = append(winners, &HandWinner{SeatNo: seatNo, Rank: rank})
	}

	share := t.Pot / int32(len(winners))
	remainder := t.Pot - share*int32(len(winners))
	for i, winner := range winners {
		amount := share
		if i == 0 {
			// odd chips to the earliest winning seat
			amount += remainder
		}
		winner.Amount = amount
		t.Seats[winner.SeatNo].Chips += amount
	}
	t.Pot = 0
	if len(winners) == 1 {
		t.WinnerSeat = winners[0].SeatNo
	}
	t.Phase = PhaseShowdown
	return winners, nil
}
