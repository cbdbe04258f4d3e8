package game

import "fmt"

// InvalidTurnError is returned when an action arrives from a seat that
// does not own the turn.
type InvalidTurnError struct {
	SeatNo     int
	ActiveSeat int
}

func (e InvalidTurnError) Error() string {
	return fmt.Sprintf("seat %d acted out of turn. The action is on seat %d", e.SeatNo, e.ActiveSeat)
}

// InvalidRaiseError is returned when a raise does not exceed the current
// bet to match.
type InvalidRaiseError struct {
	Amount     int32
	CurrentBet int32
}

func (e InvalidRaiseError) Error() string {
	return fmt.Sprintf("invalid raise to %d. Current bet: %d", e.Amount, e.CurrentBet)
}

// RoundNotClosedError is returned for a phase advance while the betting
// round is still open.
type RoundNotClosedError struct {
	Phase GamePhase
}

func (e RoundNotClosedError) Error() string {
	return fmt.Sprintf("betting round is still open in %s", e.Phase)
}

// UnexpectedPhaseError is returned when an operation does not apply to
// the current phase.
type UnexpectedPhaseError struct {
	Phase GamePhase
	Msg   string
}

func (e UnexpectedPhaseError) Error() string {
	return fmt.Sprintf("%s (phase %s)", e.Msg, e.Phase)
}

// UnknownPlayerError is returned when the submitted identity does not
// map to any seat.
type UnknownPlayerError struct {
	PlayerID string
}

func (e UnknownPlayerError) Error() string {
	return fmt.Sprintf("player %s is not seated at this table", e.PlayerID)
}

// FatalEngineError marks an internal invariant violation (deck
// exhaustion, no next actor in an open round). The current hand is
// aborted and the engine refuses further play until restarted.
type FatalEngineError struct {
	Msg string
}

func (e FatalEngineError) Error() string {
	return fmt.Sprintf("fatal engine error: %s", e.Msg)
}
