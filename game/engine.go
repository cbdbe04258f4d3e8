package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardroom.com/tourney/logging"
	"cardroom.com/tourney/poker"
	"cardroom.com/tourney/util"
)

var engineLogger = log.With().Str("logger_name", "game::engine").Logger()

const (
	maxSeats    = 6
	minSeats    = 2
	maxEventLog = 50
)

// Options configures a new engine. Zero values fall back to defaults
// (1000 chips, 10/20 blinds, default pacing, crypto-seeded shuffles).
type Options struct {
	StartingChips int32
	SmallBlind    int32
	BigBlind      int32
	Delays        *Delays
	DisableDelays bool
	// RandSource drives the shuffle only. Bot quirks use their own
	// hash-derived sequence so they stay reproducible regardless of
	// what this source produces.
	RandSource rand.Source
}

// Engine owns the TableState exclusively. External collaborators get
// read-only snapshots and submit intents through SubmitAction and the
// phase operations; deferred bot actions and auto-advances funnel
// through the same serialized paths as external callers.
type Engine struct {
	mu    sync.Mutex
	mode  GameMode
	names []string

	startingChips int32
	smallBlind    int32
	bigBlind      int32
	delays        Delays
	disableDelays bool
	randSource    rand.Source

	table     *TableState
	scheduler *Scheduler
	events    []string
	// epoch invalidates deferred tasks scheduled against a table that
	// has since been superseded by a restart
	epoch    uint64
	fatalErr error
}

// NewEngine seats the named participants but does not deal; call
// StartTournament to begin play.
func NewEngine(names []string, mode GameMode, opts Options) (*Engine, error) {
	if len(names) < minSeats || len(names) > maxSeats {
		return nil, fmt.Errorf("need between %d and %d participants, got %d", minSeats, maxSeats, len(names))
	}

	e := &Engine{
		mode:          mode,
		names:         names,
		startingChips: opts.StartingChips,
		smallBlind:    opts.SmallBlind,
		bigBlind:      opts.BigBlind,
		delays:        DefaultDelays(),
		disableDelays: opts.DisableDelays || util.EngineEnvironment.ShouldDisableDelays(),
		randSource:    opts.RandSource,
	}
	if e.startingChips == 0 {
		e.startingChips = util.EngineEnvironment.GetStartingChips(1000)
	}
	if e.smallBlind == 0 {
		e.smallBlind = util.EngineEnvironment.GetSmallBlind(10)
	}
	if e.bigBlind == 0 {
		e.bigBlind = util.EngineEnvironment.GetBigBlind(20)
	}
	if opts.Delays != nil {
		e.delays = *opts.Delays
	} else if file := util.EngineEnvironment.GetDelayConfigFile(); file != "" {
		delays, err := ParseDelayConfig(file)
		if err != nil {
			return nil, err
		}
		e.delays = delays
	}
	e.scheduler = NewScheduler(e.runSerialized)
	return e, nil
}

func (e *Engine) runSerialized(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// StartTournament (re)builds the table and deals the first hand. Calling
// it on a running engine supersedes the old table; any pending deferred
// task fails its guard and becomes a no-op.
func (e *Engine) StartTournament() (*TableSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.fatalErr = nil
	e.events = nil
	e.table = newTableState(e.names, e.mode, e.startingChips, e.smallBlind, e.bigBlind)
	if err := e.table.startHand(e.randSource); err != nil {
		return nil, err
	}
	e.recordHandStartEvents()
	e.driveLocked()
	return snapshotTable(e.table, e.events), nil
}

// SubmitAction applies one action on behalf of the identified player.
// Rejections (wrong turn, short raise) leave the table untouched and are
// safe to retry with a corrected action.
func (e *Engine) SubmitAction(playerID uuid.UUID, action ActionType, amount int32) (*TableSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkPlayable(); err != nil {
		return nil, err
	}
	seatNo := -1
	for i, seat := range e.table.Seats {
		if seat.PlayerID == playerID {
			seatNo = i
			break
		}
	}
	if seatNo < 0 {
		return nil, UnknownPlayerError{PlayerID: playerID.String()}
	}

	if err := e.applyActionLocked(seatNo, action, amount); err != nil {
		return nil, err
	}
	e.driveLocked()
	return snapshotTable(e.table, e.events), nil
}

// AdvancePhase moves a closed betting round to the next street (or the
// showdown). Rejected while the round is still open.
func (e *Engine) AdvancePhase() (*TableSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkPlayable(); err != nil {
		return nil, err
	}
	if !e.table.Phase.IsBettingPhase() {
		return nil, UnexpectedPhaseError{Phase: e.table.Phase, Msg: "no betting round to advance"}
	}
	if !e.table.RoundClosed {
		return nil, RoundNotClosedError{Phase: e.table.Phase}
	}
	e.advanceRoundLocked()
	if e.fatalErr != nil {
		return nil, e.fatalErr
	}
	e.driveLocked()
	return snapshotTable(e.table, e.events), nil
}

// StartNextHand runs the hand boundary after a showdown: eliminations,
// dealer rotation and the next deal, or the tournament-complete
// transition when one seat holds all the chips.
func (e *Engine) StartNextHand() (*TableSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.table == nil {
		return nil, UnexpectedPhaseError{Phase: PhaseWaiting, Msg: "tournament has not started"}
	}
	if e.fatalErr != nil {
		return nil, e.fatalErr
	}
	if e.table.Phase == PhaseTournamentComplete {
		return nil, UnexpectedPhaseError{Phase: e.table.Phase, Msg: "tournament is over"}
	}
	if e.table.Phase != PhaseShowdown {
		return nil, UnexpectedPhaseError{Phase: e.table.Phase, Msg: "hand still in progress"}
	}

	eliminated, complete := e.table.finishHand()
	for _, seatNo := range eliminated {
		e.addEvent(fmt.Sprintf("%s is eliminated", e.table.Seats[seatNo].Name))
	}
	if complete {
		e.addEvent(fmt.Sprintf("%s wins the tournament", e.table.Seats[e.table.WinnerSeat].Name))
		return snapshotTable(e.table, e.events), nil
	}

	if err := e.table.startHand(e.randSource); err != nil {
		if fatal, ok := err.(FatalEngineError); ok {
			e.fatalErr = fatal
		}
		return nil, err
	}
	e.recordHandStartEvents()
	e.driveLocked()
	return snapshotTable(e.table, e.events), nil
}

// Snapshot returns the current read-only view, or nil before the
// tournament starts.
func (e *Engine) Snapshot() *TableSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.table == nil {
		return nil
	}
	return snapshotTable(e.table, e.events)
}

// SnapshotJSON is the snapshot serialized for an external display layer.
func (e *Engine) SnapshotJSON() ([]byte, error) {
	snap := e.Snapshot()
	if snap == nil {
		return nil, UnexpectedPhaseError{Phase: PhaseWaiting, Msg: "tournament has not started"}
	}
	return snap.ToJSON()
}

func (e *Engine) checkPlayable() error {
	if e.table == nil {
		return UnexpectedPhaseError{Phase: PhaseWaiting, Msg: "tournament has not started"}
	}
	if e.fatalErr != nil {
		return e.fatalErr
	}
	if e.table.Phase == PhaseTournamentComplete {
		return UnexpectedPhaseError{Phase: e.table.Phase, Msg: "tournament is over"}
	}
	return nil
}

// applyActionLocked runs one action through the betting machine, records
// the audit event and, when the action folded the hand down to a single
// seat, settles the early win on the spot. Settlement is part of action
// application, never deferred.
func (e *Engine) applyActionLocked(seatNo int, action ActionType, amount int32) error {
	t := e.table
	prevBet := t.Seats[seatNo].Bet
	if err := t.applyAction(seatNo, action, amount); err != nil {
		return err
	}
	e.recordActionEvent(seatNo, action, t.Seats[seatNo].Bet-prevBet)
	if winner, ok := t.settleIfEarlyWin(); ok {
		e.addEvent(fmt.Sprintf("%s wins %d, all other players folded",
			t.Seats[winner.SeatNo].Name, winner.Amount))
	}
	return nil
}

// driveLocked keeps the table moving through bot turns and closed
// rounds. With delays disabled everything resolves synchronously; with
// delays on, exactly one guarded single-shot task is scheduled for the
// next deferred operation.
func (e *Engine) driveLocked() {
	if e.disableDelays {
		for e.stepLocked() {
		}
		return
	}
	e.scheduleNextLocked()
}

// stepLocked performs one transition. Returns false when the engine is
// waiting on a human action or the hand is settled.
func (e *Engine) stepLocked() bool {
	t := e.table
	if t == nil || e.fatalErr != nil || !t.Phase.IsBettingPhase() {
		return false
	}
	if t.RoundClosed {
		e.advanceRoundLocked()
		return e.fatalErr == nil
	}
	if t.Seats[t.ActiveSeat].IsHuman {
		return false
	}
	e.applyBotActionLocked()
	return e.fatalErr == nil
}

// scheduleNextLocked enqueues the single deferred operation the current
// state calls for. Each task re-validates at fire time that the table is
// still in the state that justified scheduling it.
func (e *Engine) scheduleNextLocked() {
	t := e.table
	if t == nil || e.fatalErr != nil || !t.Phase.IsBettingPhase() {
		return
	}

	epoch := e.epoch
	handNum := t.HandNum
	phase := t.Phase

	if t.RoundClosed {
		guard := func() bool {
			return e.epoch == epoch && e.fatalErr == nil &&
				e.table.HandNum == handNum && e.table.Phase == phase &&
				e.table.RoundClosed && e.table.WinnerSeat == -1
		}
		e.scheduler.SingleShot("advance-round", e.delayFor(e.delays.RoundAdvance), guard, func() {
			e.advanceRoundLocked()
			e.driveLocked()
		})
		return
	}

	activeSeat := t.ActiveSeat
	if t.Seats[activeSeat].IsHuman {
		return
	}
	guard := func() bool {
		return e.epoch == epoch && e.fatalErr == nil &&
			e.table.HandNum == handNum && e.table.Phase == phase &&
			!e.table.RoundClosed && e.table.ActiveSeat == activeSeat &&
			e.table.WinnerSeat == -1
	}
	e.scheduler.SingleShot("bot-action", e.delayFor(e.delays.BotAction), guard, func() {
		e.applyBotActionLocked()
		e.driveLocked()
	})
}

// applyBotActionLocked asks the policy for the active bot's action and
// applies it through the same validated path as a human submission.
func (e *Engine) applyBotActionLocked() {
	t := e.table
	seatNo := t.ActiveSeat
	decision := Decide(snapshotTable(t, nil), seatNo)
	err := e.applyActionLocked(seatNo, decision.Action, decision.Amount)
	if err == nil {
		return
	}
	// the policy produced an action the machine rejected; fold rather
	// than stalling the table
	engineLogger.Error().
		Uint32(logging.HandNumKey, t.HandNum).
		Str(logging.PlayerNameKey, t.Seats[seatNo].Name).
		Msgf("Policy action %s rejected: %s. Folding", decision.Action, err)
	if err = e.applyActionLocked(seatNo, ActionFold, 0); err != nil {
		e.fatalErr = FatalEngineError{Msg: fmt.Sprintf("cannot fold stuck seat %d: %s", seatNo, err)}
	}
}

// advanceRoundLocked moves a closed round forward and records what the
// street brought: new community cards or the showdown result.
func (e *Engine) advanceRoundLocked() {
	t := e.table
	winners, err := t.advanceRound()
	if err != nil {
		if fatal, ok := err.(FatalEngineError); ok {
			e.fatalErr = fatal
			engineLogger.Error().Uint32(logging.HandNumKey, t.HandNum).Msgf("Hand aborted: %s", fatal.Msg)
		}
		return
	}

	switch t.Phase {
	case PhaseFlop:
		e.addEvent(fmt.Sprintf("Flop: %s", poker.CardsToString(t.Community)))
	case PhaseTurn:
		e.addEvent(fmt.Sprintf("Turn: %s", poker.CardToString(t.Community[3])))
	case PhaseRiver:
		e.addEvent(fmt.Sprintf("River: %s", poker.CardToString(t.Community[4])))
	case PhaseShowdown:
		for _, winner := range winners {
			e.addEvent(fmt.Sprintf("%s wins %d with %s %s",
				t.Seats[winner.SeatNo].Name, winner.Amount,
				winner.Rank.Category, poker.CardsToString(winner.Rank.Cards)))
		}
	}
}

func (e *Engine) recordHandStartEvents() {
	t := e.table
	e.addEvent(fmt.Sprintf("Hand #%d. %s has the button", t.HandNum, t.Seats[t.DealerSeat].Name))
	e.addEvent(fmt.Sprintf("%s posts small blind %d", t.Seats[t.SmallBlindSeat].Name, t.Seats[t.SmallBlindSeat].Bet))
	e.addEvent(fmt.Sprintf("%s posts big blind %d", t.Seats[t.BigBlindSeat].Name, t.Seats[t.BigBlindSeat].Bet))
}

// recordActionEvent writes the audit line for an applied action. delta
// is how many chips the action actually moved.
func (e *Engine) recordActionEvent(seatNo int, action ActionType, delta int32) {
	t := e.table
	name := t.Seats[seatNo].Name
	switch action {
	case ActionFold:
		e.addEvent(fmt.Sprintf("%s folds", name))
	case ActionCall:
		if delta == 0 {
			e.addEvent(fmt.Sprintf("%s checks", name))
		} else {
			e.addEvent(fmt.Sprintf("%s calls %d", name, t.Seats[seatNo].Bet))
		}
	case ActionRaise:
		e.addEvent(fmt.Sprintf("%s raises to %d", name, t.Seats[seatNo].Bet))
	case ActionAllIn:
		e.addEvent(fmt.Sprintf("%s is all-in for %d", name, t.Seats[seatNo].Bet))
	}
}

func (e *Engine) addEvent(event string) {
	engineLogger.Info().Msg(event)
	e.events = append(e.events, event)
	if len(e.events) > maxEventLog {
		e.events = e.events[len(e.events)-maxEventLog:]
	}
}

func (e *Engine) delayFor(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
