package game

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/rs/zerolog/log"

	"cardroom.com/tourney/logging"
	"cardroom.com/tourney/poker"
)

var policyLogger = log.With().Str("logger_name", "game::policy").Logger()

// Decision is what the policy wants to do. Amount is the raise-to total
// and only meaningful for ActionRaise.
type Decision struct {
	Action ActionType
	Amount int32
}

// Tunable policy parameters. The strength thresholds and quirk bands are
// empirical; tune them here rather than inside the decision flow.
const (
	premiumStrength  = 85.0
	strongStrength   = 70.0
	decentStrength   = 55.0
	marginalStrength = 40.0

	// quirk bands over the per-seat-per-hand roll in [0,1); disjoint,
	// checked in order
	premiumFoldBand = 0.015
	oversizeBetBand = 0.045
	bluffRaiseBand  = 0.085
	premiumLimpBand = 0.125

	// postflop strength formula weights
	categoryWeight = 15.0
	kickerWeight   = 10.0
	strengthBase   = 50.0

	aggressionDecay   = 0.5
	premiumRaiseFreq  = 0.70
	strongRaiseFreq   = 0.35
	largeBetRatio     = 0.35
	favorablePotOdds  = 0.25
	smallBetRatio     = 0.10
	oversizeBetFactor = 4
	standardRaisePots = 2 // open raise in big blinds when unopened
)

// Decide is the policy for non-human seats: a pure function from the
// acting seat and a table snapshot to an action. It never mutates state;
// the engine applies the returned action through the same validated path
// as a human submission.
func Decide(snap *TableSnapshot, seatNo int) Decision {
	seat := snap.Seats[seatNo]

	var strength float64
	if len(snap.Community) == 0 {
		strength = preflopStrength(seat.HoleCards)
	} else {
		strength = postflopStrength(seat.HoleCards, snap.Community)
	}

	callAmount := snap.CurrentBet - seat.Bet
	if callAmount > seat.Chips {
		callAmount = seat.Chips
	}

	liveBets := int32(0)
	for _, s := range snap.Seats {
		liveBets += s.Bet
	}
	potAfterCall := snap.Pot + liveBets + callAmount

	potOdds := 0.0
	if callAmount > 0 && potAfterCall > 0 {
		potOdds = float64(callAmount) / float64(potAfterCall)
	}
	betRatio := 0.0
	if seat.Chips > 0 {
		betRatio = float64(callAmount) / float64(seat.Chips)
	}

	// discourage re-raising wars: the deeper the betting already is,
	// the less eager the policy gets
	priorRaises := 0
	if snap.BigBlind > 0 && snap.CurrentBet > snap.BigBlind {
		priorRaises = int(snap.CurrentBet/snap.BigBlind) - 1
	}
	aggression := 1.0 / (1.0 + aggressionDecay*float64(priorRaises))

	quirkRoll := deterministicRoll(seat.PlayerID, snap.HandNum, "quirk")
	mixRoll := deterministicRoll(seat.PlayerID, snap.HandNum, fmt.Sprintf("mix:%d:%d", len(snap.Community), snap.CurrentBet))

	raiseTo := standardRaiseAmount(snap, potAfterCall)

	if d, ok := quirkDecision(snap, seat, strength, callAmount, quirkRoll, raiseTo); ok {
		policyLogger.Debug().
			Uint32(logging.HandNumKey, snap.HandNum).
			Str(logging.PlayerNameKey, seat.Name).
			Msgf("Quirk action %s (roll %.3f)", d.Action, quirkRoll)
		return d
	}

	switch {
	case strength >= premiumStrength:
		if mixRoll < premiumRaiseFreq*aggression {
			return Decision{Action: ActionRaise, Amount: raiseTo}
		}
		return Decision{Action: ActionCall}

	case strength >= strongStrength:
		if betRatio > largeBetRatio {
			if potOdds <= favorablePotOdds {
				return Decision{Action: ActionCall}
			}
			return Decision{Action: ActionFold}
		}
		if mixRoll < strongRaiseFreq*aggression {
			return Decision{Action: ActionRaise, Amount: raiseTo}
		}
		return Decision{Action: ActionCall}

	case strength >= marginalStrength:
		if callAmount == 0 {
			return Decision{Action: ActionCall}
		}
		if potOdds <= favorablePotOdds || betRatio <= smallBetRatio {
			return Decision{Action: ActionCall}
		}
		return Decision{Action: ActionFold}

	default:
		if callAmount == 0 {
			// nothing to match, check
			return Decision{Action: ActionCall}
		}
		return Decision{Action: ActionFold}
	}
}

// quirkDecision picks one of the rare personality behaviors when the
// deterministic roll lands in its band.
func quirkDecision(snap *TableSnapshot, seat SeatSnapshot, strength float64, callAmount int32, roll float64, raiseTo int32) (Decision, bool) {
	switch {
	case roll < premiumFoldBand:
		// the occasional inexplicable fold of a monster
		if strength >= premiumStrength && callAmount > 0 {
			return Decision{Action: ActionFold}, true
		}
	case roll < oversizeBetBand:
		if strength >= strongStrength {
			amount := snap.CurrentBet * oversizeBetFactor
			if amount <= snap.CurrentBet {
				amount = snap.BigBlind * oversizeBetFactor
			}
			return Decision{Action: ActionRaise, Amount: amount}, true
		}
	case roll < bluffRaiseBand:
		if strength < marginalStrength && isLateSeat(snap, seat.SeatNo) {
			return Decision{Action: ActionRaise, Amount: raiseTo}, true
		}
	case roll < premiumLimpBand:
		// slow-play a premium hand preflop
		if strength >= premiumStrength && len(snap.Community) == 0 && callAmount <= snap.BigBlind {
			return Decision{Action: ActionCall}, true
		}
	}
	return Decision{}, false
}

// standardRaiseAmount sizes a normal raise: roughly half the pot on top
// of the current bet, at least a big blind over it.
func standardRaiseAmount(snap *TableSnapshot, potAfterCall int32) int32 {
	amount := snap.CurrentBet + potAfterCall/2
	if min := snap.CurrentBet + snap.BigBlind; amount < min {
		amount = min
	}
	if snap.CurrentBet == 0 {
		if open := snap.BigBlind * standardRaisePots; amount < open {
			amount = open
		}
	}
	return amount
}

// isLateSeat reports whether the seat is the button or the seat right
// before it in the live ordering.
func isLateSeat(snap *TableSnapshot, seatNo int) bool {
	if seatNo == snap.DealerSeat {
		return true
	}
	// find the live seat directly before the button
	prev := -1
	cursor := snap.DealerSeat
	for i := 0; i < len(snap.Seats); i++ {
		cursor = (cursor + 1) % len(snap.Seats)
		if cursor != snap.DealerSeat && !snap.Seats[cursor].Eliminated {
			prev = cursor
		}
	}
	return seatNo == prev
}

// preflopStrength scores hole cards 0..100 from rank and suitedness.
func preflopStrength(hole []poker.Card) float64 {
	if len(hole) != 2 {
		return 0
	}
	high := hole[0].Rank()
	low := hole[1].Rank()
	if low > high {
		high, low = low, high
	}
	suited := hole[0].Suit() == hole[1].Suit()

	// pocket pairs by rank tier
	if high == low {
		switch {
		case high >= poker.King:
			return 95
		case high >= 10:
			return 85
		case high >= 7:
			return 70
		default:
			return 60
		}
	}

	suitedBonus := 0.0
	if suited {
		suitedBonus = 5
	}

	// ace and face combinations by kicker tier
	if high == poker.Ace {
		switch {
		case low >= 10:
			return 82 + suitedBonus
		case low >= 7:
			return 62 + suitedBonus
		default:
			return 50 + suitedBonus
		}
	}
	if high >= poker.Jack && low >= poker.Jack {
		return 68 + suitedBonus
	}

	// connectors by gap
	gap := high - low
	if gap <= 2 && low >= 5 {
		return 48 - float64(gap)*4 + suitedBonus*1.5
	}

	return 20 + float64(high) + suitedBonus
}

// postflopStrength derives the score from the evaluator over hole plus
// community cards: category*15 + (topKicker/14)*10 + 50.
func postflopStrength(hole []poker.Card, community []poker.Card) float64 {
	cards := make([]poker.Card, 0, 7)
	cards = append(cards, hole...)
	cards = append(cards, community...)
	rank, err := poker.Evaluate(cards)
	if err != nil {
		policyLogger.Error().Msgf("Postflop evaluation failed: %s", err)
		return 0
	}
	topKicker := int32(0)
	if len(rank.Kickers) > 0 {
		topKicker = rank.Kickers[0]
	}
	return float64(rank.Category)*categoryWeight +
		float64(topKicker)/float64(poker.Ace)*kickerWeight +
		strengthBase
}

// deterministicRoll maps (player, hand, salt) to [0,1) through FNV-1a.
// The same seat gets the same rolls for the same hand no matter what the
// shuffle generator did, which keeps bot personalities reproducible.
func deterministicRoll(playerID string, handNum uint32, salt string) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%s", playerID, handNum, salt)
	return float64(h.Sum64()) / math.MaxUint64
}
