package game

import (
	jsoniter "github.com/json-iterator/go"

	"cardroom.com/tourney/poker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SeatSnapshot is a read-only copy of one seat.
type SeatSnapshot struct {
	PlayerID   string       `json:"playerId"`
	Name       string       `json:"name"`
	SeatNo     int          `json:"seatNo"`
	IsHuman    bool         `json:"isHuman"`
	Chips      int32        `json:"chips"`
	HoleCards  []poker.Card `json:"holeCards,omitempty"`
	Bet        int32        `json:"bet"`
	Folded     bool         `json:"folded"`
	AllIn      bool         `json:"allIn"`
	Acted      bool         `json:"acted"`
	Eliminated bool         `json:"eliminated"`
}

// TableSnapshot is the read-only view handed to the presentation layer
// and to the decision policy. Mutating it has no effect on the engine.
// Events is a bounded, human-readable audit trail, not authoritative
// state.
type TableSnapshot struct {
	Seats          []SeatSnapshot `json:"seats"`
	Community      []poker.Card   `json:"community"`
	Pot            int32          `json:"pot"`
	CurrentBet     int32          `json:"currentBet"`
	Phase          GamePhase      `json:"phase"`
	PhaseName      string         `json:"phaseName"`
	ActiveSeat     int            `json:"activeSeat"`
	DealerSeat     int            `json:"dealerSeat"`
	SmallBlindSeat int            `json:"smallBlindSeat"`
	BigBlindSeat   int            `json:"bigBlindSeat"`
	SmallBlind     int32          `json:"smallBlind"`
	BigBlind       int32          `json:"bigBlind"`
	RoundClosed    bool           `json:"roundClosed"`
	HandNum        uint32         `json:"handNum"`
	WinnerSeat     int            `json:"winnerSeat"`
	Events         []string       `json:"events"`
}

func snapshotTable(t *TableState, events []string) *TableSnapshot {
	seats := make([]SeatSnapshot, len(t.Seats))
	for i, seat := range t.Seats {
		holeCards := make([]poker.Card, len(seat.HoleCards))
		copy(holeCards, seat.HoleCards)
		seats[i] = SeatSnapshot{
			PlayerID:   seat.PlayerID.String(),
			Name:       seat.Name,
			SeatNo:     seat.SeatNo,
			IsHuman:    seat.IsHuman,
			Chips:      seat.Chips,
			HoleCards:  holeCards,
			Bet:        seat.Bet,
			Folded:     seat.Folded,
			AllIn:      seat.AllIn,
			Acted:      seat.Acted,
			Eliminated: seat.Eliminated,
		}
	}
	community := make([]poker.Card, len(t.Community))
	copy(community, t.Community)
	eventsCopy := make([]string, len(events))
	copy(eventsCopy, events)

	return &TableSnapshot{
		Seats:          seats,
		Community:      community,
		Pot:            t.Pot,
		CurrentBet:     t.CurrentBet,
		Phase:          t.Phase,
		PhaseName:      t.Phase.String(),
		ActiveSeat:     t.ActiveSeat,
		DealerSeat:     t.DealerSeat,
		SmallBlindSeat: t.SmallBlindSeat,
		BigBlindSeat:   t.BigBlindSeat,
		SmallBlind:     t.SmallBlind,
		BigBlind:       t.BigBlind,
		RoundClosed:    t.RoundClosed,
		HandNum:        t.HandNum,
		WinnerSeat:     t.WinnerSeat,
		Events:         eventsCopy,
	}
}

// MarshalJSON via jsoniter for the whole snapshot.
func (s *TableSnapshot) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}
