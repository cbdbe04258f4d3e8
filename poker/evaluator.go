package poker

import (
	"sort"

	"github.com/pkg/errors"
)

// HandCategory is the strength class of a five card hand, weakest first.
type HandCategory int32

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryToString = map[HandCategory]string{
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (hc HandCategory) String() string {
	return categoryToString[hc]
}

// HandRank is the evaluator output for one hand: the category, the
// tie-break kicker sequence (defining group values first, remaining card
// values descending) and the best five cards that produced it.
type HandRank struct {
	Category HandCategory
	Kickers  []int32
	Cards    []Card
}

// Compare orders two hand ranks. Negative when h1 is the stronger hand,
// positive when h2 is, zero on a full tie. Category decides first, then
// the kicker sequences element by element with missing entries as 0.
func Compare(h1, h2 HandRank) int {
	if h1.Category != h2.Category {
		if h1.Category > h2.Category {
			return -1
		}
		return 1
	}
	n := len(h1.Kickers)
	if len(h2.Kickers) > n {
		n = len(h2.Kickers)
	}
	for i := 0; i < n; i++ {
		var k1, k2 int32
		if i < len(h1.Kickers) {
			k1 = h1.Kickers[i]
		}
		if i < len(h2.Kickers) {
			k2 = h2.Kickers[i]
		}
		if k1 != k2 {
			if k1 > k2 {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Evaluate returns the best five card hand achievable from 5 to 7 cards.
// Every five card subset is ranked (21 subsets for seven cards) and the
// strongest by Compare is kept.
func Evaluate(cards []Card) (HandRank, error) {
	switch len(cards) {
	case 5:
		return rankFive(cards), nil
	case 6:
		return evaluateSix(cards), nil
	case 7:
		return evaluateSeven(cards), nil
	default:
		return HandRank{}, errors.Errorf("evaluator supports 5, 6 or 7 cards, got %d", len(cards))
	}
}

func evaluateSix(cards []Card) HandRank {
	var best HandRank
	subset := make([]Card, 0, 5)
	for skip := 0; skip < len(cards); skip++ {
		subset = subset[:0]
		for i, c := range cards {
			if i != skip {
				subset = append(subset, c)
			}
		}
		candidate := rankFive(subset)
		if best.Cards == nil || Compare(candidate, best) < 0 {
			best = candidate
		}
	}
	return best
}

func evaluateSeven(cards []Card) HandRank {
	var best HandRank
	subset := make([]Card, 0, 5)
	for skip1 := 0; skip1 < len(cards)-1; skip1++ {
		for skip2 := skip1 + 1; skip2 < len(cards); skip2++ {
			subset = subset[:0]
			for i, c := range cards {
				if i != skip1 && i != skip2 {
					subset = append(subset, c)
				}
			}
			candidate := rankFive(subset)
			if best.Cards == nil || Compare(candidate, best) < 0 {
				best = candidate
			}
		}
	}
	return best
}

// rankFive classifies exactly five cards.
func rankFive(five []Card) HandRank {
	values := make([]int32, 5)
	flush := true
	for i, c := range five {
		values[i] = c.Rank()
		if c.Suit() != five[0].Suit() {
			flush = false
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	straightHigh := straightHighCard(values)

	counts := make(map[int32]int)
	for _, v := range values {
		counts[v]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, rankGroup{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	cards := make([]Card, 5)
	copy(cards, five)

	rank := HandRank{Cards: cards}
	switch {
	case flush && straightHigh == Ace:
		rank.Category = RoyalFlush
		rank.Kickers = []int32{straightHigh}
	case flush && straightHigh > 0:
		rank.Category = StraightFlush
		rank.Kickers = []int32{straightHigh}
	case groups[0].count == 4:
		rank.Category = FourOfAKind
		rank.Kickers = []int32{groups[0].value, groups[1].value}
	case groups[0].count == 3 && groups[1].count == 2:
		rank.Category = FullHouse
		rank.Kickers = []int32{groups[0].value, groups[1].value}
	case flush:
		rank.Category = Flush
		rank.Kickers = values
	case straightHigh > 0:
		rank.Category = Straight
		rank.Kickers = []int32{straightHigh}
	case groups[0].count == 3:
		rank.Category = ThreeOfAKind
		rank.Kickers = []int32{groups[0].value, groups[1].value, groups[2].value}
	case groups[0].count == 2 && groups[1].count == 2:
		rank.Category = TwoPair
		rank.Kickers = []int32{groups[0].value, groups[1].value, groups[2].value}
	case groups[0].count == 2:
		rank.Category = OnePair
		rank.Kickers = []int32{groups[0].value, groups[1].value, groups[2].value, groups[3].value}
	default:
		rank.Category = HighCard
		rank.Kickers = values
	}
	return rank
}

type rankGroup struct {
	value int32
	count int
}

// straightHighCard returns the high card of a straight formed by the
// descending sorted values, or 0. The wheel A-2-3-4-5 counts as a
// straight with high card 5.
func straightHighCard(sorted []int32) int32 {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return 0
		}
	}
	if sorted[0]-sorted[4] == 4 {
		return sorted[0]
	}
	if sorted[0] == Ace && sorted[1] == 5 && sorted[4] == 2 {
		return 5
	}
	return 0
}
