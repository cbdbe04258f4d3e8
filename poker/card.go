package poker

import (
	"fmt"
	"strings"
)

// Card packs a rank and a suit into one value.
// Rank is the card ordinal 2..14 (11=J, 12=Q, 13=K, 14=A), suit is 0..3.
// Encoding: (rank << 4) | suit.
type Card int32

const (
	Spade int32 = iota
	Heart
	Diamond
	Club
)

const (
	Jack  int32 = 11
	Queen int32 = 12
	King  int32 = 13
	Ace   int32 = 14
)

var (
	strRanks = "23456789TJQKA"

	charRankToIntRank = map[uint8]int32{}
	charSuitToIntSuit = map[uint8]int32{
		's': Spade,
		'h': Heart,
		'd': Diamond,
		'c': Club,
	}
	intSuitToCharSuit = "shdc"
)

var prettySuits = map[int32]string{
	Spade:   "♠",
	Heart:   "❤",
	Diamond: "♦",
	Club:    "♣",
}

func init() {
	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = int32(i) + 2
	}
}

// NewCard parses the two character form, e.g. "Ah", "Td", "2c".
func NewCard(s string) Card {
	rank := charRankToIntRank[s[0]]
	suit := charSuitToIntSuit[s[1]]
	return Card(rank<<4 | suit)
}

func NewCardFromRankSuit(rank int32, suit int32) Card {
	return Card(rank<<4 | suit)
}

func (c Card) Rank() int32 {
	return int32(c) >> 4
}

func (c Card) Suit() int32 {
	return int32(c) & 0xF
}

func (c Card) String() string {
	return string(strRanks[c.Rank()-2]) + string(intSuitToCharSuit[c.Suit()])
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	*c = NewCard(string(b[1:3]))
	return nil
}

func CardToString(card Card) string {
	return fmt.Sprintf("%s%s", string(strRanks[card.Rank()-2]), prettySuits[card.Suit()])
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", CardToString(c))
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
