package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrDeckExhausted indicates a draw past the 52nd card. With at most six
// seats a hand consumes 17 cards, so hitting this is an engine defect.
var ErrDeckExhausted = errors.New("deck exhausted")

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

// Deck is a 52 card deck with a draw cursor. The cursor only moves
// forward; a new hand gets a new deck.
type Deck struct {
	cards   []Card
	cursor  int
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a freshly shuffled deck. A nil source gets a
// crypto-seeded one; tests inject a fixed source for reproducible deals.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// Shuffle resets the deck to a fresh Fisher-Yates permutation of all
// 52 cards and rewinds the cursor.
func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)

	randGen := deck.randGen
	if randGen == nil {
		randGen = rand.New(newSeed())
	}
	for i := len(deck.cards) - 1; i > 0; i-- {
		loc := randGen.Intn(i + 1)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}
	deck.cursor = 0

	return deck
}

// Draw hands out the next card and advances the cursor.
func (deck *Deck) Draw() (Card, error) {
	if deck.cursor >= len(deck.cards) {
		return 0, ErrDeckExhausted
	}
	card := deck.cards[deck.cursor]
	deck.cursor++
	return card, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards) - deck.cursor
}

func (deck *Deck) Empty() bool {
	return deck.Remaining() == 0
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards[deck.cursor:])
}

func initializeFullCards() []Card {
	var cards []Card
	for _, rank := range strRanks {
		for suit := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}
	return cards
}
