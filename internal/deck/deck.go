package deck

import (
	"errors"

	"github.com/lox/blackjackd/internal/randutil"
)

// Size is the number of cards in a standard deck.
const Size = 52

// reshuffleThreshold is the card count below which a deck should be
// reshuffled before starting a new round.
const reshuffleThreshold = 15

// ErrEmptyDeck is returned by Deal when every card has been dealt. Callers
// are expected to reshuffle between rounds so this never fires mid-round;
// if it does, a reshuffle check was missed.
var ErrEmptyDeck = errors.New("deck: no cards remaining")

// Deck is an ordered 52-card deck with a deal cursor. Cards before the
// cursor have been dealt this life of the deck; cards at or after it are
// undealt and contain no duplicates.
type Deck struct {
	cards  []Card
	cursor int
}

// New creates a standard 52-card deck in canonical order with the cursor at
// the top. Call Shuffle before dealing.
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	d.Reset()
	return d
}

// NewStacked creates a deck containing exactly the given cards, dealt in the
// given order. It exists so tests and tools can script precise deals; Reset
// restores a full canonical deck.
func NewStacked(cards []Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// Reset rebuilds the canonical 52-card ordering and rewinds the cursor.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	d.cursor = 0

	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle performs an in-place Fisher-Yates shuffle over the whole deck
// using the provided random source and rewinds the cursor. A source that
// always returns 0 yields the identity permutation.
func (d *Deck) Shuffle(src randutil.Source) {
	d.cursor = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		// Measured downward from i so a zero draw is a self-swap.
		j := i - src.IntN(i+1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal returns the card at the cursor and advances it. It returns
// ErrEmptyDeck once all cards have been dealt.
func (d *Deck) Deal() (Card, error) {
	if d.cursor >= len(d.cards) {
		return Card{}, ErrEmptyDeck
	}

	card := d.cards[d.cursor]
	d.cursor++
	return card, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.cursor
}

// NeedsReshuffle reports whether the deck is low enough that it should be
// reshuffled before the next round. Checked only at round boundaries, never
// mid-round.
func (d *Deck) NeedsReshuffle() bool {
	return d.Remaining() < reshuffleThreshold
}
