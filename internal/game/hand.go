package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjackd/internal/deck"
)

// Hand is an ordered collection of dealt cards with blackjack scoring.
// Insertion order is kept for display; scoring ignores it.
type Hand struct {
	cards []deck.Card
}

// NewHand creates an empty hand.
func NewHand() *Hand {
	return &Hand{}
}

// AddCard appends a card to the hand.
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the cards in deal order.
func (h *Hand) Cards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Clear empties the hand for reuse between rounds.
func (h *Hand) Clear() {
	h.cards = h.cards[:0]
}

// score computes the best total and how many aces remain counted as 11.
// Every ace starts at 11; while the total busts and an ace is still high,
// one ace is demoted to 1. Demoting more than necessary can only lower the
// total without benefit, so the greedy loop is optimal.
func (h *Hand) score() (total, highAces int) {
	for _, c := range h.cards {
		total += c.Value()
		if c.IsAce() {
			highAces++
		}
	}

	for total > 21 && highAces > 0 {
		total -= 10
		highAces--
	}

	return total, highAces
}

// Score returns the best total not exceeding 21 if one exists, otherwise the
// minimal busting total.
func (h *Hand) Score() int {
	total, _ := h.score()
	return total
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totalling 21.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Score() == 21
}

// IsBusted reports whether the hand's best total exceeds 21.
func (h *Hand) IsBusted() bool {
	return h.Score() > 21
}

// IsSoft reports whether at least one ace is still counted as 11 after
// optimal demotion.
func (h *Hand) IsSoft() bool {
	_, highAces := h.score()
	return highAces > 0
}

// String returns a display form like "A♠ 6♥ (17)".
func (h *Hand) String() string {
	if len(h.cards) == 0 {
		return "(empty)"
	}

	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s (%d)", strings.Join(parts, " "), h.Score())
}
