package game

import (
	"testing"

	"github.com/lox/blackjackd/internal/deck"
)

func handOf(t *testing.T, cards string) *Hand {
	t.Helper()
	h := NewHand()
	for _, c := range deck.MustParseCards(cards) {
		h.AddCard(c)
	}
	return h
}

func TestHandScoring(t *testing.T) {
	tests := []struct {
		cards string
		score int
		soft  bool
	}{
		{"As6h", 17, true},
		{"As6h5d", 12, false},
		{"AsAh", 12, true},
		{"AsAhAdAc", 14, true},
		{"AsAhAd8c", 21, true},
		{"ThKs", 20, false},
		{"Th5s7d", 22, false},
		{"9h8d", 17, false},
		{"Ah4s5c", 20, true},
		{"KhQd3s", 23, false},
	}

	for _, tt := range tests {
		h := handOf(t, tt.cards)
		if got := h.Score(); got != tt.score {
			t.Errorf("Score(%s) = %d, want %d", tt.cards, got, tt.score)
		}
		if got := h.IsSoft(); got != tt.soft {
			t.Errorf("IsSoft(%s) = %v, want %v", tt.cards, got, tt.soft)
		}
	}
}

func TestIsBlackjack(t *testing.T) {
	tests := []struct {
		cards string
		want  bool
	}{
		{"AsKh", true},
		{"ThAd", true},
		{"As9h", false},
		{"7h7d7c", false}, // 21 but three cards
		{"ThKs", false},
	}

	for _, tt := range tests {
		if got := handOf(t, tt.cards).IsBlackjack(); got != tt.want {
			t.Errorf("IsBlackjack(%s) = %v, want %v", tt.cards, got, tt.want)
		}
	}
}

func TestIsBusted(t *testing.T) {
	if handOf(t, "ThKs2d").Score() != 22 {
		t.Fatal("sanity check failed")
	}
	if !handOf(t, "ThKs2d").IsBusted() {
		t.Error("22 should be busted")
	}
	if handOf(t, "ThKsAd").IsBusted() {
		t.Error("T K A is 21, not busted")
	}
	if handOf(t, "AsAhAdAc").IsBusted() {
		t.Error("four aces is 14, not busted")
	}
}

func TestHandClear(t *testing.T) {
	h := handOf(t, "AsKh")
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("expected empty hand after clear, got %d cards", h.Len())
	}
	if h.Score() != 0 {
		t.Errorf("expected score 0 after clear, got %d", h.Score())
	}
}

func TestHandString(t *testing.T) {
	if got := handOf(t, "As6h").String(); got != "A♠ 6♥ (17)" {
		t.Errorf("String() = %q, want %q", got, "A♠ 6♥ (17)")
	}
	if got := NewHand().String(); got != "(empty)" {
		t.Errorf("String() on empty hand = %q", got)
	}
}

func TestCardsReturnsCopy(t *testing.T) {
	h := handOf(t, "As6h")
	cards := h.Cards()
	cards[0] = deck.NewCard(deck.Clubs, deck.Two)

	if h.Cards()[0] != deck.NewCard(deck.Spades, deck.Ace) {
		t.Error("mutating the returned slice should not affect the hand")
	}
}
