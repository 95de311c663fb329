package game

import "github.com/lox/blackjackd/internal/deck"

// Snapshot is an immutable view of a round suitable for rendering or
// serializing to a client. While the dealer's hole card is hidden the
// dealer fields describe only the upcard.
type Snapshot struct {
	PlayerCards          []deck.Card `json:"playerCards"`
	DealerCards          []deck.Card `json:"dealerCards"`
	DealerHoleCardHidden bool        `json:"dealerHoleCardHidden"`
	PlayerTotal          int         `json:"playerTotal"`
	DealerTotal          int         `json:"dealerTotal"`
	CanHit               bool        `json:"canHit"`
	CanStand             bool        `json:"canStand"`
	CanDouble            bool        `json:"canDouble"`
	CanRestart           bool        `json:"canRestart"`
	Balance              int         `json:"balance"`
	Bet                  int         `json:"bet"`
	State                string      `json:"state"`
	Outcome              string      `json:"outcome"`
	Message              string      `json:"message,omitempty"`
}

// Snapshot returns the round's current view. The dealer's hole card is
// redacted here rather than by callers, so the struct can be sent to a
// client as-is.
func (r *Round) Snapshot() Snapshot {
	s := Snapshot{
		PlayerCards: r.player.Cards(),
		PlayerTotal: r.player.Score(),
		Balance:     r.balance,
		Bet:         r.bet,
		State:       r.state.String(),
		Outcome:     r.outcome.String(),
	}

	switch r.state {
	case StateDealing, StatePlayerTurn:
		s.DealerHoleCardHidden = true
		if cards := r.dealer.Cards(); len(cards) > 0 {
			s.DealerCards = cards[:1]
			s.DealerTotal = cards[0].Value()
		}
	default:
		s.DealerCards = r.dealer.Cards()
		s.DealerTotal = r.dealer.Score()
	}

	if r.state == StatePlayerTurn {
		s.CanHit = true
		s.CanStand = true
		s.CanDouble = !r.acted && r.bet <= r.balance
	}
	if r.state == StateRoundOver {
		s.CanRestart = true
		s.Message = r.outcome.Message(r.bet)
	}

	return s
}
