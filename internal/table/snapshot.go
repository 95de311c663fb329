package table

import (
	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/game"
)

// SeatSnapshot is one seat's view within a table snapshot. Seats appear in
// join order, which is also turn order.
type SeatSnapshot struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Cards     []deck.Card `json:"cards"`
	Total     int         `json:"total"`
	Balance   int         `json:"balance"`
	Bet       int         `json:"bet"`
	Ready     bool        `json:"ready"`
	Confirmed bool        `json:"confirmed"`
	IsTurn    bool        `json:"isTurn"`
	Busted    bool        `json:"busted"`
	Blackjack bool        `json:"blackjack"`
	Outcome   string      `json:"outcome"`
	Message   string      `json:"message,omitempty"`
}

// Snapshot is an immutable per-viewer projection of the table, ready to
// serialize to a client.
type Snapshot struct {
	TableID     string         `json:"tableId"`
	State       string         `json:"state"`
	DealerCards []deck.Card    `json:"dealerCards"`
	DealerTotal int            `json:"dealerTotal"`
	Seats       []SeatSnapshot `json:"seats"`
	CanBet      bool           `json:"canBet"`
	CanConfirm  bool           `json:"canConfirm"`
	CanHit      bool           `json:"canHit"`
	CanStand    bool           `json:"canStand"`
	CanDouble   bool           `json:"canDouble"`
}

// Snapshot returns the table's current view for the given viewer. The
// dealer's hole card is dealt only when the dealer plays, so the dealer
// fields never leak hidden information; the Can fields describe the
// viewer's own legal moves.
func (t *Table) Snapshot(viewerID string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		TableID:     t.id,
		State:       t.state.String(),
		DealerCards: t.dealer.Cards(),
		Seats:       make([]SeatSnapshot, 0, len(t.players)),
	}
	if t.dealer.Len() > 0 {
		if t.state == game.StatePlayerTurn {
			s.DealerTotal = t.dealer.Cards()[0].Value()
		} else {
			s.DealerTotal = t.dealer.Score()
		}
	}

	for i, p := range t.players {
		seat := SeatSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Cards:     p.Hand.Cards(),
			Total:     p.Hand.Score(),
			Balance:   p.Balance,
			Bet:       p.Bet,
			Ready:     p.Ready,
			Confirmed: p.ConfirmedNextRound,
			IsTurn:    t.state == game.StatePlayerTurn && i == t.turnIndex,
			Busted:    p.Hand.IsBusted(),
			Blackjack: p.Hand.IsBlackjack(),
			Outcome:   p.Outcome.String(),
		}
		if t.state == game.StateRoundOver && p.Outcome != game.OutcomeNone {
			seat.Message = p.Outcome.Message(p.Bet)
		}
		s.Seats = append(s.Seats, seat)

		if p.ID != viewerID {
			continue
		}
		if !t.roundInProgressLocked() {
			s.CanConfirm = !p.ConfirmedNextRound
			s.CanBet = p.ConfirmedNextRound && !p.Ready
		}
		if seat.IsTurn {
			s.CanHit = true
			s.CanStand = true
			s.CanDouble = !p.HasActed && p.Bet <= p.Balance
		}
	}

	return s
}
