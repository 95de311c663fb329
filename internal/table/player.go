package table

import "github.com/lox/blackjackd/internal/game"

// Player is a seated participant's state for the current round. Seat order
// in Table.players is join order and doubles as turn order.
type Player struct {
	ID      string
	Name    string
	Hand    *game.Hand
	Balance int
	Bet     int
	Outcome game.Outcome

	// HasActed is set once the player hits, gating double down.
	HasActed bool
	// TurnComplete marks a player the turn sequence must skip: stood,
	// busted, doubled or dealt a natural.
	TurnComplete bool
	// Ready is set when the player's bet for the pending round is accepted.
	Ready bool
	// ConfirmedNextRound gates betting between rounds. New joiners and
	// first-round players are auto-confirmed.
	ConfirmedNextRound bool
}

func newPlayer(id, name string) *Player {
	return &Player{
		ID:                 id,
		Name:               name,
		Hand:               game.NewHand(),
		Balance:            game.StartingBalance,
		ConfirmedNextRound: true,
	}
}

// inRound reports whether the player has a stake in the current round.
// Players who join mid-round sit out until the next deal.
func (p *Player) inRound() bool {
	return p.Bet > 0
}
