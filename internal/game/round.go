package game

import (
	"fmt"

	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/randutil"
)

const (
	// StartingBalance is the bankroll a new round begins with.
	StartingBalance = 1000

	// MinBet and MaxBet bound the stake accepted by StartRound.
	MinBet = 10
	MaxBet = 200

	dealerStandScore = 17
)

// Round is a single-player blackjack round engine. It owns the deck, both
// hands and the player's bankroll, and advances through the states in
// state.go as actions are applied.
//
// Round is not safe for concurrent use; callers own serialization.
type Round struct {
	src     randutil.Source
	deck    *deck.Deck
	player  *Hand
	dealer  *Hand
	balance int
	bet     int
	state   State
	outcome Outcome
	acted   bool
}

// NewRound creates a round with a freshly shuffled deck and the starting
// balance.
func NewRound(src randutil.Source) *Round {
	d := deck.New()
	d.Shuffle(src)
	return NewRoundWithDeck(src, d)
}

// NewRoundWithDeck creates a round dealing from the given deck, which is not
// shuffled. Tests use this with deck.NewStacked to script exact deals.
func NewRoundWithDeck(src randutil.Source, d *deck.Deck) *Round {
	return &Round{
		src:     src,
		deck:    d,
		player:  NewHand(),
		dealer:  NewHand(),
		balance: StartingBalance,
		state:   StateWaitingForBet,
	}
}

// StartRound validates and debits the bet, then deals two cards each to the
// player and dealer. A natural on either side resolves the round
// immediately; otherwise play passes to the player.
func (r *Round) StartRound(bet int) error {
	if r.state != StateWaitingForBet {
		return fmt.Errorf("%w: cannot bet in state %s", ErrWrongState, r.state)
	}
	if bet < MinBet || bet > MaxBet {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBetOutOfRange, bet, MinBet, MaxBet)
	}
	if bet > r.balance {
		return fmt.Errorf("%w: bet %d exceeds balance %d", ErrInsufficientBalance, bet, r.balance)
	}

	if r.deck.NeedsReshuffle() {
		r.deck.Reset()
		r.deck.Shuffle(r.src)
	}

	r.balance -= bet
	r.bet = bet
	r.acted = false
	r.state = StateDealing

	for i := 0; i < 2; i++ {
		r.player.AddCard(r.mustDeal())
		r.dealer.AddCard(r.mustDeal())
	}

	if r.player.IsBlackjack() || r.dealer.IsBlackjack() {
		r.resolve()
		return nil
	}

	r.state = StatePlayerTurn
	return nil
}

// Hit deals one card to the player. Busting resolves the round; otherwise
// the turn continues, even on 21, until the player stands.
func (r *Round) Hit() error {
	if r.state != StatePlayerTurn {
		return fmt.Errorf("%w: cannot hit in state %s", ErrWrongState, r.state)
	}

	r.acted = true
	r.player.AddCard(r.mustDeal())

	if r.player.IsBusted() {
		r.resolve()
	}
	return nil
}

// Stand ends the player's turn. The dealer plays out and the round resolves.
func (r *Round) Stand() error {
	if r.state != StatePlayerTurn {
		return fmt.Errorf("%w: cannot stand in state %s", ErrWrongState, r.state)
	}

	r.playDealer()
	r.resolve()
	return nil
}

// Double doubles the bet, deals exactly one card to the player and ends the
// turn. It is only legal as the player's first action and requires the
// balance to cover the additional stake.
func (r *Round) Double() error {
	if r.state != StatePlayerTurn {
		return fmt.Errorf("%w: cannot double in state %s", ErrWrongState, r.state)
	}
	if r.acted {
		return ErrDoubleAfterAction
	}
	if r.bet > r.balance {
		return fmt.Errorf("%w: need %d more to double", ErrInsufficientBalance, r.bet)
	}

	r.balance -= r.bet
	r.bet *= 2
	r.player.AddCard(r.mustDeal())

	if !r.player.IsBusted() {
		r.playDealer()
	}
	r.resolve()
	return nil
}

// Restart clears both hands for a new round. A bankroll too small to cover
// the minimum bet is topped back up to the starting balance.
func (r *Round) Restart() error {
	if r.state != StateRoundOver {
		return fmt.Errorf("%w: cannot restart in state %s", ErrWrongState, r.state)
	}

	r.player.Clear()
	r.dealer.Clear()
	r.bet = 0
	r.outcome = OutcomeNone
	r.acted = false
	if r.balance < MinBet {
		r.balance = StartingBalance
	}
	r.state = StateWaitingForBet
	return nil
}

// Balance returns the player's current bankroll.
func (r *Round) Balance() int {
	return r.balance
}

// State returns the round's current state.
func (r *Round) State() State {
	return r.state
}

// Outcome returns the result of the last resolved round, or OutcomeNone.
func (r *Round) Outcome() Outcome {
	return r.outcome
}

// playDealer reveals the dealer's hand and hits until it reaches a hard 17
// or better. The dealer hits a soft 17.
func (r *Round) playDealer() {
	r.state = StateDealerTurn
	for r.dealer.Score() < dealerStandScore ||
		(r.dealer.Score() == dealerStandScore && r.dealer.IsSoft()) {
		r.dealer.AddCard(r.mustDeal())
	}
}

// resolve settles the round, crediting any payout back to the balance.
func (r *Round) resolve() {
	outcome, payout := Resolve(r.player, r.dealer, r.bet)
	r.outcome = outcome
	r.balance += payout
	r.state = StateRoundOver
}

// mustDeal deals the next card. The reshuffle in StartRound keeps at least
// 15 cards available, more than any single round can consume, so an empty
// deck here is a programming error.
func (r *Round) mustDeal() deck.Card {
	c, err := r.deck.Deal()
	if err != nil {
		panic(fmt.Sprintf("deck exhausted mid-round: %v", err))
	}
	return c
}
