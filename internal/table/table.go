package table

import (
	"fmt"
	"sync"
	"time"

	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/game"
	"github.com/lox/blackjackd/internal/randutil"
)

// Capacity is the fixed number of seats at a table.
const Capacity = 5

// Action is a turn action a seated player can take.
type Action string

const (
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
)

// Table orchestrates a shared blackjack round for up to Capacity players
// against one dealer hand and one deck. All state is guarded by a single
// mutex; every exported operation is one atomic transition. Events produced
// by a transition are collected under the lock and delivered to subscribers
// after it is released, so subscribers may call back into the table.
type Table struct {
	mu          sync.Mutex
	id          string
	src         randutil.Source
	newDeck     func() *deck.Deck
	deck        *deck.Deck
	dealer      *game.Hand
	players     []*Player
	turnIndex   int
	state       game.State
	subscribers []Subscriber
	pending     []Event
}

// Option configures a Table.
type Option func(*Table)

// WithDeckFactory replaces the per-round deck source. Tests use this with
// deck.NewStacked to script exact deals; the deck is still run through
// Shuffle, so pair it with randutil.Zero to keep the scripted order.
func WithDeckFactory(f func() *deck.Deck) Option {
	return func(t *Table) {
		t.newDeck = f
	}
}

// New creates an empty table.
func New(id string, src randutil.Source, opts ...Option) *Table {
	t := &Table{
		id:        id,
		src:       src,
		newDeck:   deck.New,
		dealer:    game.NewHand(),
		turnIndex: -1,
		state:     game.StateWaitingForBet,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the table's identifier.
func (t *Table) ID() string {
	return t.id
}

// Subscribe registers a subscriber for table events.
func (t *Table) Subscribe(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, sub)
}

// Unsubscribe removes a previously registered subscriber.
func (t *Table) Unsubscribe(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subscribers {
		if s == sub {
			t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
			break
		}
	}
}

// Join seats a player. Joining mid-round is allowed; the player sits out
// until the next deal. New joiners are auto-confirmed so they are never
// stuck waiting on a confirmation they had no chance to give.
func (t *Table) Join(id, name string) error {
	t.mu.Lock()
	err := t.joinLocked(id, name)
	events := t.flushLocked()
	t.mu.Unlock()

	t.publish(events)
	return err
}

func (t *Table) joinLocked(id, name string) error {
	if t.playerLocked(id) != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySeated, id)
	}
	if len(t.players) >= Capacity {
		return ErrTableFull
	}

	t.players = append(t.players, newPlayer(id, name))
	t.emit(PlayerJoinedEvent{PlayerID: id, Name: name, Seats: len(t.players), timestamp: time.Now()})
	return nil
}

// Leave removes a player. If it is their turn the turn advances as if they
// stood; if their departure leaves every remaining player ready, the next
// round starts. The server also routes disconnects here.
func (t *Table) Leave(id string) error {
	t.mu.Lock()
	err := t.leaveLocked(id)
	events := t.flushLocked()
	t.mu.Unlock()

	t.publish(events)
	return err
}

func (t *Table) leaveLocked(id string) error {
	idx := -1
	for i, p := range t.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}

	wasTurn := t.state == game.StatePlayerTurn && idx == t.turnIndex
	t.players = append(t.players[:idx], t.players[idx+1:]...)
	t.emit(PlayerLeftEvent{PlayerID: id, Seats: len(t.players), timestamp: time.Now()})

	switch {
	case t.state == game.StatePlayerTurn && idx < t.turnIndex:
		t.turnIndex--
	case wasTurn:
		// Implicit stand: resume the scan from the vacated seat.
		t.turnIndex = idx - 1
		t.advanceTurnLocked()
	case !t.roundInProgressLocked() && len(t.players) > 0 && t.allReadyLocked():
		// The leaver was the only player holding up the deal.
		t.startRoundLocked()
	}
	return nil
}

// Confirm marks a player as in for the next round, allowing them to bet.
func (t *Table) Confirm(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerLocked(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	p.ConfirmedNextRound = true
	return nil
}

// PlaceBet accepts a player's stake for the pending round, marking them
// ready. Once every seated player is ready the round starts.
func (t *Table) PlaceBet(id string, bet int) error {
	t.mu.Lock()
	err := t.placeBetLocked(id, bet)
	events := t.flushLocked()
	t.mu.Unlock()

	t.publish(events)
	return err
}

func (t *Table) placeBetLocked(id string, bet int) error {
	p := t.playerLocked(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if t.roundInProgressLocked() {
		return fmt.Errorf("%w: round in progress", game.ErrWrongState)
	}
	if p.Ready {
		return fmt.Errorf("%w: bet already placed", game.ErrWrongState)
	}
	if !p.ConfirmedNextRound {
		return ErrNotConfirmed
	}
	if bet < game.MinBet || bet > game.MaxBet {
		return fmt.Errorf("%w: %d not in [%d, %d]", game.ErrBetOutOfRange, bet, game.MinBet, game.MaxBet)
	}
	if bet > p.Balance {
		return fmt.Errorf("%w: bet %d exceeds balance %d", game.ErrInsufficientBalance, bet, p.Balance)
	}

	p.Balance -= bet
	p.Bet = bet
	p.Ready = true
	t.emit(BetPlacedEvent{PlayerID: id, Bet: bet, timestamp: time.Now()})

	if t.allReadyLocked() {
		t.startRoundLocked()
	}
	return nil
}

// Act applies a turn action for the named player. The identity check and
// the mutation happen under the same lock, so two rapid actions from
// different players can never both look valid.
func (t *Table) Act(id string, action Action) error {
	t.mu.Lock()
	err := t.actLocked(id, action)
	events := t.flushLocked()
	t.mu.Unlock()

	t.publish(events)
	return err
}

func (t *Table) actLocked(id string, action Action) error {
	p := t.playerLocked(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if t.state != game.StatePlayerTurn {
		return fmt.Errorf("%w: cannot act in state %s", game.ErrWrongState, t.state)
	}
	if t.turnIndex < 0 || t.players[t.turnIndex] != p {
		return fmt.Errorf("%w: %s", ErrNotYourTurn, id)
	}

	switch action {
	case ActionHit:
		p.HasActed = true
		c := t.mustDeal()
		p.Hand.AddCard(c)
		t.emit(PlayerActedEvent{
			PlayerID:  id,
			Action:    ActionHit,
			Card:      &c,
			Total:     p.Hand.Score(),
			Busted:    p.Hand.IsBusted(),
			timestamp: time.Now(),
		})
		if p.Hand.Score() >= 21 {
			p.TurnComplete = true
			t.advanceTurnLocked()
		}

	case ActionStand:
		p.TurnComplete = true
		t.emit(PlayerActedEvent{PlayerID: id, Action: ActionStand, Total: p.Hand.Score(), timestamp: time.Now()})
		t.advanceTurnLocked()

	case ActionDouble:
		if p.HasActed {
			return game.ErrDoubleAfterAction
		}
		if p.Bet > p.Balance {
			return fmt.Errorf("%w: need %d more to double", game.ErrInsufficientBalance, p.Bet)
		}
		p.Balance -= p.Bet
		p.Bet *= 2
		c := t.mustDeal()
		p.Hand.AddCard(c)
		p.TurnComplete = true
		t.emit(PlayerActedEvent{
			PlayerID:  id,
			Action:    ActionDouble,
			Card:      &c,
			Total:     p.Hand.Score(),
			Busted:    p.Hand.IsBusted(),
			timestamp: time.Now(),
		})
		t.advanceTurnLocked()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// IsEmpty reports whether no players are seated.
func (t *Table) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players) == 0
}

func (t *Table) playerLocked(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) roundInProgressLocked() bool {
	return t.state == game.StatePlayerTurn || t.state == game.StateDealerTurn
}

func (t *Table) allReadyLocked() bool {
	for _, p := range t.players {
		if !p.Ready {
			return false
		}
	}
	return len(t.players) > 0
}

// startRoundLocked deals a fresh round: new shuffled deck, new dealer hand,
// first card to each player in join order, the dealer's upcard, then second
// cards. The dealer's hole card is deferred until the dealer plays. Players
// dealt a natural are marked done before the first turn.
func (t *Table) startRoundLocked() {
	t.deck = t.newDeck()
	t.deck.Shuffle(t.src)
	t.dealer = game.NewHand()

	ids := make([]string, len(t.players))
	for i, p := range t.players {
		ids[i] = p.ID
		p.Hand.Clear()
		p.Outcome = game.OutcomeNone
		p.HasActed = false
		p.TurnComplete = false
	}

	for _, p := range t.players {
		p.Hand.AddCard(t.mustDeal())
	}
	t.dealer.AddCard(t.mustDeal())
	for _, p := range t.players {
		p.Hand.AddCard(t.mustDeal())
	}

	for _, p := range t.players {
		if p.Hand.IsBlackjack() {
			p.TurnComplete = true
		}
	}

	t.state = game.StatePlayerTurn
	t.emit(RoundStartedEvent{DealerUpcard: t.dealer.Cards()[0], Players: ids, timestamp: time.Now()})

	t.turnIndex = -1
	t.advanceTurnLocked()
}

// advanceTurnLocked moves the turn to the next staked, unfinished player in
// join order, auto-standing anyone already holding 21. With no player left
// to act, the dealer plays out.
func (t *Table) advanceTurnLocked() {
	for i := t.turnIndex + 1; i < len(t.players); i++ {
		p := t.players[i]
		if !p.inRound() || p.TurnComplete {
			continue
		}
		if p.Hand.Score() >= 21 {
			p.TurnComplete = true
			continue
		}
		t.turnIndex = i
		t.emit(TurnChangedEvent{PlayerID: p.ID, timestamp: time.Now()})
		return
	}
	t.playDealerLocked()
}

// playDealerLocked reveals the hole card and hits to a hard 17 or better,
// then resolves the round. The sequence is synchronous; any pacing between
// cards is the transport layer's concern and works off DealerPlayedEvent.
func (t *Table) playDealerLocked() {
	t.state = game.StateDealerTurn
	t.turnIndex = -1

	var dealt []deck.Card
	hole := t.mustDeal()
	t.dealer.AddCard(hole)
	dealt = append(dealt, hole)

	for t.dealer.Score() < 17 || (t.dealer.Score() == 17 && t.dealer.IsSoft()) {
		c := t.mustDeal()
		t.dealer.AddCard(c)
		dealt = append(dealt, c)
	}

	t.emit(DealerPlayedEvent{
		Cards:     dealt,
		Total:     t.dealer.Score(),
		Busted:    t.dealer.IsBusted(),
		timestamp: time.Now(),
	})
	t.resolveLocked()
}

// resolveLocked settles every staked player against the shared dealer hand
// and clears the ready and confirmation flags, so each player must confirm
// again before the next betting phase.
func (t *Table) resolveLocked() {
	var results []PlayerResult
	for _, p := range t.players {
		if !p.inRound() {
			continue
		}
		outcome, payout := game.Resolve(p.Hand, t.dealer, p.Bet)
		p.Outcome = outcome
		p.Balance += payout
		results = append(results, PlayerResult{
			PlayerID: p.ID,
			Outcome:  outcome,
			Payout:   payout,
			Balance:  p.Balance,
		})
	}

	for _, p := range t.players {
		p.Ready = false
		p.ConfirmedNextRound = false
	}

	t.state = game.StateRoundOver
	t.emit(RoundEndedEvent{Results: results, timestamp: time.Now()})
}

// mustDeal deals the next card. The table deals from a fresh full deck each
// round, which cannot run dry with five seats, so an empty deck is a
// programming error unless a scripted deck was under-stocked.
func (t *Table) mustDeal() deck.Card {
	c, err := t.deck.Deal()
	if err != nil {
		panic(fmt.Sprintf("table %s: deck exhausted mid-round: %v", t.id, err))
	}
	return c
}

func (t *Table) emit(e Event) {
	t.pending = append(t.pending, e)
}

// flushLocked takes the pending events and a snapshot of the subscriber
// list, for delivery after the lock is released.
func (t *Table) flushLocked() []Event {
	events := t.pending
	t.pending = nil
	return events
}

func (t *Table) publish(events []Event) {
	if len(events) == 0 {
		return
	}

	t.mu.Lock()
	subs := make([]Subscriber, len(t.subscribers))
	copy(subs, t.subscribers)
	t.mu.Unlock()

	for _, e := range events {
		for _, sub := range subs {
			sub.OnEvent(e)
		}
	}
}
