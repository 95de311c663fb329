package table

import (
	"time"

	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/game"
)

// EventType represents a table event type with type safety
type EventType string

// EventType constants for table domain events
const (
	EventTypePlayerJoined EventType = "player_joined"
	EventTypePlayerLeft   EventType = "player_left"
	EventTypeBetPlaced    EventType = "bet_placed"
	EventTypeRoundStarted EventType = "round_started"
	EventTypeTurnChanged  EventType = "turn_changed"
	EventTypePlayerActed  EventType = "player_acted"
	EventTypeDealerPlayed EventType = "dealer_played"
	EventTypeRoundEnded   EventType = "round_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event represents any event that occurs at a table
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// Subscriber receives table events. Delivery happens outside the table
// lock, on the goroutine whose action produced the event.
type Subscriber interface {
	OnEvent(event Event)
}

// PlayerJoinedEvent is published when a player takes a seat
type PlayerJoinedEvent struct {
	PlayerID  string
	Name      string
	Seats     int
	timestamp time.Time
}

func (e PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }
func (e PlayerJoinedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerLeftEvent is published when a player leaves or disconnects
type PlayerLeftEvent struct {
	PlayerID  string
	Seats     int
	timestamp time.Time
}

func (e PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }
func (e PlayerLeftEvent) Timestamp() time.Time { return e.timestamp }

// BetPlacedEvent is published when a player's bet is accepted
type BetPlacedEvent struct {
	PlayerID  string
	Bet       int
	timestamp time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// RoundStartedEvent is published after the initial deal completes
type RoundStartedEvent struct {
	DealerUpcard deck.Card
	Players      []string
	timestamp    time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// TurnChangedEvent is published when the turn passes to a new player
type TurnChangedEvent struct {
	PlayerID  string
	timestamp time.Time
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }
func (e TurnChangedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActedEvent is published when a turn action is applied
type PlayerActedEvent struct {
	PlayerID  string
	Action    Action
	Card      *deck.Card // dealt card for hit/double, nil for stand
	Total     int
	Busted    bool
	timestamp time.Time
}

func (e PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }
func (e PlayerActedEvent) Timestamp() time.Time { return e.timestamp }

// DealerPlayedEvent is published once the dealer's hand is complete. Cards
// holds the hole card and every hit in deal order so the transport layer
// can pace their reveal.
type DealerPlayedEvent struct {
	Cards     []deck.Card
	Total     int
	Busted    bool
	timestamp time.Time
}

func (e DealerPlayedEvent) EventType() EventType { return EventTypeDealerPlayed }
func (e DealerPlayedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerResult is one player's settlement in a RoundEndedEvent
type PlayerResult struct {
	PlayerID string
	Outcome  game.Outcome
	Payout   int
	Balance  int
}

// RoundEndedEvent is published after every staked player is resolved
// against the final dealer hand
type RoundEndedEvent struct {
	Results   []PlayerResult
	timestamp time.Time
}

func (e RoundEndedEvent) EventType() EventType { return EventTypeRoundEnded }
func (e RoundEndedEvent) Timestamp() time.Time { return e.timestamp }
