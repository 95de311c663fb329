package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjackd/internal/game"
	"github.com/lox/blackjackd/internal/randutil"
	"github.com/lox/blackjackd/internal/store"
	"github.com/lox/blackjackd/internal/table"
)

// ErrNoSession is returned for solo actions before any round was started.
var ErrNoSession = errors.New("no round in progress for session")

// GameService coordinates the game state behind the WebSocket layer: solo
// rounds keyed by session in a store, shared tables in a registry, and the
// broadcast fan-out for table events. The dealer reveal between table
// rounds is paced on the injected clock so clients see cards arrive one at
// a time.
type GameService struct {
	server      *Server
	store       store.Store
	registry    *table.Registry
	src         randutil.Source
	clock       quartz.Clock
	dealerDelay time.Duration
	logger      *log.Logger
}

// NewGameService creates a game service wired to the given collaborators.
// A nil server disables broadcasting, which tests use to drive the service
// directly.
func NewGameService(server *Server, st store.Store, src randutil.Source, clock quartz.Clock, dealerDelay time.Duration, logger *log.Logger) *GameService {
	gs := &GameService{
		server:      server,
		store:       st,
		src:         src,
		clock:       clock,
		dealerDelay: dealerDelay,
		logger:      logger.WithPrefix("game"),
	}
	gs.registry = table.NewRegistry(func(id string) *table.Table {
		t := table.New(id, src)
		t.Subscribe(&tableBroadcaster{service: gs, tableID: id})
		return t
	})
	return gs
}

// Registry exposes the table registry, primarily for tests.
func (gs *GameService) Registry() *table.Registry {
	return gs.registry
}

// StartRound starts a solo round for the session, creating the round on
// first use.
func (gs *GameService) StartRound(sessionID string, bet int) (game.Snapshot, error) {
	r, ok := gs.store.Get(sessionID)
	if !ok {
		r = game.NewRound(gs.src)
		gs.store.Save(sessionID, r)
		gs.logger.Info("new solo round", "session", sessionID)
	}

	if err := r.StartRound(bet); err != nil {
		return game.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// Hit applies a hit to the session's solo round.
func (gs *GameService) Hit(sessionID string) (game.Snapshot, error) {
	return gs.soloAction(sessionID, (*game.Round).Hit)
}

// Stand applies a stand to the session's solo round.
func (gs *GameService) Stand(sessionID string) (game.Snapshot, error) {
	return gs.soloAction(sessionID, (*game.Round).Stand)
}

// Double applies a double down to the session's solo round.
func (gs *GameService) Double(sessionID string) (game.Snapshot, error) {
	return gs.soloAction(sessionID, (*game.Round).Double)
}

// Restart clears the session's solo round for another bet.
func (gs *GameService) Restart(sessionID string) (game.Snapshot, error) {
	return gs.soloAction(sessionID, (*game.Round).Restart)
}

func (gs *GameService) soloAction(sessionID string, action func(*game.Round) error) (game.Snapshot, error) {
	r, ok := gs.store.Get(sessionID)
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrNoSession, sessionID)
	}
	if err := action(r); err != nil {
		return game.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// JoinTable seats the player at the table, creating the table on first use.
func (gs *GameService) JoinTable(tableID, playerID string) error {
	return gs.registry.GetOrCreate(tableID).Join(playerID, playerID)
}

// LeaveTable removes the player and drops the table once it empties.
func (gs *GameService) LeaveTable(tableID, playerID string) error {
	t, ok := gs.registry.TryGet(tableID)
	if !ok {
		return fmt.Errorf("table not found: %s", tableID)
	}

	err := t.Leave(playerID)
	if gs.registry.RemoveIfEmpty(tableID) {
		gs.logger.Info("removed empty table", "table", tableID)
	}
	return err
}

// PlaceBet submits the player's stake at the table.
func (gs *GameService) PlaceBet(tableID, playerID string, bet int) error {
	t, ok := gs.registry.TryGet(tableID)
	if !ok {
		return fmt.Errorf("table not found: %s", tableID)
	}
	return t.PlaceBet(playerID, bet)
}

// Confirm marks the player in for the table's next round.
func (gs *GameService) Confirm(tableID, playerID string) error {
	t, ok := gs.registry.TryGet(tableID)
	if !ok {
		return fmt.Errorf("table not found: %s", tableID)
	}
	return t.Confirm(playerID)
}

// Act applies a turn action at the table.
func (gs *GameService) Act(tableID, playerID, action string) error {
	t, ok := gs.registry.TryGet(tableID)
	if !ok {
		return fmt.Errorf("table not found: %s", tableID)
	}
	return t.Act(playerID, table.Action(action))
}

// TableSnapshot returns the viewer's projection of the table.
func (gs *GameService) TableSnapshot(tableID, viewerID string) (table.Snapshot, error) {
	t, ok := gs.registry.TryGet(tableID)
	if !ok {
		return table.Snapshot{}, fmt.Errorf("table not found: %s", tableID)
	}
	return t.Snapshot(viewerID), nil
}

// ListTables summarizes the live tables.
func (gs *GameService) ListTables() []TableInfo {
	var infos []TableInfo
	for _, id := range gs.registry.ActiveIDs() {
		t, ok := gs.registry.TryGet(id)
		if !ok {
			continue
		}
		snap := t.Snapshot("")
		infos = append(infos, TableInfo{
			ID:          id,
			PlayerCount: len(snap.Seats),
			MaxPlayers:  table.Capacity,
			State:       snap.State,
		})
	}
	return infos
}

// HandleDisconnect cleans up after a dropped connection: the table seat is
// vacated, which doubles as an implicit stand mid-turn, and the solo round
// is discarded.
func (gs *GameService) HandleDisconnect(playerID, tableID string) {
	if tableID != "" {
		if err := gs.LeaveTable(tableID, playerID); err != nil {
			gs.logger.Debug("disconnect cleanup", "player", playerID, "table", tableID, "error", err)
		}
	}
	gs.store.Remove(playerID)
}

// tableBroadcaster forwards table events to the connected clients as state
// pushes. It runs on the goroutine whose table action produced the event.
type tableBroadcaster struct {
	service *GameService
	tableID string
}

// OnEvent implements table.Subscriber.
func (b *tableBroadcaster) OnEvent(e table.Event) {
	gs := b.service
	if gs.server == nil {
		return
	}

	if ev, ok := e.(table.DealerPlayedEvent); ok {
		b.revealDealerCards(ev)
	}
	b.broadcastState()
}

// revealDealerCards pushes the dealer's hole card and hits one at a time,
// waiting dealerDelay between cards on the service clock.
func (b *tableBroadcaster) revealDealerCards(ev table.DealerPlayedEvent) {
	gs := b.service

	h := game.NewHand()
	t, ok := gs.registry.TryGet(b.tableID)
	if ok {
		// The upcard seeds the running total shown with each reveal.
		if cards := t.Snapshot("").DealerCards; len(cards) > len(ev.Cards) {
			h.AddCard(cards[0])
		}
	}

	for i, c := range ev.Cards {
		if i > 0 && gs.dealerDelay > 0 {
			fired := make(chan struct{})
			timer := gs.clock.AfterFunc(gs.dealerDelay, func() { close(fired) })
			<-fired
			timer.Stop()
		}

		h.AddCard(c)
		msg, err := NewMessage(MessageTypeDealerCard, DealerCardData{
			TableID: b.tableID,
			Card:    c,
			Total:   h.Score(),
			Final:   i == len(ev.Cards)-1,
		})
		if err != nil {
			gs.logger.Error("failed to encode dealer card", "error", err)
			return
		}
		gs.server.BroadcastToTable(b.tableID, msg)
	}
}

// broadcastState sends each connected player at the table their own view.
func (b *tableBroadcaster) broadcastState() {
	gs := b.service

	t, ok := gs.registry.TryGet(b.tableID)
	if !ok {
		return
	}

	for _, playerID := range gs.server.GetTablePlayers(b.tableID) {
		msg, err := NewMessage(MessageTypeTableState, TableStateData{Snapshot: t.Snapshot(playerID)})
		if err != nil {
			gs.logger.Error("failed to encode table state", "error", err)
			return
		}
		if err := gs.server.SendToPlayer(playerID, msg); err != nil {
			gs.logger.Debug("table state push failed", "player", playerID, "error", err)
		}
	}
}
