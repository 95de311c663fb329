package table

import (
	"errors"
	"sync"
	"testing"

	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/game"
	"github.com/lox/blackjackd/internal/randutil"
)

// scriptedFactory returns a deck factory dealing the given cards first,
// padded with the rest of a canonical deck. Paired with randutil.Zero the
// shuffle at round start is the identity, so deals follow the script:
// first card to each player in join order, dealer upcard, second cards,
// then turn and dealer cards in play order.
func scriptedFactory(t *testing.T, script string) func() *deck.Deck {
	t.Helper()

	cards := deck.MustParseCards(script)
	used := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if used[c] {
			t.Fatalf("duplicate card in script: %v", c)
		}
		used[c] = true
	}

	rest := deck.New()
	for rest.Remaining() > 0 {
		c, _ := rest.Deal()
		if !used[c] {
			cards = append(cards, c)
		}
	}

	return func() *deck.Deck {
		stacked := make([]deck.Card, len(cards))
		copy(stacked, cards)
		return deck.NewStacked(stacked)
	}
}

func scriptedTable(t *testing.T, script string) *Table {
	t.Helper()
	return New("t1", randutil.Zero{}, WithDeckFactory(scriptedFactory(t, script)))
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

func mustJoin(t *testing.T, tbl *Table, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := tbl.Join(id, "player "+id); err != nil {
			t.Fatalf("Join(%s): %v", id, err)
		}
	}
}

// assertOneTurn checks the invariant that at most one seat holds the turn.
func assertOneTurn(t *testing.T, tbl *Table) {
	t.Helper()
	turns := 0
	for _, seat := range tbl.Snapshot("").Seats {
		if seat.IsTurn {
			turns++
		}
	}
	if turns > 1 {
		t.Fatalf("%d seats hold the turn simultaneously", turns)
	}
}

func seat(t *testing.T, tbl *Table, id string) SeatSnapshot {
	t.Helper()
	for _, s := range tbl.Snapshot(id).Seats {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("player %s not in snapshot", id)
	return SeatSnapshot{}
}

func TestJoinCapacityAndDuplicates(t *testing.T) {
	tbl := New("t1", randutil.Zero{})
	mustJoin(t, tbl, "p1", "p2", "p3", "p4", "p5")

	if err := tbl.Join("p6", "player six"); !errors.Is(err, ErrTableFull) {
		t.Errorf("sixth join = %v, want ErrTableFull", err)
	}
	if err := tbl.Join("p1", "again"); !errors.Is(err, ErrAlreadySeated) {
		t.Errorf("duplicate join = %v, want ErrAlreadySeated", err)
	}
}

func TestRoundStartsWhenAllReady(t *testing.T) {
	tbl := scriptedTable(t, "Th6d7s9hTd")
	mustJoin(t, tbl, "p1", "p2")

	rec := &eventRecorder{}
	tbl.Subscribe(rec)

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatalf("PlaceBet(p1): %v", err)
	}
	if snap := tbl.Snapshot("p1"); snap.State != "waiting_for_bet" {
		t.Errorf("round started before all players bet: %s", snap.State)
	}

	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatalf("PlaceBet(p2): %v", err)
	}

	snap := tbl.Snapshot("p1")
	if snap.State != "player_turn" {
		t.Fatalf("state = %s, want player_turn", snap.State)
	}
	if !seat(t, tbl, "p1").IsTurn {
		t.Error("first joiner should act first")
	}
	assertOneTurn(t, tbl)

	want := []EventType{EventTypeBetPlaced, EventTypeBetPlaced, EventTypeRoundStarted, EventTypeTurnChanged}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTurnIdentityEnforced(t *testing.T) {
	tbl := scriptedTable(t, "Th6d7s9hTd")
	mustJoin(t, tbl, "p1", "p2")
	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatal(err)
	}

	if err := tbl.Act("p2", ActionHit); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out-of-turn act = %v, want ErrNotYourTurn", err)
	}
	if err := tbl.Act("ghost", ActionHit); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown player act = %v, want ErrUnknownPlayer", err)
	}
	if err := tbl.Act("p1", Action("split")); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("bogus action = %v, want ErrUnknownAction", err)
	}
}

func TestFullRoundTwoPlayers(t *testing.T) {
	// p1: T9 (19), p2: 6T then hits 5 to 21; dealer 7 + hole T stands 17.
	tbl := scriptedTable(t, "Th6d7s9hTd5cTs")
	mustJoin(t, tbl, "p1", "p2")

	rec := &eventRecorder{}
	tbl.Subscribe(rec)

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatal(err)
	}

	if err := tbl.Act("p1", ActionStand); err != nil {
		t.Fatalf("p1 stand: %v", err)
	}
	assertOneTurn(t, tbl)
	if !seat(t, tbl, "p2").IsTurn {
		t.Fatal("turn did not pass to p2")
	}

	// Hitting to exactly 21 ends the turn; no player remains, so the
	// dealer plays out and the round resolves in the same call.
	if err := tbl.Act("p2", ActionHit); err != nil {
		t.Fatalf("p2 hit: %v", err)
	}

	snap := tbl.Snapshot("p1")
	if snap.State != "round_over" {
		t.Fatalf("state = %s, want round_over", snap.State)
	}
	if snap.DealerTotal != 17 {
		t.Errorf("dealer total = %d, want 17", snap.DealerTotal)
	}

	p1, p2 := seat(t, tbl, "p1"), seat(t, tbl, "p2")
	if p1.Outcome != "player_win" || p1.Balance != 1100 {
		t.Errorf("p1 outcome=%s balance=%d, want player_win 1100", p1.Outcome, p1.Balance)
	}
	if p2.Outcome != "player_win" || p2.Balance != 1100 {
		t.Errorf("p2 outcome=%s balance=%d, want player_win 1100", p2.Outcome, p2.Balance)
	}
	if p1.Ready || p1.Confirmed || p2.Ready || p2.Confirmed {
		t.Error("ready/confirmed flags not cleared at round end")
	}

	want := []EventType{
		EventTypeBetPlaced, EventTypeBetPlaced, EventTypeRoundStarted, EventTypeTurnChanged,
		EventTypePlayerActed, EventTypeTurnChanged,
		EventTypePlayerActed, EventTypeDealerPlayed, EventTypeRoundEnded,
	}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBlackjackSkippedInTurnOrder(t *testing.T) {
	// p1 is dealt a natural and must never be asked to act.
	tbl := scriptedTable(t, "As5h9cKh6h8d")
	mustJoin(t, tbl, "p1", "p2")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatal(err)
	}

	if !seat(t, tbl, "p2").IsTurn {
		t.Fatal("turn should skip the blackjack seat and land on p2")
	}
	if err := tbl.Act("p1", ActionHit); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("blackjack seat could act: %v", err)
	}

	if err := tbl.Act("p2", ActionStand); err != nil {
		t.Fatal(err)
	}

	// Dealer: 9 + hole 8 = 17. p1's natural pays 3:2, p2's 11 loses.
	p1, p2 := seat(t, tbl, "p1"), seat(t, tbl, "p2")
	if p1.Outcome != "player_blackjack" || p1.Balance != 1150 {
		t.Errorf("p1 outcome=%s balance=%d, want player_blackjack 1150", p1.Outcome, p1.Balance)
	}
	if p2.Outcome != "dealer_win" || p2.Balance != 900 {
		t.Errorf("p2 outcome=%s balance=%d, want dealer_win 900", p2.Outcome, p2.Balance)
	}
}

func TestBustAdvancesTurn(t *testing.T) {
	tbl := scriptedTable(t, "Th7h8s9s8h5d9d")
	mustJoin(t, tbl, "p1", "p2")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatal(err)
	}

	// p1 hits 19 into 24 and busts; the turn moves on without input.
	if err := tbl.Act("p1", ActionHit); err != nil {
		t.Fatal(err)
	}
	if !seat(t, tbl, "p1").Busted {
		t.Fatal("p1 should have busted on the hit")
	}
	if !seat(t, tbl, "p2").IsTurn {
		t.Fatal("turn did not advance past the busted player")
	}
	assertOneTurn(t, tbl)

	if err := tbl.Act("p2", ActionStand); err != nil {
		t.Fatal(err)
	}

	p1, p2 := seat(t, tbl, "p1"), seat(t, tbl, "p2")
	if p1.Outcome != "player_bust" || p1.Balance != 900 {
		t.Errorf("p1 outcome=%s balance=%d, want player_bust 900", p1.Outcome, p1.Balance)
	}
	if p2.Outcome != "dealer_win" || p2.Balance != 900 {
		t.Errorf("p2 outcome=%s balance=%d, want dealer_win 900", p2.Outcome, p2.Balance)
	}
}

func TestHitToTwentyOneEndsTurn(t *testing.T) {
	tbl := scriptedTable(t, "7hTh8c4d9sTd9c")
	mustJoin(t, tbl, "p1", "p2")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatal(err)
	}

	// p1 hits 11 into exactly 21; the seat is stood automatically and the
	// turn moves on without input.
	if err := tbl.Act("p1", ActionHit); err != nil {
		t.Fatal(err)
	}
	if seat(t, tbl, "p1").IsTurn {
		t.Fatal("p1 should be done after reaching 21")
	}
	if !seat(t, tbl, "p2").IsTurn {
		t.Fatal("turn did not advance past the 21 hand")
	}
	assertOneTurn(t, tbl)

	if err := tbl.Act("p2", ActionStand); err != nil {
		t.Fatal(err)
	}

	p1, p2 := seat(t, tbl, "p1"), seat(t, tbl, "p2")
	if p1.Outcome != "player_win" || p1.Balance != 1100 {
		t.Errorf("p1 outcome=%s balance=%d, want player_win 1100", p1.Outcome, p1.Balance)
	}
	if p2.Outcome != "player_win" || p2.Balance != 1100 {
		t.Errorf("p2 outcome=%s balance=%d, want player_win 1100", p2.Outcome, p2.Balance)
	}
}

func TestDoubleDownAtTable(t *testing.T) {
	tbl := scriptedTable(t, "5hTs6d9d7c")
	mustJoin(t, tbl, "p1")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Act("p1", ActionDouble); err != nil {
		t.Fatalf("Double: %v", err)
	}

	p1 := seat(t, tbl, "p1")
	if p1.Bet != 200 {
		t.Errorf("bet = %d, want doubled to 200", p1.Bet)
	}
	if len(p1.Cards) != 3 {
		t.Errorf("cards = %d, want exactly 3 after double", len(p1.Cards))
	}
	if p1.Outcome != "player_win" || p1.Balance != 1200 {
		t.Errorf("outcome=%s balance=%d, want player_win 1200", p1.Outcome, p1.Balance)
	}
}

func TestDoubleAfterHitRejectedAtTable(t *testing.T) {
	tbl := scriptedTable(t, "5hTs6d2d")
	mustJoin(t, tbl, "p1")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Act("p1", ActionHit); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Act("p1", ActionDouble); !errors.Is(err, game.ErrDoubleAfterAction) {
		t.Errorf("double after hit = %v, want ErrDoubleAfterAction", err)
	}
}

func TestConfirmGatesNextRound(t *testing.T) {
	tbl := scriptedTable(t, "Th9c9h8d")
	mustJoin(t, tbl, "p1")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Act("p1", ActionStand); err != nil {
		t.Fatal(err)
	}
	if snap := tbl.Snapshot("p1"); snap.State != "round_over" {
		t.Fatalf("state = %s, want round_over", snap.State)
	}

	if err := tbl.PlaceBet("p1", 100); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("unconfirmed bet = %v, want ErrNotConfirmed", err)
	}

	if err := tbl.Confirm("p1"); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatalf("confirmed bet: %v", err)
	}
	if snap := tbl.Snapshot("p1"); snap.State != "player_turn" {
		t.Errorf("second round did not start: %s", snap.State)
	}
}

func TestLeaveDuringOwnTurnAdvances(t *testing.T) {
	tbl := scriptedTable(t, "Th7h8s9s8h9d")
	mustJoin(t, tbl, "p1", "p2")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PlaceBet("p2", 100); err != nil {
		t.Fatal(err)
	}

	if err := tbl.Leave("p1"); err != nil {
		t.Fatal(err)
	}
	if !seat(t, tbl, "p2").IsTurn {
		t.Fatal("turn did not advance after the turn holder left")
	}

	if err := tbl.Act("p2", ActionStand); err != nil {
		t.Fatal(err)
	}
	if snap := tbl.Snapshot("p2"); snap.State != "round_over" {
		t.Errorf("state = %s, want round_over", snap.State)
	}
	if got := len(tbl.Snapshot("p2").Seats); got != 1 {
		t.Errorf("seats = %d, want 1", got)
	}
}

func TestLeaveUnblocksPendingDeal(t *testing.T) {
	tbl := scriptedTable(t, "5h9c6h8d")
	mustJoin(t, tbl, "p1", "p2")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if snap := tbl.Snapshot("p1"); snap.State != "waiting_for_bet" {
		t.Fatalf("round started early: %s", snap.State)
	}

	// p2 never bet; their departure leaves everyone remaining ready.
	if err := tbl.Leave("p2"); err != nil {
		t.Fatal(err)
	}
	if snap := tbl.Snapshot("p1"); snap.State != "player_turn" {
		t.Errorf("state = %s, want player_turn after blocker left", snap.State)
	}
}

func TestMidRoundJoinerSitsOut(t *testing.T) {
	tbl := scriptedTable(t, "Th9c9h8d")
	mustJoin(t, tbl, "p1")

	if err := tbl.PlaceBet("p1", 100); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p2", "late"); err != nil {
		t.Fatalf("mid-round join: %v", err)
	}

	if got := len(seat(t, tbl, "p2").Cards); got != 0 {
		t.Fatalf("late joiner was dealt %d cards", got)
	}
	if err := tbl.Act("p2", ActionHit); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("late joiner act = %v, want ErrNotYourTurn", err)
	}

	if err := tbl.Act("p1", ActionStand); err != nil {
		t.Fatal(err)
	}

	p2 := seat(t, tbl, "p2")
	if p2.Outcome != "none" || p2.Balance != game.StartingBalance {
		t.Errorf("late joiner resolved: outcome=%s balance=%d", p2.Outcome, p2.Balance)
	}
}

func TestAllPlayersResolvedOnceAgainstSharedDealer(t *testing.T) {
	// Three players all stand; dealer draws 6 T 5 for 21 and beats each.
	tbl := scriptedTable(t, "ThJd9c6sTsQh8dTc5c")
	mustJoin(t, tbl, "p1", "p2", "p3")

	rec := &eventRecorder{}
	tbl.Subscribe(rec)

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := tbl.PlaceBet(id, 100); err != nil {
			t.Fatalf("PlaceBet(%s): %v", id, err)
		}
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		assertOneTurn(t, tbl)
		if err := tbl.Act(id, ActionStand); err != nil {
			t.Fatalf("Act(%s): %v", id, err)
		}
	}

	var ended *RoundEndedEvent
	rec.mu.Lock()
	for _, e := range rec.events {
		if ev, ok := e.(RoundEndedEvent); ok {
			if ended != nil {
				t.Fatal("round ended more than once")
			}
			ended = &ev
		}
	}
	rec.mu.Unlock()

	if ended == nil {
		t.Fatal("no round ended event")
	}
	if len(ended.Results) != 3 {
		t.Fatalf("results = %d, want one per staked player", len(ended.Results))
	}

	snap := tbl.Snapshot("p1")
	if snap.DealerTotal != 21 {
		t.Fatalf("dealer total = %d, want 21", snap.DealerTotal)
	}
	for _, r := range ended.Results {
		if r.Outcome != game.OutcomeDealerWin {
			t.Errorf("%s outcome = %v, want dealer win against 21", r.PlayerID, r.Outcome)
		}
		if r.Balance != 900 {
			t.Errorf("%s balance = %d, want 900", r.PlayerID, r.Balance)
		}
	}
}

func TestBetValidationAtTable(t *testing.T) {
	tbl := scriptedTable(t, "Th9c9h8d")
	mustJoin(t, tbl, "p1")

	if err := tbl.PlaceBet("p1", 5); !errors.Is(err, game.ErrBetOutOfRange) {
		t.Errorf("bet 5 = %v, want ErrBetOutOfRange", err)
	}
	if err := tbl.PlaceBet("p1", 250); !errors.Is(err, game.ErrBetOutOfRange) {
		t.Errorf("bet 250 = %v, want ErrBetOutOfRange", err)
	}
	if err := tbl.PlaceBet("ghost", 100); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown bettor = %v, want ErrUnknownPlayer", err)
	}
	if b := seat(t, tbl, "p1").Balance; b != game.StartingBalance {
		t.Errorf("rejected bets changed balance to %d", b)
	}
}
