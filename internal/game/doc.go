// Package game implements the core blackjack game logic.
//
// The main type is Round, which manages a single-player round against the
// dealer: bet validation, dealing, hit/stand/double, dealer play and payout.
//
// # Basic Usage
//
// Create a round and play it:
//
//	r := game.NewRound(randutil.Crypto{})
//	_ = r.StartRound(50)
//	_ = r.Hit()
//	_ = r.Stand()
//	snap := r.Snapshot()
//
// # Deterministic Testing
//
// For deterministic testing, inject a seeded source or a pre-stacked deck:
//
//	r := game.NewRoundWithDeck(randutil.NewSeeded(42), deck.NewStacked(cards))
//
// # Architecture
//
// Round delegates to smaller pieces shared with the multiplayer table:
//   - Hand: scoring with ace adjustment, blackjack/bust/soft detection
//   - Resolve: pure outcome/payout calculation against a dealer hand
//   - deck.Deck: cursor-based dealing with injected randomness
//
// The package performs no I/O and holds no locks; callers own serialization.
package game
