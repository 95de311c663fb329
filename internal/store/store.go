// Package store holds single-player rounds keyed by session id. The game
// engine is oblivious to the backing implementation; the server depends
// only on the Store interface.
package store

import (
	"sync"

	"github.com/lox/blackjackd/internal/game"
)

// Store is a session-keyed holder of single-player rounds.
type Store interface {
	// Get returns the round for the session, if any.
	Get(id string) (*game.Round, bool)
	// Save associates the round with the session, replacing any previous one.
	Save(id string, round *game.Round)
	// Remove drops the session's round.
	Remove(id string)
}

// MemoryStore is an in-process Store backed by a mutex-guarded map.
type MemoryStore struct {
	mu     sync.Mutex
	rounds map[string]*game.Round
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rounds: make(map[string]*game.Round),
	}
}

// Get returns the round for the session, if any.
func (s *MemoryStore) Get(id string) (*game.Round, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rounds[id]
	return r, ok
}

// Save associates the round with the session.
func (s *MemoryStore) Save(id string, round *game.Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[id] = round
}

// Remove drops the session's round.
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rounds, id)
}
