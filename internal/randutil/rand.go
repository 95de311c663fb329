// Package randutil provides the random sources used for shuffling.
//
// Production code uses Crypto, a crypto/rand backed source. Deterministic
// sources (NewSeeded, Zero, Queued) exist so that shuffles and full game
// flows can be replayed exactly in tests.
package randutil

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source supplies uniformly distributed integers for shuffling.
// IntN returns an integer in [0, n) and panics if n <= 0, matching
// math/rand/v2 semantics.
type Source interface {
	IntN(n int) int
}

// NewSeeded returns a deterministic Source seeded from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by
// rand/v2 so that all call sites get reproducible sequences.
func NewSeeded(seed int64) Source {
	u := uint64(seed)
	return mrand.New(mrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Crypto is a Source backed by crypto/rand, suitable for production
// shuffles. The zero value is ready to use.
type Crypto struct{}

// IntN returns a cryptographically random integer in [0, n) using rejection
// sampling to avoid modulo bias.
func (Crypto) IntN(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("randutil: IntN called with n=%d", n))
	}
	max := uint64(n)
	// Largest multiple of n that fits in a uint64; values at or above it
	// are rejected so the result stays uniform.
	limit := ^uint64(0) - (^uint64(0) % max)
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic(fmt.Sprintf("randutil: crypto/rand read failed: %v", err))
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return int(v % max)
		}
	}
}

// Zero is a degenerate Source that always returns 0. Shuffling with it must
// produce the identity permutation, which makes it useful for tests.
type Zero struct{}

// IntN returns 0 for any valid n.
func (Zero) IntN(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("randutil: IntN called with n=%d", n))
	}
	return 0
}

// Queued replays a scripted sequence of values, then returns 0 once the
// script is exhausted. Intended for tests that need an exact permutation.
type Queued struct {
	values []int
}

// NewQueued creates a Queued source that returns the given values in order.
func NewQueued(values ...int) *Queued {
	return &Queued{values: values}
}

// IntN pops the next scripted value, clamped into [0, n).
func (q *Queued) IntN(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("randutil: IntN called with n=%d", n))
	}
	if len(q.values) == 0 {
		return 0
	}
	v := q.values[0]
	q.values = q.values[1:]
	if v < 0 || v >= n {
		v = v % n
	}
	return v
}
