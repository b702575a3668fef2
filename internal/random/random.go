// Package random provides the process-wide pseudo random source used by the
// commands. It is not suitable for anything security related.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrEmptyInput is the panic value of Pick when called without candidates.
// Callers must check for an empty slice first.
var ErrEmptyInput = errors.New("random: pick from empty input")

// A Source is a pseudo random source that is safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source that is deterministic with respect to seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewSeeded returns a Source seeded from crypto/rand.
func NewSeeded() (*Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Range returns a uniformly distributed integer in [min, max]. It panics if
// min > max.
func (s *Source) Range(min, max int) int {
	if min > max {
		panic(fmt.Sprintf("random: invalid range [%d, %d]", min, max))
	}

	s.mu.Lock()
	n := s.rng.Int63n(int64(max) - int64(min) + 1)
	s.mu.Unlock()

	return min + int(n)
}

// Pick returns one element of items chosen with uniform probability. It
// panics with ErrEmptyInput if items is empty.
func Pick[T any](s *Source, items []T) T {
	if len(items) == 0 {
		panic(ErrEmptyInput)
	}
	return items[s.Range(0, len(items)-1)]
}
