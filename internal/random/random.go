package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// Source draws uniform integers in [0, n).
type Source interface {
	IntN(n int) (int, error)
}

// CryptoSource reads from crypto/rand so callers cannot predict or steer a draw.
type CryptoSource struct{}

func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

func (CryptoSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid range %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random value: %w", err)
	}
	return int(v.Int64()), nil
}

// SeededSource is a reproducible PCG source for tests and simulations.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid range %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n), nil
}

// SequenceSource replays fixed values, each reduced modulo n.
// The sequence wraps around when exhausted.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid range %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0, nil
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return ((v % n) + n) % n, nil
}
