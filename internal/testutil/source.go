package testutil

import "sync"

// FixedSource returns predetermined draws for testing the lottery.
//
// Each call to Int64N consumes the next value, reduced modulo n so it is
// always in range. Calls records how many draws were made, which lets tests
// assert that no draw happened at all.
//
// Thread-safety: FixedSource is safe for concurrent use via internal mutex.
type FixedSource struct {
	mu     sync.Mutex
	values []int64
	idx    int
}

// NewFixedSource creates a source that yields values in order.
//
// Example:
//
//	src := NewFixedSource(0, 4)
//	src.Int64N(10) // 0
//	src.Int64N(3)  // 1
//	src.Int64N(3)  // panic: all values exhausted
func NewFixedSource(values ...int64) *FixedSource {
	return &FixedSource{values: values}
}

// Int64N returns the next predetermined value modulo n.
//
// Panics if all values have been consumed, to catch tests that draw more
// often than they expect.
func (s *FixedSource) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.values) {
		panic("FixedSource: all values exhausted")
	}
	v := s.values[s.idx]
	s.idx++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns the number of draws made so far.
func (s *FixedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}
