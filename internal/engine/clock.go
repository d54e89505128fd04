package engine

import "sync/atomic"

// Clock is a monotonic logical clock for ordering report requests.
//
// Every request submitted to a Runner is stamped with the next value. The
// stamp, not wall time and not completion order, decides which result is
// the latest.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose first stamp is start+1. Used to keep
// numbering above results a caller has already published.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
