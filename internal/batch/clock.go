package batch

import (
	"sync/atomic"
	"time"
)

// Clock supplies wall-clock timestamps for CreatedAt.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// sequence is the logical clock that orders entries with equal CreatedAt.
type sequence struct {
	seq atomic.Int64
}

// next returns the next sequence number; the first call returns 1.
func (s *sequence) next() int64 {
	return s.seq.Add(1)
}

// advanceTo makes sure the next value is greater than n.
func (s *sequence) advanceTo(n int64) {
	if s.seq.Load() < n {
		s.seq.Store(n)
	}
}
