package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClock_AdvancesByStep(t *testing.T) {
	start := Date(2024, time.March, 5, 10, 0)
	clock := NewStepClock(start, time.Minute)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, start.Add(2*time.Minute), clock.Peek())
	assert.Equal(t, start.Add(2*time.Minute), clock.Now())
}

func TestStepClock_FrozenNeverMoves(t *testing.T) {
	at := Date(2024, time.March, 5, 10, 0)
	clock := NewFrozenClock(at)

	for range 5 {
		assert.Equal(t, at, clock.Now())
	}
}

func TestStepClock_Set(t *testing.T) {
	clock := NewStepClock(Date(2024, time.March, 5, 10, 0), time.Second)
	later := Date(2024, time.April, 1, 8, 30)

	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestStepClock_ConcurrentCallsAreDistinct(t *testing.T) {
	start := Date(2024, time.March, 5, 10, 0)
	clock := NewStepClock(start, time.Millisecond)

	const n = 50
	var wg sync.WaitGroup
	results := make(chan time.Time, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- clock.Now()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[time.Time]bool)
	for r := range results {
		require.False(t, seen[r], "duplicate instant %v", r)
		seen[r] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, start.Add(n*time.Millisecond), clock.Peek())
}
