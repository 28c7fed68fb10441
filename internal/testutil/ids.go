package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates ids of the form prefix-1, prefix-2, ...
//
// It never runs out, so tests can add any number of entries and still get
// readable, stable ids.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "e".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "e"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
