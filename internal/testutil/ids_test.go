package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("w")
	assert.Equal(t, "w-1", g.Generate())
	assert.Equal(t, "w-2", g.Generate())
	assert.Equal(t, "w-3", g.Generate())
}

func TestSequentialIDs_DefaultPrefix(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "e-1", g.Generate())
}
