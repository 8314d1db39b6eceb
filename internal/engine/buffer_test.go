// ABOUTME: Tests for the sample buffer lifecycle
// ABOUTME: Covers state naming and reset behavior
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferStateString(t *testing.T) {
	tests := []struct {
		state BufferState
		want  string
	}{
		{Free, "free"},
		{Filling, "filling"},
		{Filled, "filled"},
		{Playing, "playing"},
		{Consumed, "consumed"},
		{BufferState(9), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestBufferReset(t *testing.T) {
	b := newBuffer(8)
	b.length = 8
	b.pos = 3
	b.state = Playing

	assert.Equal(t, 5, b.remaining())

	b.reset()
	assert.Equal(t, 0, b.length)
	assert.Equal(t, 0, b.pos)
	assert.Equal(t, Free, b.state)
	assert.Equal(t, 0, b.remaining())
}
