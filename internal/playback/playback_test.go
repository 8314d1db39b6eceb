// ABOUTME: Tests for playback session state
// ABOUTME: Covers volume clamping, epoch bumps and state transitions
package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession()

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, Stopped, s.State())
	assert.Equal(t, 1.0, s.Gain())
	assert.Equal(t, uint64(0), s.Epoch())
	assert.Equal(t, uint64(0), s.RenderedFrames())
}

func TestVolumeSteps(t *testing.T) {
	s := NewSession()

	got := s.VolumeDown()
	assert.InDelta(t, 1.0-VolumeStep, got, 1e-9)

	got = s.VolumeUp()
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestVolumeClampsAtOne(t *testing.T) {
	s := NewSession()

	for i := 0; i < 5; i++ {
		s.VolumeUp()
	}
	assert.Equal(t, 1.0, s.Gain())
}

func TestVolumeClampsAtZero(t *testing.T) {
	s := NewSession()

	// 16 steps reach zero exactly, extra steps stay there.
	for i := 0; i < 20; i++ {
		s.VolumeDown()
	}
	assert.Equal(t, 0.0, s.Gain())

	s.VolumeUp()
	assert.InDelta(t, VolumeStep, s.Gain(), 1e-9)
}

func TestVolumeStaysInRangeUnderMixedCommands(t *testing.T) {
	s := NewSession()

	steps := []bool{true, false, false, false, true, true, true, true, true, false}
	for _, up := range steps {
		if up {
			s.VolumeUp()
		} else {
			s.VolumeDown()
		}
		g := s.Gain()
		require.GreaterOrEqual(t, g, 0.0)
		require.LessOrEqual(t, g, 1.0)
	}
}

func TestBumpEpochResetsRendered(t *testing.T) {
	s := NewSession()

	s.AddRendered(4096)
	require.Equal(t, uint64(4096), s.RenderedFrames())

	e := s.BumpEpoch()
	assert.Equal(t, uint64(1), e)
	assert.Equal(t, uint64(0), s.RenderedFrames())
	assert.Equal(t, uint64(1), s.Epoch())
}

func TestElapsed(t *testing.T) {
	s := NewSession()

	s.AddRendered(44100)
	assert.Equal(t, time.Second, s.Elapsed(44100))

	s.AddRendered(22050)
	assert.Equal(t, 1500*time.Millisecond, s.Elapsed(44100))

	assert.Equal(t, time.Duration(0), s.Elapsed(0))
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Stopped, "stopped"},
		{Playing, "playing"},
		{Paused, "paused"},
		{Skipping, "skipping"},
		{Finished, "finished"},
		{Failed, "error"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Stopped.Terminal())
	assert.False(t, Playing.Terminal())
	assert.False(t, Paused.Terminal())
	assert.False(t, Skipping.Terminal())
	assert.True(t, Finished.Terminal())
	assert.True(t, Failed.Terminal())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "toggle_pause", TogglePause.String())
	assert.Equal(t, "volume_up", VolumeUp.String())
	assert.Equal(t, "volume_down", VolumeDown.String())
	assert.Equal(t, "exit", Exit.String())
	assert.Equal(t, "unknown", Command(99).String())
}
