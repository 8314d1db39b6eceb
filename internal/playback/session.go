// ABOUTME: Shared playback session state
// ABOUTME: Single-writer atomic cells read lock-free by the render callback
package playback

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// VolumeStep is the gain change per volume command.
const VolumeStep = 1.0 / 16

// Session is the state shared between the moderator goroutine and the
// device's render callback. The moderator is the only writer; the
// render callback reads through atomics and never takes a lock.
type Session struct {
	id string

	state     atomic.Int32
	gainBits  atomic.Uint64
	epoch     atomic.Uint64
	rendered  atomic.Uint64
	underruns atomic.Uint64
	levelBits atomic.Uint64
}

// NewSession creates a session in the Stopped state with full volume.
func NewSession() *Session {
	s := &Session{
		id: uuid.New().String(),
	}
	s.gainBits.Store(math.Float64bits(1.0))
	return s
}

// ID returns the unique id of this run.
func (s *Session) ID() string {
	return s.id
}

// State returns the current transport state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// SetState replaces the transport state.
func (s *Session) SetState(st State) {
	s.state.Store(int32(st))
}

// Gain returns the current gain scalar in [0, 1].
func (s *Session) Gain() float64 {
	return math.Float64frombits(s.gainBits.Load())
}

// VolumeUp raises the gain one step, clamped at 1.
func (s *Session) VolumeUp() float64 {
	return s.setGain(s.Gain() + VolumeStep)
}

// VolumeDown lowers the gain one step, clamped at 0.
func (s *Session) VolumeDown() float64 {
	return s.setGain(s.Gain() - VolumeStep)
}

func (s *Session) setGain(g float64) float64 {
	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	s.gainBits.Store(math.Float64bits(g))
	return g
}

// Epoch returns the current track generation.
func (s *Session) Epoch() uint64 {
	return s.epoch.Load()
}

// BumpEpoch starts a new track generation. Buffers tagged with an
// older generation are discarded by the render path. The rendered
// frame counter restarts for the new track.
func (s *Session) BumpEpoch() uint64 {
	s.rendered.Store(0)
	return s.epoch.Add(1)
}

// AddRendered accounts frames handed to the device for the current
// track. Called from the render callback.
func (s *Session) AddRendered(frames int) {
	s.rendered.Add(uint64(frames))
}

// RenderedFrames returns the frames rendered for the current track.
func (s *Session) RenderedFrames() uint64 {
	return s.rendered.Load()
}

// Elapsed converts the rendered frame count to playback time.
func (s *Session) Elapsed(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(s.rendered.Load()) * time.Second / time.Duration(sampleRate)
}

// NoteUnderrun counts a render period that had to emit silence.
func (s *Session) NoteUnderrun() {
	s.underruns.Add(1)
}

// Underruns returns the total underrun count for the run.
func (s *Session) Underruns() uint64 {
	return s.underruns.Load()
}

// SetLevel publishes the current output level in [0, 1] for the meter.
// Called from the render callback.
func (s *Session) SetLevel(level float64) {
	s.levelBits.Store(math.Float64bits(level))
}

// Level returns the last published output level.
func (s *Session) Level() float64 {
	return math.Float64frombits(s.levelBits.Load())
}
