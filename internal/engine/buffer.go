// ABOUTME: Sample buffer used by the streaming playback pipeline
// ABOUTME: Fixed-capacity PCM block recycled across tracks with a generation tag
package engine

// BufferState is the lifecycle position of a sample buffer.
type BufferState int32

const (
	// Free means the buffer holds no usable audio and may be filled.
	Free BufferState = iota

	// Filling means the refill task is writing into the buffer.
	Filling

	// Filled means the buffer holds decoded audio ready to play.
	Filled

	// Playing means the render callback is consuming the buffer.
	Playing

	// Consumed means the buffer was fully played and awaits recycling.
	Consumed
)

// String returns the state name for logs.
func (s BufferState) String() string {
	switch s {
	case Free:
		return "free"
	case Filling:
		return "filling"
	case Filled:
		return "filled"
	case Playing:
		return "playing"
	case Consumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Buffer is one fixed-capacity block of interleaved 16-bit samples.
// Buffers live for the whole run and are recycled between tracks; the
// epoch tag identifies which track generation filled them, so leftover
// audio from a skipped track is recognized and discarded instead of
// played.
type Buffer struct {
	data   []int16
	length int // filled samples
	pos    int // consumed samples
	epoch  uint64
	state  BufferState
}

func newBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]int16, capacity)}
}

// remaining returns the unconsumed sample count.
func (b *Buffer) remaining() int {
	return b.length - b.pos
}

// reset returns the buffer to Free with no content.
func (b *Buffer) reset() {
	b.length = 0
	b.pos = 0
	b.state = Free
}
