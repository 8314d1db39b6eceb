// ABOUTME: Streaming buffer-queue playback engine
// ABOUTME: Recycles a fixed pool of sample buffers between a refill task and the render callback
package engine

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/jfgreen/afqueue/internal/playback"
	"github.com/jfgreen/afqueue/pkg/audio"
	"github.com/jfgreen/afqueue/pkg/audio/decode"
)

const (
	// DefaultBufferCount is the size of the recycled buffer pool.
	DefaultBufferCount = 3

	// DefaultBufferDuration is the audio span of one buffer.
	DefaultBufferDuration = 500 * time.Millisecond
)

// EventKind discriminates engine events.
type EventKind int

const (
	// TrackDone means the current track's audio has been fully rendered.
	TrackDone EventKind = iota

	// DecodeFailed means the refill task hit a mid-track decode error.
	DecodeFailed
)

// Event is an asynchronous notification from the engine to the player.
type Event struct {
	Kind  EventKind
	Epoch uint64
	Err   error
}

// Engine owns the buffer pipeline for one playback run. A background
// refill task decodes audio into free buffers; the device's render
// callback consumes filled buffers in FIFO order. Both sides only meet
// through the two channels and the session's atomic cells, so the
// render path never blocks on a lock.
type Engine struct {
	session *playback.Session

	free   chan *Buffer
	filled chan *Buffer
	events chan Event

	bufCount int
	bufDur   time.Duration
	channels atomic.Int32

	// Render-thread private: the buffer currently being consumed.
	current *Buffer

	// Epoch+1 values; zero means "not for any epoch".
	drainedEpoch atomic.Uint64
	doneEpoch    atomic.Uint64

	quit chan struct{}
	wg   sync.WaitGroup
}

// New creates an engine with count buffers of dur audio each. Zero
// values select the defaults.
func New(session *playback.Session, count int, dur time.Duration) *Engine {
	if count < 2 {
		count = DefaultBufferCount
	}
	if dur <= 0 {
		dur = DefaultBufferDuration
	}

	e := &Engine{
		session:  session,
		free:     make(chan *Buffer, count),
		filled:   make(chan *Buffer, count),
		events:   make(chan Event, 16),
		bufCount: count,
		bufDur:   dur,
		quit:     make(chan struct{}),
	}
	for i := 0; i < count; i++ {
		e.free <- newBuffer(0)
	}
	return e
}

// Events delivers track-done and decode-failure notifications.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Load starts streaming dec. Any audio still queued from the previous
// track is flushed first. The engine takes ownership of dec and closes
// it when the track ends, fails, or is abandoned.
//
// Buffers are primed synchronously before Load returns, so playback
// can start without an initial underrun.
func (e *Engine) Load(dec decode.Decoder) error {
	format := dec.Format()
	if !format.Valid() {
		dec.Close()
		return errors.Newf("decoder reports unusable format: %+v", format)
	}

	e.Flush()
	epoch := e.session.Epoch()
	e.channels.Store(int32(format.Channels))

	capacity := format.DurationToFrames(e.bufDur) * format.Channels

	// Prime whatever free buffers are on hand before the device starts
	// pulling. A buffer still held by the render thread joins the pool
	// on its next callback.
	drained := false
	for i := 0; i < e.bufCount; i++ {
		var buf *Buffer
		select {
		case buf = <-e.free:
		default:
		}
		if buf == nil {
			break
		}
		eof, err := e.fill(dec, buf, epoch, capacity)
		if err != nil {
			dec.Close()
			return errors.Wrap(err, "prime buffers")
		}
		if eof {
			drained = true
			break
		}
	}

	if drained {
		e.markDrained(epoch)
		dec.Close()
		return nil
	}

	e.wg.Add(1)
	go e.refill(dec, epoch, capacity)
	return nil
}

// Flush abandons all queued audio. The epoch bump makes any buffer the
// refill task or render thread still holds recognizably stale.
func (e *Engine) Flush() {
	e.session.BumpEpoch()
	for {
		select {
		case buf := <-e.filled:
			buf.reset()
			e.free <- buf
		default:
			return
		}
	}
}

// Close shuts the refill task down and waits for it.
func (e *Engine) Close() {
	close(e.quit)
	e.wg.Wait()
}

// refill keeps the filled queue topped up for one track generation. It
// abandons the fill at its next checkpoint once the epoch moves on.
func (e *Engine) refill(dec decode.Decoder, epoch uint64, capacity int) {
	defer e.wg.Done()
	defer dec.Close()

	for {
		select {
		case <-e.quit:
			return
		case buf := <-e.free:
			if e.session.Epoch() != epoch {
				buf.reset()
				e.free <- buf
				return
			}
			eof, err := e.fill(dec, buf, epoch, capacity)
			if err != nil {
				log.Debug().Uint64("epoch", epoch).Err(err).Msg("engine: refill decode error")
				e.emit(Event{Kind: DecodeFailed, Epoch: epoch, Err: err})
				return
			}
			if eof {
				e.markDrained(epoch)
				return
			}
		}
	}
}

// fill decodes into buf until it is full or the track ends, then hands
// it to the filled queue. An empty read at EOF recycles the buffer.
func (e *Engine) fill(dec decode.Decoder, buf *Buffer, epoch uint64, capacity int) (eof bool, err error) {
	if len(buf.data) != capacity {
		buf.data = make([]int16, capacity)
	}
	buf.state = Filling

	frameSamples := int(e.channels.Load())
	total := 0
	for total < capacity {
		frames, rerr := dec.ReadFrames(buf.data[total:])
		total += frames * frameSamples
		if rerr == io.EOF {
			eof = true
			break
		}
		if rerr != nil {
			buf.reset()
			e.free <- buf
			return false, rerr
		}
		if frames == 0 {
			break
		}
	}

	if total == 0 {
		buf.reset()
		e.free <- buf
		return eof, nil
	}

	buf.length = total
	buf.pos = 0
	buf.epoch = epoch
	buf.state = Filled
	e.filled <- buf
	return eof, nil
}

// Render fills out with the next samples, applying the session gain.
// It runs on the device's real-time thread: channel operations are
// non-blocking and stale buffers are discarded by epoch tag. When the
// queue runs dry it emits silence; if the track's feed has drained it
// reports TrackDone exactly once.
func (e *Engine) Render(out []int16) {
	epoch := e.session.Epoch()

	if e.session.State() != playback.Playing {
		silence(out)
		e.session.SetLevel(0)
		return
	}

	gain := e.session.Gain()
	var peak int32
	n := 0

	for n < len(out) {
		buf := e.current
		if buf != nil && buf.epoch != epoch {
			buf.reset()
			e.free <- buf
			e.current = nil
			continue
		}
		if buf == nil {
			select {
			case buf = <-e.filled:
			default:
			}
			if buf == nil {
				break
			}
			if buf.epoch != epoch {
				buf.reset()
				e.free <- buf
				continue
			}
			buf.state = Playing
			e.current = buf
		}

		m := len(out) - n
		if r := buf.remaining(); r < m {
			m = r
		}
		for i := 0; i < m; i++ {
			s := audio.ScaleSample(buf.data[buf.pos+i], gain)
			out[n+i] = s
			if a := abs32(s); a > peak {
				peak = a
			}
		}
		buf.pos += m
		n += m

		if buf.remaining() == 0 {
			buf.state = Consumed
			buf.reset()
			e.free <- buf
			e.current = nil
		}
	}

	if n < len(out) {
		silence(out[n:])
		if e.trackDrained(epoch) && e.current == nil {
			// Render runs on a single thread, so a load-then-store
			// suffices to report each generation once.
			if e.doneEpoch.Load() != epoch+1 {
				e.doneEpoch.Store(epoch + 1)
				e.emit(Event{Kind: TrackDone, Epoch: epoch})
			}
		} else {
			e.session.NoteUnderrun()
		}
	}

	if ch := int(e.channels.Load()); ch > 0 && n > 0 {
		e.session.AddRendered(n / ch)
	}
	e.session.SetLevel(float64(peak) / 32768)
}

func (e *Engine) markDrained(epoch uint64) {
	e.drainedEpoch.Store(epoch + 1)
}

func (e *Engine) trackDrained(epoch uint64) bool {
	return e.drainedEpoch.Load() == epoch+1
}

// emit never blocks: the render thread cannot wait on a slow consumer.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Warn().Int("kind", int(ev.Kind)).Msg("engine: event dropped, queue full")
	}
}

func silence(out []int16) {
	for i := range out {
		out[i] = 0
	}
}

func abs32(s int16) int32 {
	v := int32(s)
	if v < 0 {
		return -v
	}
	return v
}
