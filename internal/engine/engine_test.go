// ABOUTME: Tests for the buffer-queue engine
// ABOUTME: Covers priming, FIFO order, gain, underruns, staleness and track-done
package engine

import (
	"io"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfgreen/afqueue/internal/playback"
	"github.com/jfgreen/afqueue/pkg/audio"
)

// fakeDecoder produces a deterministic ramp of samples so tests can
// verify ordering and staleness by value.
type fakeDecoder struct {
	format    audio.Format
	next      int16
	left      int           // frames remaining before EOF
	failAfter int           // frames before a decode error, 0 disables
	delay     time.Duration // per-read latency, simulates a slow source
	read      int
	closed    bool
}

func newFakeDecoder(frames int) *fakeDecoder {
	return &fakeDecoder{
		format: audio.Format{Codec: "fake", SampleRate: 8000, Channels: 2, BitDepth: 16},
		next:   1,
		left:   frames,
	}
}

func (d *fakeDecoder) Format() audio.Format { return d.format }

func (d *fakeDecoder) ReadFrames(dst []int16) (int, error) {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if d.failAfter > 0 && d.read >= d.failAfter {
		return 0, errors.New("bitstream corrupt")
	}
	frames := len(dst) / d.format.Channels
	if frames > d.left {
		frames = d.left
	}
	for i := 0; i < frames*d.format.Channels; i++ {
		dst[i] = d.next
		d.next++
	}
	d.left -= frames
	d.read += frames
	if d.left == 0 {
		return frames, io.EOF
	}
	return frames, nil
}

func (d *fakeDecoder) Close() error {
	d.closed = true
	return nil
}

// newTestEngine uses 10ms buffers: at 8kHz stereo that is 80 frames,
// 160 samples per buffer.
func newTestEngine(t *testing.T) (*Engine, *playback.Session) {
	t.Helper()
	session := playback.NewSession()
	e := New(session, 3, 10*time.Millisecond)
	t.Cleanup(e.Close)
	return e, session
}

const (
	bufFrames  = 80
	bufSamples = 160
)

func TestLoadPrimesBuffers(t *testing.T) {
	e, session := newTestEngine(t)

	dec := newFakeDecoder(bufFrames * 2)
	require.NoError(t, e.Load(dec))
	session.SetState(playback.Playing)

	// Both buffers were primed synchronously, so the first render
	// succeeds without waiting for the refill task.
	out := make([]int16, bufSamples*2)
	e.Render(out)

	for i, s := range out {
		require.Equal(t, int16(i+1), s, "sample %d out of order", i)
	}
	assert.Equal(t, uint64(0), session.Underruns())
	assert.True(t, dec.closed, "short track should close its decoder at load")
}

func TestRenderAppliesGain(t *testing.T) {
	e, session := newTestEngine(t)

	require.NoError(t, e.Load(newFakeDecoder(bufFrames)))
	session.SetState(playback.Playing)

	// Halve the volume: 8 steps of 1/16.
	for i := 0; i < 8; i++ {
		session.VolumeDown()
	}
	require.Equal(t, 0.5, session.Gain())

	out := make([]int16, 8)
	e.Render(out)

	for i, s := range out {
		assert.Equal(t, int16(float64(i+1)*0.5), s)
	}
}

func TestRenderSilenceWhenPaused(t *testing.T) {
	e, session := newTestEngine(t)

	require.NoError(t, e.Load(newFakeDecoder(bufFrames*2)))
	session.SetState(playback.Paused)

	out := make([]int16, bufSamples)
	for i := range out {
		out[i] = 0x7f
	}
	e.Render(out)

	for _, s := range out {
		require.Equal(t, int16(0), s)
	}
	assert.Equal(t, uint64(0), session.RenderedFrames(), "pause must not consume")

	// Resume picks up from the exact first sample.
	session.SetState(playback.Playing)
	e.Render(out[:4])
	assert.Equal(t, []int16{1, 2, 3, 4}, []int16(out[:4]))
}

func TestUnderrunRendersSilence(t *testing.T) {
	e, session := newTestEngine(t)

	// A slow source cannot keep up once the primed pool is consumed
	// back to back; the gap must come out as silence, not a stall.
	dec := newFakeDecoder(bufFrames * 100)
	dec.delay = 50 * time.Millisecond
	require.NoError(t, e.Load(dec))
	session.SetState(playback.Playing)

	out := make([]int16, bufSamples)
	for i := 0; i < 4; i++ {
		e.Render(out)
	}

	assert.Positive(t, session.Underruns())
	assert.Equal(t, int16(0), out[len(out)-1])
}

func TestSkipDiscardsPreFlushAudio(t *testing.T) {
	e, session := newTestEngine(t)

	first := newFakeDecoder(bufFrames * 100)
	require.NoError(t, e.Load(first))
	session.SetState(playback.Playing)

	// Consume a little of track one.
	out := make([]int16, 16)
	e.Render(out)
	require.Equal(t, int16(1), out[0])

	// Skip to a second track whose ramp restarts at 1. No sample from
	// the old generation may surface again, so the ramp must be
	// contiguous from the start.
	second := newFakeDecoder(bufFrames * 100)
	require.NoError(t, e.Load(second))

	got := make([]int16, 0, bufSamples)
	buf := make([]int16, 16)
	for len(got) < bufSamples {
		e.Render(buf)
		for _, s := range buf {
			if s != 0 {
				got = append(got, s)
			}
		}
	}

	for i, s := range got {
		require.Equal(t, int16(i+1), s, "stale sample leaked at %d", i)
	}
}

func TestTrackDoneEmittedOnceAfterDrain(t *testing.T) {
	e, session := newTestEngine(t)

	dec := newFakeDecoder(bufFrames) // fits one buffer, drains at load
	require.NoError(t, e.Load(dec))
	session.SetState(playback.Playing)
	epoch := session.Epoch()

	out := make([]int16, bufSamples)
	e.Render(out) // consumes the whole track
	e.Render(out) // queue empty + drained: reports done
	e.Render(out) // must not report again

	select {
	case ev := <-e.Events():
		assert.Equal(t, TrackDone, ev.Kind)
		assert.Equal(t, epoch, ev.Epoch)
	default:
		t.Fatal("expected a TrackDone event")
	}

	select {
	case ev := <-e.Events():
		t.Fatalf("unexpected second event: %+v", ev)
	default:
	}

	assert.Equal(t, uint64(0), session.Underruns(), "drain gap is not an underrun")
}

func TestDecodeFailureSurfacesAsEvent(t *testing.T) {
	e, session := newTestEngine(t)

	// Enough audio to survive priming, then the bitstream goes bad.
	dec := newFakeDecoder(bufFrames * 100)
	dec.failAfter = bufFrames * 4
	require.NoError(t, e.Load(dec))
	session.SetState(playback.Playing)

	out := make([]int16, bufSamples)
	deadline := time.After(time.Second)
	for {
		e.Render(out)
		select {
		case ev := <-e.Events():
			require.Equal(t, DecodeFailed, ev.Kind)
			require.Error(t, ev.Err)
			return
		case <-deadline:
			t.Fatal("timed out waiting for decode failure event")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestRenderAccountsFrames(t *testing.T) {
	e, session := newTestEngine(t)

	require.NoError(t, e.Load(newFakeDecoder(bufFrames)))
	session.SetState(playback.Playing)

	out := make([]int16, 32) // 16 stereo frames
	e.Render(out)

	assert.Equal(t, uint64(16), session.RenderedFrames())
}

func TestLoadRejectsInvalidFormat(t *testing.T) {
	e, _ := newTestEngine(t)

	dec := newFakeDecoder(10)
	dec.format = audio.Format{}
	err := e.Load(dec)
	require.Error(t, err)
	assert.True(t, dec.closed)
}
