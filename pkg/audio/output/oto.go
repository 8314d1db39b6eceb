// ABOUTME: Oto-based audio output implementation
// ABOUTME: Feeds the render callback through oto's pull-based player
package output

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// Oto output implementation using the oto library. Oto pulls samples
// from an io.Reader on its own audio goroutine, which renderReader
// adapts to the RenderFunc contract.
type Oto struct {
	mu     sync.Mutex
	otoCtx *oto.Context
	player *oto.Player
	reader *renderReader
	format audio.Format
	errCh  chan error
}

// NewOto creates a new Oto output.
func NewOto() Device {
	return &Oto{
		errCh: make(chan error, 1),
	}
}

// Open initializes the output device with the specified format.
func (o *Oto) Open(format audio.Format, render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Oto allows a single context per process. Reuse it when the
	// format matches, keep going with a warning when it doesn't.
	if o.otoCtx != nil {
		if o.format.SampleRate != format.SampleRate || o.format.Channels != format.Channels {
			log.Warn().
				Str("old", formatLabel(o.format)).
				Str("new", formatLabel(format)).
				Msg("output: oto cannot reinitialize, continuing with existing context")
		}
		o.reader.setRender(render)
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return errors.Wrap(err, "create oto context")
	}
	<-readyChan

	o.otoCtx = ctx
	o.format = format
	o.reader = &renderReader{channels: format.Channels}
	o.reader.setRender(render)

	o.player = o.otoCtx.NewPlayer(o.reader)
	o.player.Play()

	log.Info().
		Int("sample_rate", format.SampleRate).
		Int("channels", format.Channels).
		Msg("output: device initialized (oto)")

	return nil
}

// Errors delivers asynchronous device failures.
func (o *Oto) Errors() <-chan error {
	return o.errCh
}

// Stop halts the render callback without releasing the device.
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		o.player.Pause()
	}
	return nil
}

// Close releases all device resources.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Warn().Err(err).Msg("output: oto player close")
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.otoCtx = nil
	}
	return nil
}

// renderReader adapts a RenderFunc to the io.Reader oto pulls from.
type renderReader struct {
	channels int

	mu     sync.RWMutex
	render RenderFunc

	sampleBuf []int16
}

func (r *renderReader) setRender(render RenderFunc) {
	r.mu.Lock()
	r.render = render
	r.mu.Unlock()
}

// Read is called from oto's audio goroutine.
func (r *renderReader) Read(p []byte) (int, error) {
	frameBytes := r.channels * 2
	n := (len(p) / frameBytes) * frameBytes
	if n == 0 {
		return 0, nil
	}

	samples := n / 2
	if cap(r.sampleBuf) < samples {
		r.sampleBuf = make([]int16, samples)
	}
	buf := r.sampleBuf[:samples]

	r.mu.RLock()
	render := r.render
	r.mu.RUnlock()

	if render != nil {
		render(buf)
	} else {
		for i := range buf {
			buf[i] = 0
		}
	}

	for i, sample := range buf {
		p[i*2] = byte(sample)
		p[i*2+1] = byte(sample >> 8)
	}
	return n, nil
}
