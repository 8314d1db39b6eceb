//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform callback-driven output using PortAudio
package output

import (
	"github.com/cockroachdb/errors"
	"github.com/gordonklaus/portaudio"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// PortAudio output implementation.
type PortAudio struct {
	stream *portaudio.Stream
	errCh  chan error
}

// NewPortAudio creates a new PortAudio output.
func NewPortAudio() Device {
	return &PortAudio{
		errCh: make(chan error, 1),
	}
}

// Open initializes PortAudio and starts the callback stream.
func (p *PortAudio) Open(format audio.Format, render RenderFunc) error {
	if p.stream != nil {
		if err := p.closeStream(); err != nil {
			return err
		}
	} else {
		if err := portaudio.Initialize(); err != nil {
			return errors.Wrap(err, "initialize portaudio")
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, func(out []int16) {
		render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return errors.Wrap(err, "open portaudio stream")
	}

	p.stream = stream
	return stream.Start()
}

// Errors delivers asynchronous device failures.
func (p *PortAudio) Errors() <-chan error {
	return p.errCh
}

// Stop halts the render callback without releasing the device.
func (p *PortAudio) Stop() error {
	if p.stream == nil {
		return nil
	}
	return p.stream.Stop()
}

// Close releases all device resources.
func (p *PortAudio) Close() error {
	if err := p.closeStream(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

func (p *PortAudio) closeStream() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	p.stream = nil
	return nil
}
