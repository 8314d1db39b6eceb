//go:build !portaudio

// ABOUTME: Stub for PortAudio when not built with portaudio tag
// ABOUTME: Returns errors for all operations
package output

import (
	"github.com/cockroachdb/errors"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// PortAudio stub when built without the portaudio tag.
type PortAudio struct {
	errCh chan error
}

// NewPortAudio creates a stub PortAudio output.
func NewPortAudio() Device {
	return &PortAudio{
		errCh: make(chan error, 1),
	}
}

// Open returns an error indicating PortAudio is not available.
func (p *PortAudio) Open(format audio.Format, render RenderFunc) error {
	return errors.New("PortAudio support not enabled (build with -tags portaudio)")
}

// Errors delivers asynchronous device failures.
func (p *PortAudio) Errors() <-chan error {
	return p.errCh
}

// Stop is a no-op for the stub.
func (p *PortAudio) Stop() error {
	return nil
}

// Close is a no-op for the stub.
func (p *PortAudio) Close() error {
	return nil
}
