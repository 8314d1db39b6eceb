// ABOUTME: Audio output interface definition
// ABOUTME: Common callback-driven interface for playback backends
package output

import (
	"github.com/cockroachdb/errors"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// RenderFunc fills out with interleaved 16-bit samples. It is invoked
// from the device's audio thread at a fixed period and must not block,
// allocate per call, or wait on locks held by non-real-time code.
type RenderFunc func(out []int16)

// Device represents an audio output device.
type Device interface {
	// Open initializes the device for the given format and starts
	// pulling audio through render. Reopening with the same format is
	// a no-op; a format change reinitializes where the backend allows.
	Open(format audio.Format, render RenderFunc) error

	// Errors delivers asynchronous device failures (device lost,
	// backend stopped). Fatal per the error taxonomy.
	Errors() <-chan error

	// Stop halts the render callback without releasing the device.
	Stop() error

	// Close releases all device resources.
	Close() error
}

// New creates a Device for the named backend. Supported: "auto",
// "malgo", "oto", "portaudio".
func New(backend string) (Device, error) {
	switch backend {
	case "", "auto", "malgo":
		return NewMalgo(), nil
	case "oto":
		return NewOto(), nil
	case "portaudio":
		return NewPortAudio(), nil
	default:
		return nil, errors.Newf("unknown output backend: %q", backend)
	}
}
