// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Callback-driven playback via the miniaudio library
package output

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog/log"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// Malgo output implementation using the malgo/miniaudio library.
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	format   audio.Format
	render   RenderFunc
	errCh    chan error
	ready    bool

	// Reused between callbacks so the render path stays allocation-free.
	sampleBuf []int16
}

// NewMalgo creates a new Malgo output.
func NewMalgo() Device {
	return &Malgo{
		errCh: make(chan error, 1),
	}
}

// Open initializes the output device with the specified format.
func (m *Malgo) Open(format audio.Format, render RenderFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// If already initialized with the same format, just swap the render source.
	if m.device != nil && m.format.SampleRate == format.SampleRate && m.format.Channels == format.Channels {
		log.Debug().Msg("output: device already open with same format, reusing")
		m.render = render
		return nil
	}

	// Format change: tear the old device down first.
	if m.device != nil {
		log.Debug().
			Str("old", formatLabel(m.format)).
			Str("new", formatLabel(format)).
			Msg("output: format change, reinitializing device")
		m.closeDevice()
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return errors.Wrap(err, "init malgo context")
		}
		m.malgoCtx = ctx
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	m.render = render
	m.format = format

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, pInput []byte, frameCount uint32) {
			m.dataCallback(pOutput, frameCount)
		},
		Stop: func() {
			m.reportStopped()
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return errors.Wrap(err, "init playback device")
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return errors.Wrap(err, "start playback device")
	}

	m.device = device
	m.ready = true

	log.Info().
		Int("sample_rate", format.SampleRate).
		Int("channels", format.Channels).
		Msg("output: device initialized (malgo)")

	return nil
}

// dataCallback is invoked by miniaudio's audio thread to fill pOutput.
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	totalSamples := int(frameCount) * m.format.Channels
	if cap(m.sampleBuf) < totalSamples {
		m.sampleBuf = make([]int16, totalSamples)
	}
	samples := m.sampleBuf[:totalSamples]

	if m.render != nil {
		m.render(samples)
	} else {
		for i := range samples {
			samples[i] = 0
		}
	}

	for i, sample := range samples {
		pOutput[i*2] = byte(sample)
		pOutput[i*2+1] = byte(sample >> 8)
	}
}

// reportStopped surfaces unexpected device stops. Intentional stops
// clear ready first, so those are silent.
func (m *Malgo) reportStopped() {
	if !m.ready {
		return
	}
	select {
	case m.errCh <- errors.New("output device stopped unexpectedly"):
	default:
	}
}

// Errors delivers asynchronous device failures.
func (m *Malgo) Errors() <-chan error {
	return m.errCh
}

// Stop halts the render callback without releasing the device.
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return nil
	}
	m.ready = false
	if err := m.device.Stop(); err != nil {
		return errors.Wrap(err, "stop playback device")
	}
	return nil
}

// Close releases all device resources.
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Warn().Err(err).Msg("output: malgo context uninit")
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// closeDevice stops and uninitializes the device. Must hold m.mu.
func (m *Malgo) closeDevice() {
	if m.device == nil {
		return
	}
	m.ready = false
	if err := m.device.Stop(); err != nil {
		log.Warn().Err(err).Msg("output: device stop")
	}
	m.device.Uninit()
	m.device = nil
}

func formatLabel(f audio.Format) string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}
