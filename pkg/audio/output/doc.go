// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides a callback-driven Device interface with malgo, oto and portaudio backends
// Package output provides audio playback devices.
//
// A Device pulls audio by invoking a RenderFunc from its own real-time
// thread. The render function must never block: it may only read
// pre-filled buffers and atomic state.
//
// Backends: malgo (miniaudio, default), oto, and portaudio behind the
// "portaudio" build tag.
//
// Example:
//
//	dev, err := output.New("auto")
//	err = dev.Open(format, engine.Render)
package output
