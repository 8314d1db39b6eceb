// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats and PCM sample helpers
package audio

import "time"

// Format describes a decoded PCM stream.
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameSamples returns the number of int16 samples in one frame
// (one sample per channel).
func (f Format) FrameSamples() int {
	return f.Channels
}

// BytesPerFrame returns the byte size of one interleaved 16-bit frame.
func (f Format) BytesPerFrame() int {
	return f.Channels * 2
}

// FramesToDuration converts a frame count to wall time at this format's
// sample rate.
func (f Format) FramesToDuration(frames int64) time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// DurationToFrames converts wall time to a frame count at this format's
// sample rate.
func (f Format) DurationToFrames(d time.Duration) int {
	return int(int64(d) * int64(f.SampleRate) / int64(time.Second))
}

// Valid reports whether the format carries enough information to open
// an output device.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

// ClampGain clamps a gain scalar to [0.0, 1.0].
func ClampGain(gain float64) float64 {
	if gain < 0.0 {
		return 0.0
	}
	if gain > 1.0 {
		return 1.0
	}
	return gain
}

// ScaleSample applies a gain scalar to a single 16-bit sample.
func ScaleSample(sample int16, gain float64) int16 {
	scaled := float64(sample) * gain

	// Clamp to the int16 range to prevent wrap-around at full scale
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// SampleFromInt32 converts a left-justified 24-bit sample (as produced
// by high depth FLAC decoders) down to 16-bit.
func SampleFromInt32(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		return int16(sample >> (uint(bitDepth) - 16))
	case bitDepth < 16:
		return int16(sample << (16 - uint(bitDepth)))
	default:
		return int16(sample)
	}
}
