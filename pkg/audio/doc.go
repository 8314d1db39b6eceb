// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and 16-bit sample math shared by decode, output and engine
// Package audio provides fundamental audio types and utilities.
//
// This package defines the core types used throughout afqueue:
//   - Format: Describes a decoded PCM stream (codec, sample rate, channels, bit depth)
//
// It also provides small helpers for interleaved 16-bit PCM:
//   - gain scaling with clipping protection
//   - frame count ↔ duration conversion
//   - bit depth reduction for high-resolution sources
//
// Example:
//
//	format := audio.Format{
//	    Codec:      "flac",
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//
//	elapsed := format.FramesToDuration(framesRendered)
package audio
