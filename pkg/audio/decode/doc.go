// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides frame-oriented Decoder interface with MP3, FLAC, WAV, Opus implementations
// Package decode provides audio file decoders for various codecs.
//
// Supports: MP3, FLAC, WAV and Ogg/Opus.
//
// All decoders implement the Decoder interface and output interleaved
// 16-bit PCM frames, pulled incrementally so large files are never held
// in memory.
//
// Example:
//
//	dec, err := decode.Open("song.flac")
//	frames, err := dec.ReadFrames(pcm)
package decode
