// ABOUTME: Tests for the WAV decoder
// ABOUTME: Uses hand-assembled RIFF files so no fixtures are needed
package decode

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV assembles a minimal PCM16 RIFF file in memory.
func makeWAV(t *testing.T, sampleRate, channels int, samples []int16) []byte {
	t.Helper()

	dataLen := len(samples) * 2
	buf := make([]byte, 0, 44+dataLen)

	le16 := func(v int) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return b
	}
	le32 := func(v int) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v))
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, le32(36+dataLen)...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le16(1)...) // PCM
	buf = append(buf, le16(channels)...)
	buf = append(buf, le32(sampleRate)...)
	buf = append(buf, le32(sampleRate*channels*2)...)
	buf = append(buf, le16(channels*2)...)
	buf = append(buf, le16(16)...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, le32(dataLen)...)
	for _, s := range samples {
		buf = append(buf, le16(int(uint16(s)))...)
	}
	return buf
}

func writeWAV(t *testing.T, sampleRate, channels int, samples []int16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, makeWAV(t, sampleRate, channels, samples), 0o644))
	return path
}

func TestWAVFormat(t *testing.T) {
	path := writeWAV(t, 44100, 2, []int16{0, 0, 1, 1})

	dec, err := Open(path)
	require.NoError(t, err)
	defer dec.Close()

	f := dec.Format()
	assert.Equal(t, "wav", f.Codec)
	assert.Equal(t, 44100, f.SampleRate)
	assert.Equal(t, 2, f.Channels)
	assert.Equal(t, 16, f.BitDepth)
}

func TestWAVReadFrames(t *testing.T) {
	samples := []int16{100, -100, 200, -200, 300, -300}
	path := writeWAV(t, 8000, 2, samples)

	dec, err := Open(path)
	require.NoError(t, err)
	defer dec.Close()

	dst := make([]int16, 6)
	frames, err := dec.ReadFrames(dst)
	require.NoError(t, err)
	assert.Equal(t, 3, frames)
	assert.Equal(t, samples, dst)
}

func TestWAVReadToEOF(t *testing.T) {
	path := writeWAV(t, 8000, 1, []int16{1, 2, 3})

	dec, err := Open(path)
	require.NoError(t, err)
	defer dec.Close()

	dst := make([]int16, 16)
	total := 0
	for {
		frames, err := dec.ReadFrames(dst)
		total += frames
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, 3, total)

	// Reads past EOF keep reporting EOF, not garbage frames.
	frames, err := dec.ReadFrames(dst)
	assert.Equal(t, 0, frames)
	assert.Equal(t, io.EOF, err)
}

func TestWAVShortDestination(t *testing.T) {
	path := writeWAV(t, 8000, 2, []int16{1, 2, 3, 4})

	dec, err := Open(path)
	require.NoError(t, err)
	defer dec.Close()

	// A destination smaller than one frame reads nothing.
	frames, err := dec.ReadFrames(make([]int16, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, frames)
}
