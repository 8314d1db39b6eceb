// ABOUTME: Ogg/Opus audio decoder
// ABOUTME: Decodes Opus files to interleaved int16 frames via libopusfile
package decode

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	opus "gopkg.in/hraban/opus.v2"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// Opus output is always decoded at 48kHz. Music files are stereo in
// practice; libopusfile does not expose the channel mapping, so the
// stream is treated as two channel.
const (
	opusSampleRate = 48000
	opusChannels   = 2
)

// OpusDecoder decodes Ogg/Opus audio.
type OpusDecoder struct {
	file   *os.File
	stream *opus.Stream
	format audio.Format

	pending []int16
}

// NewOpus creates an Opus decoder reading from f.
func NewOpus(f *os.File) (Decoder, error) {
	stream, err := opus.NewStream(f)
	if err != nil {
		return nil, errors.Wrap(err, "opus stream")
	}

	return &OpusDecoder{
		file:   f,
		stream: stream,
		format: audio.Format{
			Codec:      "opus",
			SampleRate: opusSampleRate,
			Channels:   opusChannels,
			BitDepth:   16,
		},
	}, nil
}

// Format describes the decoded stream.
func (d *OpusDecoder) Format() audio.Format {
	return d.format
}

// ReadFrames fills dst with interleaved 16-bit samples.
func (d *OpusDecoder) ReadFrames(dst []int16) (int, error) {
	capacity := (len(dst) / opusChannels) * opusChannels
	filled := 0

	for filled < capacity {
		if len(d.pending) > 0 {
			n := copy(dst[filled:capacity], d.pending)
			d.pending = d.pending[n:]
			filled += n
			continue
		}

		// Opus frames are at most 120ms: 5760 frames per channel at 48kHz.
		pcm := make([]int16, 5760*opusChannels)
		n, err := d.stream.Read(pcm)
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "opus read")
		}
		d.pending = pcm[:n*opusChannels]
	}

	if filled == 0 {
		return 0, io.EOF
	}
	return filled / opusChannels, nil
}

// Close releases the underlying file. The stream owns the file handle
// and closes it.
func (d *OpusDecoder) Close() error {
	return d.stream.Close()
}
