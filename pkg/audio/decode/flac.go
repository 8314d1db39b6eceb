// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files to interleaved int16 frames via mewkiz/flac
package decode

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mewkiz/flac"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// FLACDecoder decodes FLAC audio.
type FLACDecoder struct {
	file   *os.File
	stream *flac.Stream
	format audio.Format

	// Interleaved samples decoded from the last FLAC frame but not yet
	// handed out. FLAC frame boundaries rarely line up with the caller's
	// buffer size.
	pending []int16
	eof     bool
}

// NewFLAC creates a FLAC decoder reading from f.
func NewFLAC(f *os.File) (Decoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, errors.Wrap(err, "flac stream")
	}

	info := stream.Info
	return &FLACDecoder{
		file:   f,
		stream: stream,
		format: audio.Format{
			Codec:      "flac",
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			BitDepth:   int(info.BitsPerSample),
		},
	}, nil
}

// Format describes the decoded stream.
func (d *FLACDecoder) Format() audio.Format {
	return d.format
}

// ReadFrames fills dst with interleaved 16-bit samples.
func (d *FLACDecoder) ReadFrames(dst []int16) (int, error) {
	channels := d.format.Channels
	capacity := (len(dst) / channels) * channels
	filled := 0

	for filled < capacity {
		if len(d.pending) == 0 {
			if d.eof {
				break
			}
			if err := d.decodeNext(); err == io.EOF {
				d.eof = true
				continue
			} else if err != nil {
				return 0, err
			}
		}

		n := copy(dst[filled:capacity], d.pending)
		d.pending = d.pending[n:]
		filled += n
	}

	if filled == 0 {
		return 0, io.EOF
	}
	return filled / channels, nil
}

// decodeNext parses one FLAC frame and interleaves its subframes.
func (d *FLACDecoder) decodeNext() error {
	fr, err := d.stream.ParseNext()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return errors.Wrap(err, "flac parse")
	}

	channels := len(fr.Subframes)
	if channels == 0 {
		return nil
	}
	samples := len(fr.Subframes[0].Samples)

	out := make([]int16, 0, samples*channels)
	for i := 0; i < samples; i++ {
		for ch := 0; ch < channels; ch++ {
			s := fr.Subframes[ch].Samples[i]
			out = append(out, audio.SampleFromInt32(s, d.format.BitDepth))
		}
	}
	d.pending = out
	return nil
}

// Close releases the underlying file.
func (d *FLACDecoder) Close() error {
	return d.file.Close()
}
