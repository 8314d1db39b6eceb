// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAV files to interleaved int16 frames via go-audio/wav
package decode

import (
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cockroachdb/errors"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// WAVDecoder decodes RIFF/WAV audio.
type WAVDecoder struct {
	file    *os.File
	decoder *wav.Decoder
	format  audio.Format
	buf     *goaudio.IntBuffer
}

// NewWAV creates a WAV decoder reading from f.
func NewWAV(f *os.File) (Decoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}

	format := audio.Format{
		Codec:      "wav",
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if !format.Valid() {
		return nil, errors.Newf("wav header reports unusable format: %dHz %dch", format.SampleRate, format.Channels)
	}

	return &WAVDecoder{
		file:    f,
		decoder: dec,
		format:  format,
	}, nil
}

// Format describes the decoded stream.
func (d *WAVDecoder) Format() audio.Format {
	return d.format
}

// ReadFrames fills dst with interleaved 16-bit samples.
func (d *WAVDecoder) ReadFrames(dst []int16) (int, error) {
	channels := d.format.Channels
	want := (len(dst) / channels) * channels
	if want == 0 {
		return 0, nil
	}

	if d.buf == nil || len(d.buf.Data) != want {
		d.buf = &goaudio.IntBuffer{
			Data: make([]int, want),
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  d.format.SampleRate,
			},
		}
	}

	n, err := d.decoder.PCMBuffer(d.buf)
	if err != nil {
		return 0, errors.Wrap(err, "wav read")
	}
	if n == 0 {
		return 0, io.EOF
	}

	n = (n / channels) * channels
	for i := 0; i < n; i++ {
		dst[i] = audio.SampleFromInt32(int32(d.buf.Data[i]), d.format.BitDepth)
	}
	return n / channels, nil
}

// Close releases the underlying file.
func (d *WAVDecoder) Close() error {
	return d.file.Close()
}
