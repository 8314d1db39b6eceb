// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to interleaved int16 frames
package decode

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// mp3Channels is fixed by go-mp3, which always emits stereo output.
const mp3Channels = 2

// MP3Decoder decodes MP3 audio.
type MP3Decoder struct {
	file    *os.File
	decoder *mp3.Decoder
	format  audio.Format

	// Carry for the odd byte of a sample split across reads.
	pending []byte
}

// NewMP3 creates an MP3 decoder reading from f.
func NewMP3(f *os.File) (Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, errors.Wrap(err, "mp3 decoder")
	}

	return &MP3Decoder{
		file:    f,
		decoder: dec,
		format: audio.Format{
			Codec:      "mp3",
			SampleRate: dec.SampleRate(),
			Channels:   mp3Channels,
			BitDepth:   16,
		},
	}, nil
}

// Format describes the decoded stream.
func (d *MP3Decoder) Format() audio.Format {
	return d.format
}

// ReadFrames fills dst with interleaved 16-bit samples.
func (d *MP3Decoder) ReadFrames(dst []int16) (int, error) {
	wantBytes := (len(dst) / mp3Channels) * mp3Channels * 2
	if wantBytes == 0 {
		return 0, nil
	}

	buf := make([]byte, wantBytes)
	n := copy(buf, d.pending)
	d.pending = d.pending[:0]

	for n < wantBytes {
		read, err := d.decoder.Read(buf[n:])
		n += read
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "mp3 read")
		}
		if read == 0 {
			break
		}
	}

	// Hold back bytes that don't make up a whole frame.
	frameBytes := mp3Channels * 2
	rem := n % frameBytes
	if rem > 0 {
		d.pending = append(d.pending, buf[n-rem:n]...)
		n -= rem
	}

	for i := 0; i < n/2; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	frames := n / frameBytes
	if frames == 0 {
		return 0, io.EOF
	}
	return frames, nil
}

// Close releases the underlying file.
func (d *MP3Decoder) Close() error {
	return d.file.Close()
}
