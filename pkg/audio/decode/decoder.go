// ABOUTME: Decoder interface definition and per-extension dispatch
// ABOUTME: Opens audio files and routes them to the matching codec decoder
package decode

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jfgreen/afqueue/pkg/audio"
)

// ErrUnsupportedFormat is returned by Open for file extensions no
// decoder claims.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoder pulls interleaved 16-bit PCM frames from an open audio file.
type Decoder interface {
	// Format describes the decoded stream. Valid after Open returns.
	Format() audio.Format

	// ReadFrames fills dst with interleaved samples and returns the
	// number of whole frames read. io.EOF signals end of track; a
	// short read before EOF is allowed.
	ReadFrames(dst []int16) (int, error)

	// Close releases the underlying file.
	Close() error
}

// Open opens the audio file at path and returns a decoder selected by
// file extension.
func Open(path string) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var dec Decoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		dec, err = NewMP3(f)
	case ".flac":
		dec, err = NewFLAC(f)
	case ".wav", ".wave":
		dec, err = NewWAV(f)
	case ".opus", ".ogg", ".oga":
		dec, err = NewOpus(f)
	default:
		f.Close()
		return nil, errors.Wrapf(ErrUnsupportedFormat, "open %q", path)
	}

	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "open %q", path)
	}
	return dec, nil
}
