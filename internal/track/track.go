// ABOUTME: Track entity describing one playlist entry
// ABOUTME: Carries the file path plus display metadata read from tags
package track

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Track is one entry of the play queue.
type Track struct {
	ID   string
	Path string

	Title  string
	Artist string
	Album  string
}

// New builds a Track for path, reading display metadata from the file's
// tags. Missing or unreadable tags are not an error: the track falls
// back to its file name for display.
func New(path string) Track {
	t := Track{
		ID:    uuid.New().String(),
		Path:  path,
		Title: displayName(path),
	}

	f, err := os.Open(path)
	if err != nil {
		return t
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		log.Debug().Str("path", path).Err(err).Msg("track: no readable tags")
		return t
	}

	if title := strings.TrimSpace(meta.Title()); title != "" {
		t.Title = title
	}
	t.Artist = strings.TrimSpace(meta.Artist())
	t.Album = strings.TrimSpace(meta.Album())

	return t
}

// Display returns the one-line description shown while the track plays.
func (t Track) Display() string {
	if t.Artist != "" {
		return t.Artist + " - " + t.Title
	}
	return t.Title
}

func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
