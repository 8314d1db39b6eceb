// ABOUTME: Ordered playlist of tracks with a single advancing cursor
// ABOUTME: Moves strictly forward; once exhausted it stays exhausted
package playlist

import (
	"github.com/jfgreen/afqueue/internal/track"
)

// Playlist is an ordered list of tracks played front to back. The
// cursor only moves forward; there is no wraparound and no rewind.
type Playlist struct {
	tracks []track.Track
	cursor int
}

// New creates a playlist over the given paths, in order.
func New(paths []string) *Playlist {
	tracks := make([]track.Track, 0, len(paths))
	for _, p := range paths {
		tracks = append(tracks, track.New(p))
	}
	return &Playlist{tracks: tracks}
}

// Len returns the total number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Position returns the zero-based index of the current track. Once the
// playlist is exhausted it equals Len.
func (p *Playlist) Position() int {
	return p.cursor
}

// Current returns the track under the cursor. ok is false once the
// playlist is exhausted.
func (p *Playlist) Current() (track.Track, bool) {
	if p.cursor >= len(p.tracks) {
		return track.Track{}, false
	}
	return p.tracks[p.cursor], true
}

// Advance moves the cursor to the next track. Advancing past the last
// track exhausts the playlist; further calls are no-ops.
func (p *Playlist) Advance() {
	if p.cursor < len(p.tracks) {
		p.cursor++
	}
}

// HasNext reports whether a track follows the current one.
func (p *Playlist) HasNext() bool {
	return p.cursor+1 < len(p.tracks)
}

// Finished reports whether the cursor has moved past the last track.
func (p *Playlist) Finished() bool {
	return p.cursor >= len(p.tracks)
}
