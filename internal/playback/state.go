// ABOUTME: Transport state enum for the player
// ABOUTME: Authoritative lifecycle of a playback run
package playback

// State is the transport state of a playback run.
type State int32

const (
	// Stopped is the initial state before the first track loads.
	Stopped State = iota

	// Playing means the render path is consuming buffers.
	Playing

	// Paused means the render path emits silence without consuming.
	Paused

	// Skipping is the transient flush-and-reload between tracks.
	Skipping

	// Finished is terminal: the playlist is exhausted.
	Finished

	// Failed is terminal: an unrecoverable device or decoder failure.
	Failed
)

// String returns the state name for logs and the UI.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Skipping:
		return "skipping"
	case Finished:
		return "finished"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run is over.
func (s State) Terminal() bool {
	return s == Finished || s == Failed
}
