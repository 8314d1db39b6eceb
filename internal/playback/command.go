// ABOUTME: User commands applied to the playback session
// ABOUTME: Produced by the UI key handler, drained serially by the player
package playback

// Command is a user request routed from the input loop to the player.
// Commands are applied one at a time in the order the keys were pressed.
type Command int

const (
	// Skip flushes the buffer queue and advances to the next track.
	Skip Command = iota

	// TogglePause toggles Playing and Paused.
	TogglePause

	// VolumeUp raises the gain one step, clamped at 1.
	VolumeUp

	// VolumeDown lowers the gain one step, clamped at 0.
	VolumeDown

	// Exit ends the run cooperatively.
	Exit
)

// String returns the command name for logs.
func (c Command) String() string {
	switch c {
	case Skip:
		return "skip"
	case TogglePause:
		return "toggle_pause"
	case VolumeUp:
		return "volume_up"
	case VolumeDown:
		return "volume_down"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}
