// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfgreen/afqueue/internal/playback"
)

// NewModel creates a new TUI model. Commands raised by keypresses are
// pushed to commands in key-press order.
func NewModel(commands chan<- playback.Command) Model {
	return Model{
		state:    "stopped",
		volume:   1.0,
		commands: commands,
	}
}

// Run starts the TUI
func Run(commands chan<- playback.Command) *tea.Program {
	return tea.NewProgram(NewModel(commands), tea.WithAltScreen())
}
