// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Maps keypresses to playback commands and renders the now-playing view
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfgreen/afqueue/internal/playback"
	"github.com/jfgreen/afqueue/internal/version"
)

// Model represents the TUI state.
type Model struct {
	// Playlist
	position int
	total    int

	// Metadata
	title  string
	artist string
	album  string

	// Stream
	codec      string
	sampleRate int
	channels   int

	// Playback
	state     string
	volume    float64
	elapsed   time.Duration
	level     float64
	underruns uint64

	// Dimensions
	width  int
	height int

	commands chan<- playback.Command
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// handleKey maps keypresses to playback commands. Unrecognized keys
// are ignored.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.send(playback.Exit)
		return m, tea.Quit
	case "n":
		m.send(playback.Skip)
	case "p":
		m.send(playback.TogglePause)
	case "]":
		m.send(playback.VolumeUp)
	case "[":
		m.send(playback.VolumeDown)
	}

	return m, nil
}

// send pushes a command without blocking; a full queue drops the key
// rather than stalling the UI loop.
func (m Model) send(cmd playback.Command) {
	select {
	case m.commands <- cmd:
	default:
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderNowPlaying()
	s += m.renderTransport()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar and playlist position
func (m Model) renderHeader() string {
	pos := ""
	if m.total > 0 {
		pos = fmt.Sprintf("Track %d of %d", m.position+1, m.total)
	}
	return fmt.Sprintf(`┌─ %s ─────────────────────────────────────────┐
│ %-52s │
├──────────────────────────────────────────────────────┤
`, version.Product, pos)
}

// renderNowPlaying renders current track metadata and stream format
func (m Model) renderNowPlaying() string {
	if m.codec == "" {
		return "│ No track loaded                                      │\n"
	}

	s := fmt.Sprintf("│ Track:  %-44s │\n", truncate(m.title, 44))
	if m.artist != "" {
		s += fmt.Sprintf("│ Artist: %-44s │\n", truncate(m.artist, 44))
	}
	if m.album != "" {
		s += fmt.Sprintf("│ Album:  %-44s │\n", truncate(m.album, 44))
	}

	s += fmt.Sprintf("│ Format: %-44s │\n",
		fmt.Sprintf("%s %dHz %s", m.codec, m.sampleRate, channelName(m.channels)))

	return s
}

// renderTransport renders state, elapsed time, volume and level meter
func (m Model) renderTransport() string {
	volumeBar := renderBar(int(m.volume*16), 16, 16)
	levelBar := renderBar(int(m.level*16), 16, 16)

	s := fmt.Sprintf("│ %-8s %-43s │\n", m.state, formatElapsed(m.elapsed))
	s += fmt.Sprintf("│ Volume: [%s] %3.0f%%%-21s │\n", volumeBar, m.volume*100, "")
	s += fmt.Sprintf("│ Level:  [%s]%-26s │\n", levelBar, "")
	if m.underruns > 0 {
		s += fmt.Sprintf("│ Underruns: %-41d │\n", m.underruns)
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ n:Next  p:Pause  ]:Vol+  [:Vol-  q:Quit              │
└──────────────────────────────────────────────────────┘
`
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	m.position = msg.Position
	m.total = msg.Total
	m.state = msg.State
	m.volume = msg.Volume
	m.elapsed = msg.Elapsed
	m.level = msg.Level
	m.underruns = msg.Underruns

	if msg.Codec != "" {
		m.codec = msg.Codec
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
	}
	if msg.Title != "" {
		m.title = msg.Title
		m.artist = msg.Artist
		m.album = msg.Album
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Position   int
	Total      int
	Title      string
	Artist     string
	Album      string
	Codec      string
	SampleRate int
	Channels   int
	State      string
	Volume     float64
	Elapsed    time.Duration
	Level      float64
	Underruns  uint64
}

// Utility functions
func renderBar(value, max, width int) string {
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
