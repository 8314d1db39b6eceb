// ABOUTME: Player moderator that drives a whole playback run
// ABOUTME: Drains commands in order and walks the playlist track by track
package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/jfgreen/afqueue/internal/engine"
	"github.com/jfgreen/afqueue/internal/playback"
	"github.com/jfgreen/afqueue/internal/playlist"
	"github.com/jfgreen/afqueue/internal/ui"
	"github.com/jfgreen/afqueue/pkg/audio"
	"github.com/jfgreen/afqueue/pkg/audio/decode"
	"github.com/jfgreen/afqueue/pkg/audio/output"
)

const statusInterval = 33 * time.Millisecond

// errDeviceFailed marks an unrecoverable output device failure.
var errDeviceFailed = errors.New("output device initialization failed")

// Opener opens a decoder for a track path. Swappable for tests.
type Opener func(path string) (decode.Decoder, error)

// Config holds player configuration.
type Config struct {
	Files          []string
	BufferCount    int
	BufferDuration time.Duration
}

// Player moderates one playback run. It is the single writer of the
// session state: commands, engine events and device errors all funnel
// into its loop and are applied serially.
type Player struct {
	session *playback.Session
	list    *playlist.Playlist
	engine  *engine.Engine
	device  output.Device
	open    Opener

	commands chan playback.Command
	status   func(ui.StatusMsg)

	format audio.Format
}

// New creates a player over the given files and output device.
func New(cfg Config, device output.Device) *Player {
	session := playback.NewSession()
	return &Player{
		session:  session,
		list:     playlist.New(cfg.Files),
		engine:   engine.New(session, cfg.BufferCount, cfg.BufferDuration),
		device:   device,
		open:     decode.Open,
		commands: make(chan playback.Command, 16),
		status:   func(ui.StatusMsg) {},
	}
}

// Commands returns the queue the input loop pushes into.
func (p *Player) Commands() chan<- playback.Command {
	return p.commands
}

// OnStatus registers a callback for periodic status updates. Must be
// set before Run.
func (p *Player) OnStatus(fn func(ui.StatusMsg)) {
	p.status = fn
}

// SetOpener replaces the decoder factory.
func (p *Player) SetOpener(open Opener) {
	p.open = open
}

// Run plays the playlist front to back, applying commands until the
// run finishes, the user exits, or a fatal error occurs. A nil return
// means normal completion (Finished reached or explicit exit).
func (p *Player) Run(ctx context.Context) error {
	defer p.engine.Close()
	defer p.device.Close()

	if !p.loadNext() {
		return p.finish()
	}

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("player: context cancelled, shutting down")
			p.shutdown()
			return nil

		case cmd := <-p.commands:
			done, err := p.apply(cmd)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case ev := <-p.engine.Events():
			done, err := p.handleEvent(ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case err := <-p.device.Errors():
			log.Error().Err(err).Msg("player: output device failure")
			p.session.SetState(playback.Failed)
			p.shutdown()
			return err

		case <-ticker.C:
			p.pushStatus()
		}
	}
}

// apply executes one user command. done reports that the run is over.
func (p *Player) apply(cmd playback.Command) (done bool, err error) {
	log.Debug().Stringer("command", cmd).Msg("player: applying command")

	switch cmd {
	case playback.Skip:
		p.session.SetState(playback.Skipping)
		p.list.Advance()
		if !p.loadNext() {
			return true, p.finish()
		}

	case playback.TogglePause:
		switch p.session.State() {
		case playback.Playing:
			p.session.SetState(playback.Paused)
		case playback.Paused:
			p.session.SetState(playback.Playing)
		}

	case playback.VolumeUp:
		g := p.session.VolumeUp()
		log.Debug().Float64("gain", g).Msg("player: volume up")

	case playback.VolumeDown:
		g := p.session.VolumeDown()
		log.Debug().Float64("gain", g).Msg("player: volume down")

	case playback.Exit:
		log.Info().Msg("player: exit requested")
		p.shutdown()
		return true, nil
	}

	return false, nil
}

// handleEvent reacts to engine notifications. Events tagged with a
// superseded generation are ignored: they describe a track that was
// already skipped away from.
func (p *Player) handleEvent(ev engine.Event) (done bool, err error) {
	if ev.Epoch != p.session.Epoch() {
		log.Debug().Uint64("epoch", ev.Epoch).Msg("player: stale engine event ignored")
		return false, nil
	}

	switch ev.Kind {
	case engine.TrackDone:
		log.Info().Int("position", p.list.Position()).Msg("player: track complete")
		p.session.SetState(playback.Skipping)
		p.list.Advance()
		if !p.loadNext() {
			return true, p.finish()
		}

	case engine.DecodeFailed:
		cur, _ := p.list.Current()
		log.Error().Str("path", cur.Path).Err(ev.Err).Msg("player: decode error, skipping track")
		p.session.SetState(playback.Skipping)
		p.list.Advance()
		if !p.loadNext() {
			return true, p.finish()
		}
	}

	return false, nil
}

// loadNext loads the track under the cursor, skipping over unreadable
// files, and starts the device. Returns false once the playlist is
// exhausted.
func (p *Player) loadNext() bool {
	for {
		cur, ok := p.list.Current()
		if !ok {
			return false
		}

		dec, err := p.open(cur.Path)
		if err != nil {
			log.Error().Str("path", cur.Path).Err(err).Msg("player: cannot open track, skipping")
			p.list.Advance()
			continue
		}

		p.format = dec.Format()
		if err := p.engine.Load(dec); err != nil {
			log.Error().Str("path", cur.Path).Err(err).Msg("player: cannot stream track, skipping")
			p.list.Advance()
			continue
		}

		if err := p.device.Open(p.format, p.engine.Render); err != nil {
			log.Error().Err(err).Msg("player: device open failed")
			p.session.SetState(playback.Failed)
			return false
		}

		log.Info().
			Str("path", cur.Path).
			Str("title", cur.Title).
			Str("codec", p.format.Codec).
			Int("position", p.list.Position()).
			Msg("player: track loaded")

		p.session.SetState(playback.Playing)
		p.pushStatus()
		return true
	}
}

// finish ends the run. Reaching the end of the playlist is a normal
// completion; a failed device load is not.
func (p *Player) finish() error {
	if p.session.State() == playback.Failed {
		p.shutdown()
		return errDeviceFailed
	}
	p.session.SetState(playback.Finished)
	log.Info().Int("tracks", p.list.Len()).Msg("player: playlist finished")
	p.pushStatus()
	p.shutdown()
	return nil
}

// shutdown stops the render feed. Engine and device teardown happen in
// Run's defers.
func (p *Player) shutdown() {
	p.engine.Flush()
	if err := p.device.Stop(); err != nil {
		log.Warn().Err(err).Msg("player: device stop")
	}
}

// pushStatus publishes a snapshot for the UI.
func (p *Player) pushStatus() {
	cur, _ := p.list.Current()
	p.status(ui.StatusMsg{
		Position:   p.list.Position(),
		Total:      p.list.Len(),
		Title:      cur.Title,
		Artist:     cur.Artist,
		Album:      cur.Album,
		Codec:      p.format.Codec,
		SampleRate: p.format.SampleRate,
		Channels:   p.format.Channels,
		State:      p.session.State().String(),
		Volume:     p.session.Gain(),
		Elapsed:    p.session.Elapsed(p.format.SampleRate),
		Level:      p.session.Level(),
		Underruns:  p.session.Underruns(),
	})
}
