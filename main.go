// ABOUTME: Entry point for the afqueue terminal audio player
// ABOUTME: Parses CLI flags, wires the UI to the player and runs the playlist
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/jfgreen/afqueue/internal/app"
	"github.com/jfgreen/afqueue/internal/logger"
	"github.com/jfgreen/afqueue/internal/ui"
	"github.com/jfgreen/afqueue/internal/version"
	"github.com/jfgreen/afqueue/pkg/audio/output"
)

var (
	cli = kingpin.New(version.Product, "Terminal audio player: plays the given files in order.")

	files       = cli.Arg("files", "Audio files to play, in order").Required().Strings()
	backend     = cli.Flag("output", "Output backend: auto, malgo, oto, portaudio").Default("auto").String()
	bufferCount = cli.Flag("buffer-count", "Number of recycled sample buffers").Default("3").Int()
	bufferMs    = cli.Flag("buffer-ms", "Audio span of one buffer in milliseconds").Default("500").Int()
	verbose     = cli.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logFile     = cli.Flag("log-file", "Log file path (default: discard under the UI)").String()
	noTUI       = cli.Flag("no-tui", "Disable the TUI, play through without keyboard control").Bool()
)

func main() {
	cli.Version(version.Version)
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	useTUI := !*noTUI

	err := logger.Init(logger.Config{
		Verbose: *verbose,
		File:    *logFile,
		Quiet:   useTUI && *logFile == "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		os.Exit(1)
	}

	device, err := output.New(*backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	player := app.New(app.Config{
		Files:          *files,
		BufferCount:    *bufferCount,
		BufferDuration: time.Duration(*bufferMs) * time.Millisecond,
	}, device)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Info().
		Str("version", version.Version).
		Int("tracks", len(*files)).
		Str("output", *backend).
		Msg("starting playback run")

	if !useTUI {
		if err := player.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "playback failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// The TUI owns the terminal: it puts it in raw mode, feeds
	// keypresses to the player as commands, and restores the terminal
	// on every exit path.
	program := ui.Run(player.Commands())
	player.OnStatus(func(msg ui.StatusMsg) {
		program.Send(msg)
	})

	playerDone := make(chan error, 1)
	go func() {
		playerDone <- player.Run(ctx)
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		zlog.Error().Err(err).Msg("terminal UI failed")
	}

	// The q key queues an Exit command before the UI returns, so the
	// player winds down on its own.
	select {
	case err = <-playerDone:
	case <-time.After(5 * time.Second):
		zlog.Warn().Msg("player did not stop in time, forcing exit")
		stop()
		err = <-playerDone
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "playback failed: %v\n", err)
		os.Exit(1)
	}
}
