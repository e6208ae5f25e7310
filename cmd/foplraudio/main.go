// Package main provides the folder player entry point.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/browse"
	"github.com/Tnxec2/FoplrAudio/internal/app/places"
	"github.com/Tnxec2/FoplrAudio/internal/app/session"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
	"github.com/Tnxec2/FoplrAudio/internal/infra/config"
	"github.com/Tnxec2/FoplrAudio/internal/infra/localfs"
	"github.com/Tnxec2/FoplrAudio/internal/infra/logger"
	"github.com/Tnxec2/FoplrAudio/internal/infra/metadata"
	"github.com/Tnxec2/FoplrAudio/internal/infra/player"
	"github.com/Tnxec2/FoplrAudio/internal/infra/store"
)

var (
	app        = kingpin.New("foplraudio", "Folder-based audio player session engine")
	configPath = app.Flag("config", "Path to config file").Default("foplraudio.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger; command-line flags win over config
	loggerConfig := logger.Config{
		Output: cfg.Logger.Output,
		Level:  cfg.Logger.Level,
		File:   cfg.Logger.File,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		os.Exit(1)
	}
}

// run wires the engine and blocks until a shutdown signal arrives.
// Using a separate function ensures defer statements are executed even
// when returning with an error.
func run(cfg *config.Config) error {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}

	provider, err := localfs.NewProviderFromConfig(cfg, st)
	if err != nil {
		return fmt.Errorf("failed to create storage provider: %w", err)
	}

	engine := player.New(player.Options{
		DefaultTrackDuration: time.Duration(cfg.Player.DefaultTrackDurationSec) * time.Second,
	})

	controller := session.New(
		session.Config{
			TickInterval: time.Duration(cfg.Session.TickIntervalMs) * time.Millisecond,
			Retry: session.RetryPolicy{
				Enabled:     cfg.Connect.RetryOn(),
				MaxAttempts: cfg.Connect.MaxAttempts,
				Backoff:     time.Duration(cfg.Connect.BackoffMs) * time.Millisecond,
			},
		},
		st,
		provider,
		browse.New(provider, cfg.Browser.AudioExtensions),
		metadata.New(),
		places.NewRegistry(st, provider),
		player.NewConnector(engine),
	)
	controller.Start()

	// Log now-playing changes so the headless engine is observable.
	go watchStatus(controller)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	zlog.Info().Msgf("received signal %v, shutting down", s)

	controller.Close()
	return nil
}

// watchStatus logs track transitions and notices.
func watchStatus(controller *session.Controller) {
	lastTitle := ""
	for {
		select {
		case <-controller.Done():
			return
		case n := <-controller.Notices():
			zlog.Info().Msgf("notice: %s", n.Message)
		case <-controller.Updates():
			status := controller.Status()
			if status.TrackTitle != "" && status.TrackTitle != lastTitle {
				lastTitle = status.TrackTitle
				zlog.Info().Msgf("now playing [%s]: %s - %s (%d/%d)",
					media.TrackKind(status.TrackTitle), status.TrackArtist, status.TrackTitle,
					status.CurrentIndex+1, len(status.Queue))
			}
		}
	}
}
