package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"

	"github.com/five82/airwaves/internal/config"
	"github.com/five82/airwaves/internal/metrics"
	"github.com/five82/airwaves/internal/prefs"
	"github.com/five82/airwaves/internal/radiobrowser"
	"github.com/five82/airwaves/internal/server"
	"github.com/five82/airwaves/internal/state"
	"github.com/five82/airwaves/internal/ui"
)

// Options configure the airwaves application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/airwaves/prefs.toml
	PollEvery  int    // seconds; zero uses the config file's poll_seconds
	Debug      bool
}

// Run boots the airwaves TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	restoreLog, err := setupFileLogging(cfg.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer restoreLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recorder := metrics.NewRecorder()
	client := radiobrowser.NewClient(append(cfg.ClientOptions(),
		radiobrowser.WithLogger(log.StandardLogger()),
		radiobrowser.WithObserver(recorder),
	)...)

	store := &state.Store{}
	store.SetFilter(userPrefs.Apply(cfg.Filter()))

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	log.WithFields(log.Fields{
		"user_agent": client.UserAgent(),
		"filter":     store.Filter().String(),
		"poll":       interval,
	}).Info("starting airwaves")

	var serverDone <-chan struct{}
	if cfg.MetricsAddr != "" {
		serverDone = startStatusServer(ctx, cfg.MetricsAddr, store, recorder)
	}

	StartPoller(ctx, store, client, interval)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Fetcher:   client,
		Store:     store,
		PageSize:  cfg.PageSize,
		ThemeName: userPrefs.Theme,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
	})

	cancel()
	if serverDone != nil {
		<-serverDone
	}
	return err
}

func startStatusServer(ctx context.Context, addr string, store *state.Store, recorder *metrics.Recorder) <-chan struct{} {
	done := make(chan struct{})
	srv := server.New(store, recorder.Registry())
	go func() {
		defer close(done)
		if err := srv.Run(ctx, addr); err != nil {
			log.WithError(err).WithField("addr", addr).Error("status server stopped")
		}
	}()
	return done
}

// List performs one blocking fetch with the configured filter and prints the
// stations as a table. It backs the -list flag.
func List(ctx context.Context, opts Options, w io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	setupConsoleLogging(opts.Debug)

	client := radiobrowser.NewClient(cfg.ClientOptions()...)
	stations, err := client.FetchListingBlocking(ctx, userPrefs.Apply(cfg.Filter()))
	if err != nil {
		if errors.Is(err, radiobrowser.ErrNoServerAvailable) {
			return fmt.Errorf("fetch stations: every mirror failed: %w", err)
		}
		return fmt.Errorf("fetch stations: %w", err)
	}

	return writeStations(w, stations)
}

func writeStations(w io.Writer, stations []radiobrowser.Station) error {
	if len(stations) == 0 {
		_, err := fmt.Fprintln(w, "no stations")
		return err
	}

	rows := make([][]string, 0, len(stations))
	for _, st := range stations {
		rows = append(rows, ui.StationRow(st))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(ui.StationHeaders()...).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
