package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/airwaves/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/airwaves/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional, defaults to ~/.config/airwaves/prefs.toml)")
	pollSeconds := flag.Int("poll", 0, "background refresh interval in seconds (optional, defaults to poll_seconds)")
	list := flag.Bool("list", false, "print one page of stations and exit")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Debug:      *debug,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	var err error
	if *list {
		err = app.List(ctx, opts, os.Stdout)
	} else {
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "airwaves: %v\n", err)
		return 1
	}
	return 0
}
