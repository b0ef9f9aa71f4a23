package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// setupFileLogging points the standard logrus logger at path. The TUI owns the
// terminal, so nothing may be written to stderr while it runs. The returned
// function restores stderr and closes the file.
func setupFileLogging(path string, debug bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	configureLogger(file, debug)
	return func() {
		log.SetOutput(os.Stderr)
		_ = file.Close()
	}, nil
}

// setupConsoleLogging is used by list mode, where only warnings are worth
// interleaving with the table on the terminal.
func setupConsoleLogging(debug bool) {
	configureLogger(os.Stderr, debug)
	if !debug {
		log.SetLevel(log.WarnLevel)
	}
}

func configureLogger(out io.Writer, debug bool) {
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
