package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/five82/airwaves/internal/radiobrowser"
	"github.com/five82/airwaves/internal/state"
)

const (
	defaultPollInterval = 5 * time.Minute
	maxBackoff          = 15 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the store with
// the store's current filter. After failures the wait grows exponentially up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, fetcher radiobrowser.StationFetcher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, fetcher)

			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff. A base above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, fetcher radiobrowser.StationFetcher) {
	filter := store.Filter()
	started := time.Now()
	stations, err := fetcher.FetchListingBlocking(ctx, filter)
	if ctx.Err() != nil {
		// Shutting down; an aborted fetch is not a directory failure.
		return
	}

	fields := log.Fields{"filter": filter.String(), "elapsed": time.Since(started).Round(time.Millisecond)}
	if !store.UpdateFor(filter, stations, err) {
		log.WithFields(fields).Debug("discarding poll result for a superseded filter")
		return
	}
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("station poll failed")
		return
	}
	log.WithFields(fields).WithField("stations", len(stations)).Debug("station poll complete")
}
