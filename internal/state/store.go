package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/airwaves/internal/radiobrowser"
)

// offlineThreshold is the number of consecutive failed fetches after which the
// directory is reported as unreachable.
const offlineThreshold = 2

// Snapshot represents the latest listing available to the UI and the status
// server.
type Snapshot struct {
	Stations            []radiobrowser.Station
	Filter              radiobrowser.ListingFilter
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
	Fetches             int // Successful fetches since start
}

// IsOffline returns true when the directory has been unreachable for multiple
// fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// HasListing reports whether at least one fetch has succeeded.
func (s Snapshot) HasListing() bool {
	return s.Fetches > 0
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetFilter records the filter the next fetch should use. Stations already in
// the store are kept until that fetch completes.
func (s *Store) SetFilter(filter radiobrowser.ListingFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Filter = filter
}

// Filter returns the filter currently in effect.
func (s *Store) Filter() radiobrowser.ListingFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Filter
}

// Update replaces the stored stations. When err is non-nil the previous
// stations are kept but the error is recorded for visibility.
func (s *Store) Update(stations []radiobrowser.Station, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update(stations, err)
}

func (s *Store) update(stations []radiobrowser.Station, err error) {
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Stations = cloneStations(stations)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Fetches++
}

// UpdateFor applies Update only if filter still matches the stored filter. It
// reports whether the result was applied. Fetches started before the user
// paged or re-sorted are dropped this way.
func (s *Store) UpdateFor(filter radiobrowser.ListingFilter, stations []radiobrowser.Station, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Filter.Encode() != filter.Encode() {
		return false
	}
	s.update(stations, err)
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Stations = cloneStations(s.snapshot.Stations)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// cloneStations copies the slice. Pointer fields inside each station are
// shared; stations are never mutated after decoding.
func cloneStations(items []radiobrowser.Station) []radiobrowser.Station {
	if len(items) == 0 {
		return nil
	}
	dup := make([]radiobrowser.Station, len(items))
	copy(dup, items)
	return dup
}
