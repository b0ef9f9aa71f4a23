// Package state provides thread-safe state management for airwaves.
//
// # Overview
//
// The Store shares the latest station listing between the goroutine that
// fetches it (the poller or the UI's refresh command) and everything that reads
// it: the table view, the status server's /stations and /ready handlers, and
// the one-shot list mode.
//
//	Producer (fetch):                  Consumers:
//	┌──────────────────────────┐      ┌─────────────────────┐
//	│ FetchListingBlocking()   │      │ UI table            │
//	│          ↓               │      │ /stations, /ready   │
//	│ store.Update(stations)   │─────→│ store.Snapshot()    │
//	└──────────────────────────┘      └─────────────────────┘
//
// # Update Semantics
//
// A successful fetch replaces the stations, clears LastError and resets
// ConsecutiveFailures. A failed fetch keeps the previous stations and only
// records the error, so the UI keeps showing the last good listing while the
// header reports the problem. After two failures in a row IsOffline reports
// true.
//
// The filter lives in the store as well. The UI changes it when the user
// pages, sorts or toggles hide-broken; the next fetch reads it back through
// Filter.
//
// # Copying
//
// Snapshot returns its own copy of the stations slice and wraps LastError, so
// callers may sort or trim the result freely. Station pointer fields are shared
// because decoded stations are never modified.
//
// The zero Store is ready to use.
package state
