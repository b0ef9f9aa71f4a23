// Package ui provides the terminal station browser for airwaves.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds all state; Update is the only
// place it changes and View renders it. Network work never happens in Update:
// fetches run as tea.Cmd values that call FetchListingBlocking and write the
// result to the shared state.Store, and a periodic tick re-reads the store so
// results from the background poller show up too.
//
// # Package Structure
//
//   - app.go: Model, messages, commands and the Run entry point
//   - stations.go: station table, paging and sort keys, local search
//   - detail.go: detail pane for the selected station
//   - logs.go: log view tailing the airwaves log file
//   - header.go: status bar and command bar
//   - keys.go, help.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Views
//
//   - Stations: table of the current page next to a detail pane
//   - Logs: tail of the log file, optionally warnings only
//
// # Filters
//
// Paging, sort order, reverse and hide-broken all change the filter held by
// the store and start a fetch. Sort and hide-broken choices are saved to the
// preferences file so the next run starts where this one ended; the page is
// not. The search prompt filters the already fetched page by name and tag
// without touching the network.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//	    Context:  ctx,
//	    Fetcher:  client,
//	    Store:    store,
//	    PageSize: 100,
//	    LogPath:  "~/.local/share/airwaves/airwaves.log",
//	})
package ui
