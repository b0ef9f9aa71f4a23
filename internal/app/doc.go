// Package app provides the orchestration layer for airwaves.
//
// # Overview
//
// Run is the composition root for the TUI. It wires configuration, logging,
// metrics, the directory client, the shared store, the optional status server
// and the background poller, then hands control to the UI. List is the
// non-interactive path behind -list: one blocking fetch printed as a table.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()            config.toml + AIRWAVES_* env
//	       ├─────> prefs.Load()             remembered theme and sort
//	       ├─────> setupFileLogging()       logrus -> log_file
//	       ├─────> metrics.NewRecorder()    radiobrowser.Observer
//	       ├─────> radiobrowser.NewClient()
//	       ├─────> state.Store{}            filter = prefs over config
//	       ├─────> server.Run()             only when metrics_addr is set
//	       ├─────> StartPoller()            background refresh
//	       └─────> ui.Run()                 blocks until quit
//
// # Polling Behavior
//
// The poller fetches with whatever filter the store currently holds, so it
// follows the page and sort order the user picked in the UI. Results for a
// filter that changed while the fetch was in flight are dropped.
//
// After a failure the wait doubles per consecutive failure, starting from the
// poll interval and capped at 15 minutes. A success resets it. Fetch errors are
// logged and recorded in the store; they never stop the poller.
//
// # Error Handling
//
// Fatal (returned from Run or List):
//   - config file present but invalid, or a malformed AIRWAVES_* variable
//   - log file cannot be created
//   - in list mode, the fetch itself failing
//
// Everything after startup is recoverable and shows up in the UI header, the
// log file and the /ready probe instead.
package app
