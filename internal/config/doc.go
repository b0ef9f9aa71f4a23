// Package config loads the airwaves configuration file and environment
// overrides.
//
// # Resolution Order
//
//  1. Built-in defaults (see Default)
//  2. ~/.config/airwaves/config.toml, or the path passed to Load
//  3. AIRWAVES_* environment variables
//
// A missing config file is not an error. A file that exists but cannot be
// parsed is, and so is an environment variable that does not parse as its
// field's type.
//
// # TOML Format
//
//	user_agent = "airwaves/0.1"
//	timeout_seconds = 10
//	bootstrap_url = "https://all.api.radio-browser.info/json/servers"
//	page_size = 100
//	order = "votes"
//	reverse = false
//	hide_broken = true
//	poll_seconds = 300
//	log_file = "~/.local/share/airwaves/airwaves.log"
//	metrics_addr = "127.0.0.1:9090"
//
// Every key is optional. Blank strings and non-positive numbers keep the
// default. Leaving metrics_addr empty disables the status server.
//
// # Environment
//
// AIRWAVES_USER_AGENT, AIRWAVES_TIMEOUT (seconds), AIRWAVES_BOOTSTRAP_URL,
// AIRWAVES_PAGE_SIZE, AIRWAVES_ORDER, AIRWAVES_HIDE_BROKEN,
// AIRWAVES_METRICS_ADDR and AIRWAVES_LOG_FILE override the matching file keys.
//
// # Using the Result
//
//	cfg, err := config.Load("")
//	client := radiobrowser.NewClient(cfg.ClientOptions()...)
//	stations, err := client.FetchListingBlocking(ctx, cfg.Filter())
package config
