// Package radiobrowser provides a client for the radio-browser station
// directory.
//
// # Overview
//
// The directory has no single authoritative host. A fixed bootstrap endpoint
// lists the mirrors that currently serve the API and any one of them can
// answer a listing query. Every fetch therefore runs in two stages:
//
//  1. DiscoverMirrors: GET https://all.api.radio-browser.info/json/servers
//  2. QueryStations: GET <mirror>/json/stations?<filter> against one mirror,
//     falling back to the others when a mirror is unusable
//
// Mirrors are not cached; each FetchListing discovers them again.
//
// # Client Usage
//
//	client := radiobrowser.NewClient(
//		radiobrowser.WithUserAgent("airwaves/0.1"),
//		radiobrowser.WithTimeout(5*time.Second),
//	)
//
//	filter := radiobrowser.ListingFilter{
//		Limit:      radiobrowser.Int(20),
//		Order:      radiobrowser.String("votes"),
//		Reverse:    radiobrowser.Bool(true),
//		HideBroken: radiobrowser.Bool(true),
//	}
//
//	// Non-blocking: exactly one Result arrives on the channel.
//	res := <-client.FetchListing(ctx, filter)
//
//	// Blocking convenience with the same errors.
//	stations, err := client.FetchListingBlocking(ctx, filter)
//
// # Filters
//
// ListingFilter fields are pointers. A nil field is omitted from the request
// and the mirror applies its own default; the encoder never fills one in.
// Parameters are emitted in the fixed order limit, offset, order, reverse,
// hidebroken:
//
//	/json/stations?limit=10&offset=5&order=votes&reverse=true&hidebroken=true
//
// # Failover
//
// Hosts are shuffled once per query to spread load, then tried one at a time:
//
//   - unparseable host, transport error, non-200 status, empty body: skip
//   - 200 with a body that is not a station array: stop with *DecodeError
//   - 200 with a station array: return it, remaining hosts are not contacted
//
// A mirror that answers 200 with garbage points at a client or schema bug, so
// asking the next mirror would only hide it.
//
// # Error Handling
//
//   - *TransportError: connection or I/O failure (discovery, or ctx ended
//     between mirror attempts)
//   - *StatusError: discovery endpoint answered with a non-200 status
//   - *DecodeError: body did not match the expected JSON shape
//   - ErrNoServerAvailable: empty discovery body, or every mirror failed
//
// Per-mirror failures during QueryStations are logged at debug level and
// reported to the Observer but never returned individually.
//
// # Thread Safety
//
// A Client holds only configuration set by NewClient. Concurrent calls share
// nothing but the http.Client, which is itself safe for concurrent use.
//
// FetchListingBlocking parks the calling goroutine until the background
// fetch completes. Call it from a worker goroutine or a tea.Cmd, never from
// code the fetch itself waits on.
package radiobrowser
