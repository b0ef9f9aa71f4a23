package radiobrowser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// StationFetcher defines the directory operations used by the app and UI.
// This interface is implemented by *Client and can be used for testing.
type StationFetcher interface {
	DiscoverMirrors(ctx context.Context) ([]string, error)
	QueryStations(ctx context.Context, hosts []string, filter ListingFilter) ([]Station, error)
	FetchListing(ctx context.Context, filter ListingFilter) <-chan Result
	FetchListingBlocking(ctx context.Context, filter ListingFilter) ([]Station, error)
}

// Ensure Client implements StationFetcher at compile time.
var _ StationFetcher = (*Client)(nil)

const (
	// DefaultBootstrapURL lists every mirror currently behind the directory's
	// DNS round robin.
	DefaultBootstrapURL = "https://all.api.radio-browser.info/json/servers"
	DefaultUserAgent    = "airwaves/0.1"
	DefaultTimeout      = 10 * time.Second

	stationsPath = "/json/stations"
)

// Client talks to the radio-browser directory. Its fields are set once by
// NewClient and only read afterwards, so one Client serves concurrent calls.
type Client struct {
	http         *http.Client
	userAgent    string
	bootstrapURL string
	logger       log.FieldLogger
	observer     Observer
	shuffle      Shuffler
}

// Option customises a Client at construction time.
type Option func(*options)

type options struct {
	http         *http.Client
	timeout      time.Duration
	userAgent    string
	bootstrapURL string
	logger       log.FieldLogger
	observer     Observer
	shuffle      Shuffler
}

// WithUserAgent sets the User-Agent sent with every request. The directory
// operators ask clients to identify themselves.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the transport. WithTimeout is ignored when set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.http = client }
}

// WithTimeout bounds each individual request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithBootstrapURL points discovery at a different servers endpoint.
func WithBootstrapURL(bootstrapURL string) Option {
	return func(o *options) {
		if bootstrapURL != "" {
			o.bootstrapURL = bootstrapURL
		}
	}
}

// WithLogger sets the logger used for per-mirror diagnostics.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver reports discovery and mirror attempts, e.g. to metrics.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithShuffler overrides the mirror ordering.
func WithShuffler(shuffle Shuffler) Option {
	return func(o *options) {
		if shuffle != nil {
			o.shuffle = shuffle
		}
	}
}

// NewClient builds a Client. Without options it discovers mirrors from
// DefaultBootstrapURL with a 10 second request timeout.
func NewClient(opts ...Option) *Client {
	o := options{
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		bootstrapURL: DefaultBootstrapURL,
		logger:       log.StandardLogger(),
		observer:     nopObserver{},
		shuffle:      RandomShuffler,
	}
	for _, opt := range opts {
		opt(&o)
	}
	httpClient := o.http
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}
	return &Client{
		http:         httpClient,
		userAgent:    o.userAgent,
		bootstrapURL: o.bootstrapURL,
		logger:       o.logger,
		observer:     o.observer,
		shuffle:      o.shuffle,
	}
}

// UserAgent returns the configured User-Agent.
func (c *Client) UserAgent() string { return c.userAgent }

// Result is the single outcome of a FetchListing call.
type Result struct {
	Stations []Station
	Err      error
}

// FetchListing discovers mirrors and queries one of them without blocking the
// caller. The returned channel yields exactly one Result and is then closed.
// Discovery failures are delivered as-is and no mirror is queried.
func (c *Client) FetchListing(ctx context.Context, filter ListingFilter) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		stations, err := c.fetch(ctx, filter)
		done <- Result{Stations: stations, Err: err}
	}()
	return done
}

// FetchListingBlocking waits for FetchListing and returns its outcome
// unchanged. Do not call it from a goroutine that FetchListing's completion
// depends on, such as a Bubble Tea Update; run it from a tea.Cmd instead.
func (c *Client) FetchListingBlocking(ctx context.Context, filter ListingFilter) ([]Station, error) {
	res := <-c.FetchListing(ctx, filter)
	return res.Stations, res.Err
}

func (c *Client) fetch(ctx context.Context, filter ListingFilter) ([]Station, error) {
	hosts, err := c.DiscoverMirrors(ctx)
	if err != nil {
		c.observer.ObserveListing(0, err)
		return nil, err
	}
	stations, err := c.QueryStations(ctx, hosts, filter)
	c.observer.ObserveListing(len(stations), err)
	return stations, err
}

// get issues a GET and reads the whole body. A non-nil error is always a
// *TransportError.
func (c *Client) get(ctx context.Context, op, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, &TransportError{Op: op, URL: reqURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: op, URL: reqURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return resp.StatusCode, body, nil
}
