package radiobrowser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// QueryStations fetches a listing from one of hosts. Hosts are tried one at a
// time in shuffled order; a mirror that cannot be reached, answers with a
// non-200 status or sends an empty body is skipped. A 200 response that does
// not decode ends the query with a *DecodeError without trying the rest.
// ErrNoServerAvailable is returned once every host has been tried, or at once
// when hosts is empty.
func (c *Client) QueryStations(ctx context.Context, hosts []string, filter ListingFilter) ([]Station, error) {
	candidates := append([]string(nil), hosts...)
	c.shuffle(candidates)
	query := filter.Encode()

	for _, host := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Op: "query stations", URL: host, Err: err}
		}
		stations, skip, err := c.attempt(ctx, host, query)
		if skip {
			continue
		}
		return stations, err
	}
	return nil, ErrNoServerAvailable
}

// attempt performs one mirror request. skip reports whether the caller should
// move on to the next host.
func (c *Client) attempt(ctx context.Context, host, query string) (stations []Station, skip bool, err error) {
	logger := c.logger.WithField("mirror", host)

	reqURL, err := stationsURL(host, query)
	if err != nil {
		c.observer.ObserveAttempt(host, OutcomeInvalidHost, 0)
		logger.WithError(err).Debug("skipping mirror")
		return nil, true, nil
	}

	start := time.Now()
	status, body, err := c.get(ctx, "query stations", reqURL)
	elapsed := time.Since(start)
	logger = logger.WithField("elapsed", elapsed)
	switch {
	case err != nil:
		c.observer.ObserveAttempt(host, OutcomeTransport, elapsed)
		logger.WithError(err).Debug("skipping mirror")
		return nil, true, nil
	case status != http.StatusOK:
		c.observer.ObserveAttempt(host, OutcomeBadStatus, elapsed)
		logger.WithField("status", status).Debug("skipping mirror")
		return nil, true, nil
	case len(bytes.TrimSpace(body)) == 0:
		c.observer.ObserveAttempt(host, OutcomeEmptyBody, elapsed)
		logger.Debug("skipping mirror: empty body")
		return nil, true, nil
	}

	err = json.Unmarshal(body, &stations)
	if err == nil && stations == nil {
		err = errNullList
	}
	if err != nil {
		c.observer.ObserveAttempt(host, OutcomeDecode, elapsed)
		logger.WithError(err).Warn("mirror sent an undecodable listing")
		return nil, false, &DecodeError{URL: reqURL, Err: err}
	}
	c.observer.ObserveAttempt(host, OutcomeSuccess, elapsed)
	logger.WithField("stations", len(stations)).Debug("listing fetched")
	return stations, false, nil
}

// errNullList rejects a JSON null where a list is required. encoding/json
// decodes it into a nil slice without complaint.
var errNullList = errors.New("expected JSON array, got null")

// stationsURL builds <host>/json/stations?<query>. Bare hostnames get an https
// scheme; anything that does not yield a host is rejected.
func stationsURL(host, query string) (string, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return "", fmt.Errorf("empty mirror host")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse mirror %q: %w", host, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse mirror %q: no host", host)
	}
	u.Path = stationsPath
	u.RawPath = ""
	u.RawQuery = query
	u.Fragment = ""
	return u.String(), nil
}
