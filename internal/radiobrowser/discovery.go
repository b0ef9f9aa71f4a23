package radiobrowser

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// DiscoverMirrors asks the bootstrap endpoint for the current mirror list and
// returns it verbatim. Every failure is terminal; there is only one bootstrap
// source so nothing is retried here.
func (c *Client) DiscoverMirrors(ctx context.Context) ([]string, error) {
	start := time.Now()
	status, body, err := c.get(ctx, "discover mirrors", c.bootstrapURL)
	elapsed := time.Since(start)
	if err != nil {
		c.observer.ObserveDiscovery(OutcomeTransport, elapsed)
		return nil, err
	}
	if status != http.StatusOK {
		c.observer.ObserveDiscovery(OutcomeBadStatus, elapsed)
		return nil, &StatusError{URL: c.bootstrapURL, StatusCode: status}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		c.observer.ObserveDiscovery(OutcomeEmptyBody, elapsed)
		return nil, ErrNoServerAvailable
	}

	var hosts []string
	err = json.Unmarshal(body, &hosts)
	if err == nil && hosts == nil {
		err = errNullList
	}
	if err != nil {
		c.observer.ObserveDiscovery(OutcomeDecode, elapsed)
		return nil, &DecodeError{URL: c.bootstrapURL, Err: err}
	}
	c.observer.ObserveDiscovery(OutcomeSuccess, elapsed)
	c.logger.WithFields(log.Fields{
		"mirrors": len(hosts),
		"elapsed": elapsed,
	}).Debug("discovered directory mirrors")
	return hosts, nil
}
