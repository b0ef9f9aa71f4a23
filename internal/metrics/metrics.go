// Package metrics exposes directory client activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/airwaves/internal/radiobrowser"
)

const namespace = "airwaves"

// Ensure Recorder can be handed to radiobrowser.WithObserver.
var _ radiobrowser.Observer = (*Recorder)(nil)

// Recorder owns a registry with the discovery, mirror attempt and listing
// series. It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	discoveryTotal      *prometheus.CounterVec
	mirrorAttemptsTotal *prometheus.CounterVec
	listingsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	lastFetchStations   prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		discoveryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discovery_total",
				Help:      "Bootstrap mirror discovery requests by outcome",
			},
			[]string{"outcome"},
		),
		mirrorAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mirror_attempts_total",
				Help:      "Station listing attempts per mirror by outcome",
			},
			[]string{"mirror", "outcome"},
		),
		listingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listings_total",
				Help:      "Completed discovery plus query cycles by result",
			},
			[]string{"result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_ms",
				Help:      "Histogram of directory request latency in milliseconds",
				Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"stage"},
		),
		lastFetchStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations_last_fetch",
			Help:      "Number of stations returned by the last successful listing",
		}),
	}
	r.registry.MustRegister(
		r.discoveryTotal,
		r.mirrorAttemptsTotal,
		r.listingsTotal,
		r.requestDuration,
		r.lastFetchStations,
	)
	return r
}

// Registry returns the registry holding the recorder's series.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveDiscovery counts a bootstrap request.
func (r *Recorder) ObserveDiscovery(outcome radiobrowser.Outcome, elapsed time.Duration) {
	r.discoveryTotal.With(prometheus.Labels{"outcome": string(outcome)}).Inc()
	if outcome != radiobrowser.OutcomeTransport {
		r.requestDuration.With(prometheus.Labels{"stage": "discovery"}).Observe(milliseconds(elapsed))
	}
}

// ObserveAttempt counts a single mirror attempt. Hosts rejected before any
// request is sent do not feed the latency histogram.
func (r *Recorder) ObserveAttempt(mirror string, outcome radiobrowser.Outcome, elapsed time.Duration) {
	r.mirrorAttemptsTotal.With(prometheus.Labels{"mirror": mirror, "outcome": string(outcome)}).Inc()
	switch outcome {
	case radiobrowser.OutcomeInvalidHost, radiobrowser.OutcomeTransport:
		return
	}
	r.requestDuration.With(prometheus.Labels{"stage": "query"}).Observe(milliseconds(elapsed))
}

// ObserveListing counts a finished FetchListing call.
func (r *Recorder) ObserveListing(stations int, err error) {
	if err != nil {
		r.listingsTotal.With(prometheus.Labels{"result": "error"}).Inc()
		return
	}
	r.listingsTotal.With(prometheus.Labels{"result": "success"}).Inc()
	r.lastFetchStations.Set(float64(stations))
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
