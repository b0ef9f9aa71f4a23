// Package server exposes metrics, probes and the current station listing over
// HTTP while airwaves runs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/five82/airwaves/internal/radiobrowser"
	"github.com/five82/airwaves/internal/state"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics, /health, /ready and /stations.
type Server struct {
	store    *state.Store
	gatherer prometheus.Gatherer

	mu      sync.Mutex
	healthy bool
}

// New creates a Server reading from store and exporting gatherer.
func New(store *state.Store, gatherer prometheus.Gatherer) *Server {
	return &Server{store: store, gatherer: gatherer}
}

// Handler returns the chi router with every endpoint mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.livenessHandler)
	r.Get("/ready", s.readinessHandler)
	r.Get("/stations", s.stationsHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Run listens on addr and serves until ctx ends, then shuts down gracefully.
// It returns once the listener is closed.
func (s *Server) Run(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve is Run for an existing listener.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting status server on addr: '%s'", l.Addr())
		s.setHealthy(true)
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		s.setHealthy(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.setHealthy(false)
	log.Info("shutting down status server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("error shutting down status server: %v", err)
		return err
	}
	return nil
}

func (s *Server) setHealthy(v bool) {
	s.mu.Lock()
	s.healthy = v
	s.mu.Unlock()
}

func (s *Server) isHealthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// livenessHandler writes 200/OK while the server is serving and 503/Service
// Unavailable once shutdown has begun.
func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, s.isHealthy(), "liveness")
}

// readinessHandler writes 200/OK once a listing has been fetched and the
// directory is not considered offline.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeProbe(w, snap.HasListing() && !snap.IsOffline(), "readiness")
}

func writeProbe(w http.ResponseWriter, ok bool, probe string) {
	var err error
	if ok {
		_, err = w.Write([]byte(http.StatusText(http.StatusOK)))
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, err = w.Write([]byte(http.StatusText(http.StatusServiceUnavailable)))
	}
	if err != nil {
		log.Warnf("Could not answer to a %s probe: %s", probe, err.Error())
	}
}

// stationsResponse is the body of GET /stations.
type stationsResponse struct {
	Filter              string                 `json:"filter"`
	LastUpdated         *time.Time             `json:"last_updated,omitempty"`
	LastError           string                 `json:"last_error,omitempty"`
	ConsecutiveFailures int                    `json:"consecutive_failures"`
	Stations            []radiobrowser.Station `json:"stations"`
}

func (s *Server) stationsHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	resp := stationsResponse{
		Filter:              snap.Filter.String(),
		ConsecutiveFailures: snap.ConsecutiveFailures,
		Stations:            snap.Stations,
	}
	if resp.Stations == nil {
		resp.Stations = []radiobrowser.Station{}
	}
	if !snap.LastUpdated.IsZero() {
		updated := snap.LastUpdated.UTC()
		resp.LastUpdated = &updated
	}
	if snap.LastError != nil {
		resp.LastError = snap.LastError.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warnf("Could not write stations response: %s", err.Error())
	}
}
