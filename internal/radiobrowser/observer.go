package radiobrowser

import "time"

// Outcome labels a discovery request or a single mirror attempt.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeTransport   Outcome = "transport_error"
	OutcomeBadStatus   Outcome = "bad_status"
	OutcomeEmptyBody   Outcome = "empty_body"
	OutcomeDecode      Outcome = "decode_error"
	OutcomeInvalidHost Outcome = "invalid_host"
)

// Observer receives one call per discovery request, per mirror attempt and
// per completed listing. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveDiscovery(outcome Outcome, elapsed time.Duration)
	ObserveAttempt(mirror string, outcome Outcome, elapsed time.Duration)
	ObserveListing(stations int, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveDiscovery(Outcome, time.Duration)       {}
func (nopObserver) ObserveAttempt(string, Outcome, time.Duration) {}
func (nopObserver) ObserveListing(int, error)                     {}
