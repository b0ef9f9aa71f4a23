package radiobrowser

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DiscoverMirrors(t *testing.T) {
	type testCase struct {
		name     string
		handler  http.HandlerFunc
		expected []string
		outcome  Outcome
		check    func(t *testing.T, err error)
	}

	run := func(t *testing.T, tc testCase) {
		bootstrap := newMirror(t, tc.handler)
		obs := &recordingObserver{}
		c := testClient(bootstrap.URL, obs)

		hosts, err := c.DiscoverMirrors(context.Background())

		assert.Equal(t, int32(1), bootstrap.hits.Load(), "discovery must issue exactly one request")
		assert.Equal(t, []Outcome{tc.outcome}, obs.discovery)
		if tc.check != nil {
			tc.check(t, err)
			assert.Nil(t, hosts)
			return
		}
		require.NoError(t, err)
		assert.Equal(t, tc.expected, hosts)
	}

	testCases := []testCase{
		{
			name:     "list returned verbatim",
			handler:  bodyHandler(`["https://b.example","a.example","a.example","not a url"]`),
			expected: []string{"https://b.example", "a.example", "a.example", "not a url"},
			outcome:  OutcomeSuccess,
		},
		{
			name:     "empty list is not an error",
			handler:  bodyHandler(`[]`),
			expected: []string{},
			outcome:  OutcomeSuccess,
		},
		{
			name:    "empty body",
			handler: bodyHandler(""),
			outcome: OutcomeEmptyBody,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoServerAvailable)
			},
		},
		{
			name:    "whitespace body",
			handler: bodyHandler("\n"),
			outcome: OutcomeEmptyBody,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoServerAvailable)
			},
		},
		{
			name:    "null list",
			handler: bodyHandler(`null`),
			outcome: OutcomeDecode,
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.ErrorIs(t, err, errNullList)
			},
		},
		{
			name:    "object instead of string list",
			handler: bodyHandler(`[{"name":"de1.api.radio-browser.info","ip":"1.2.3.4"}]`),
			outcome: OutcomeDecode,
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.NotNil(t, errors.Unwrap(decodeErr))
			},
		},
		{
			name:    "truncated json",
			handler: bodyHandler(`["a.example"`),
			outcome: OutcomeDecode,
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				assert.True(t, errors.As(err, &decodeErr))
			},
		},
		{
			name:    "server error",
			handler: statusHandler(http.StatusBadGateway),
			outcome: OutcomeBadStatus,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestClient_DiscoverMirrors_TransportFailure(t *testing.T) {
	obs := &recordingObserver{}
	c := testClient(closedURL(t), obs)

	hosts, err := c.DiscoverMirrors(context.Background())

	assert.Nil(t, hosts)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.NotNil(t, transportErr.Unwrap())
	assert.Contains(t, err.Error(), "discover mirrors")
	assert.Equal(t, []Outcome{OutcomeTransport}, obs.discovery)
}

func TestClient_DiscoverMirrors_CancelledContext(t *testing.T) {
	bootstrap := newMirror(t, serversHandler("a.example"))
	c := testClient(bootstrap.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.DiscoverMirrors(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
