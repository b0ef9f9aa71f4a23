package radiobrowser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingFilter_Params(t *testing.T) {
	type testCase struct {
		name     string
		filter   ListingFilter
		expected []Param
	}

	run := func(t *testing.T, tc testCase) {
		assert.Equal(t, tc.expected, tc.filter.Params())
	}

	testCases := []testCase{
		{
			name:     "empty filter",
			filter:   ListingFilter{},
			expected: []Param{},
		},
		{
			name: "all fields in fixed order",
			filter: ListingFilter{
				HideBroken: Bool(true),
				Reverse:    Bool(false),
				Order:      String("votes"),
				Offset:     Int(5),
				Limit:      Int(10),
			},
			expected: []Param{
				{Key: "limit", Value: "10"},
				{Key: "offset", Value: "5"},
				{Key: "order", Value: "votes"},
				{Key: "reverse", Value: "false"},
				{Key: "hidebroken", Value: "true"},
			},
		},
		{
			name:   "only booleans",
			filter: ListingFilter{Reverse: Bool(true), HideBroken: Bool(false)},
			expected: []Param{
				{Key: "reverse", Value: "true"},
				{Key: "hidebroken", Value: "false"},
			},
		},
		{
			name:   "zero values are still emitted",
			filter: ListingFilter{Limit: Int(0), Offset: Int(0)},
			expected: []Param{
				{Key: "limit", Value: "0"},
				{Key: "offset", Value: "0"},
			},
		},
		{
			name:     "order passes through unvalidated",
			filter:   ListingFilter{Order: String("no-such-field")},
			expected: []Param{{Key: "order", Value: "no-such-field"}},
		},
		{
			name:     "negative limit is not range checked",
			filter:   ListingFilter{Limit: Int(-3)},
			expected: []Param{{Key: "limit", Value: "-3"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

// Test_ListingFilter_ParamsSubsets walks every present/absent combination and
// checks that only present keys appear, in order.
func TestListingFilter_ParamsSubsets(t *testing.T) {
	order := []string{"limit", "offset", "order", "reverse", "hidebroken"}
	for mask := 0; mask < 1<<len(order); mask++ {
		var f ListingFilter
		var want []string
		if mask&1 != 0 {
			f.Limit = Int(1)
			want = append(want, "limit")
		}
		if mask&2 != 0 {
			f.Offset = Int(2)
			want = append(want, "offset")
		}
		if mask&4 != 0 {
			f.Order = String("name")
			want = append(want, "order")
		}
		if mask&8 != 0 {
			f.Reverse = Bool(true)
			want = append(want, "reverse")
		}
		if mask&16 != 0 {
			f.HideBroken = Bool(false)
			want = append(want, "hidebroken")
		}

		var got []string
		for _, p := range f.Params() {
			got = append(got, p.Key)
		}
		assert.Equal(t, want, got, "mask %05b", mask)
	}
}

func TestListingFilter_Encode(t *testing.T) {
	assert.Equal(t, "", ListingFilter{}.Encode())
	assert.Equal(t, "order=a+b%26c", ListingFilter{Order: String("a b&c")}.Encode())
	assert.Equal(t, "defaults", ListingFilter{}.String())
}

func TestListingFilter_WithOffset(t *testing.T) {
	base := ListingFilter{Limit: Int(20), Offset: Int(0)}
	next := base.WithOffset(40)

	assert.Equal(t, 40, *next.Offset)
	assert.Equal(t, 0, *base.Offset)
	assert.Equal(t, 20, *next.Limit)
}

func TestStationsURL(t *testing.T) {
	type testCase struct {
		name     string
		host     string
		filter   ListingFilter
		expected string
		wantErr  bool
	}

	run := func(t *testing.T, tc testCase) {
		actual, err := stationsURL(tc.host, tc.filter.Encode())
		if tc.wantErr {
			assert.Error(t, err)
			return
		}
		require.NoError(t, err)
		assert.Equal(t, tc.expected, actual)
	}

	testCases := []testCase{
		{
			name: "descending by votes",
			host: "https://server1.api.radio-browser.info",
			filter: ListingFilter{
				Limit:      Int(10),
				Offset:     Int(5),
				Order:      String("votes"),
				Reverse:    Bool(true),
				HideBroken: Bool(true),
			},
			expected: "https://server1.api.radio-browser.info/json/stations?limit=10&offset=5&order=votes&reverse=true&hidebroken=true",
		},
		{
			name: "ascending by clickcount",
			host: "https://server1.api.radio-browser.info",
			filter: ListingFilter{
				Limit:      Int(20),
				Offset:     Int(0),
				Order:      String("clickcount"),
				Reverse:    Bool(false),
				HideBroken: Bool(false),
			},
			expected: "https://server1.api.radio-browser.info/json/stations?limit=20&offset=0&order=clickcount&reverse=false&hidebroken=false",
		},
		{
			name:     "bare hostname gets https",
			host:     "de1.api.radio-browser.info",
			filter:   ListingFilter{Limit: Int(1)},
			expected: "https://de1.api.radio-browser.info/json/stations?limit=1",
		},
		{
			name:     "existing path and query are replaced",
			host:     "http://mirror.example:8080/old/path?x=1#frag",
			filter:   ListingFilter{},
			expected: "http://mirror.example:8080/json/stations",
		},
		{
			name:    "empty host",
			host:    "   ",
			wantErr: true,
		},
		{
			name:    "unparseable host",
			host:    "http://[::1",
			wantErr: true,
		},
		{
			name:    "scheme without host",
			host:    "file:///tmp/x",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}
