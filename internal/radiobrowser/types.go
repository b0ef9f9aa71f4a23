package radiobrowser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const directoryTimestampLayout = "2006-01-02 15:04:05"

// Station mirrors one entry of /json/stations. Name and URL are required; the
// directory schema allows null for everything else, so those fields are
// pointers and stay nil when the mirror omits them.
type Station struct {
	Name string `json:"name"`
	URL  string `json:"url"`

	ChangeUUID     *string    `json:"changeuuid,omitempty"`
	StationUUID    *string    `json:"stationuuid,omitempty"`
	Homepage       *string    `json:"homepage,omitempty"`
	Favicon        *string    `json:"favicon,omitempty"`
	Tags           *string    `json:"tags,omitempty"`
	Country        *string    `json:"country,omitempty"`
	CountryCode    *string    `json:"countrycode,omitempty"`
	State          *string    `json:"state,omitempty"`
	Language       *string    `json:"language,omitempty"`
	Votes          *int       `json:"votes,omitempty"`
	LastCheckOK    *bool      `json:"lastcheckok,omitempty"`
	LastCheckTime  *Timestamp `json:"lastchecktime,omitempty"`
	ClickTimestamp *Timestamp `json:"clicktimestamp,omitempty"`
	ClickCount     *int       `json:"clickcount,omitempty"`
	Codec          *string    `json:"codec,omitempty"`
	Bitrate        *int       `json:"bitrate,omitempty"`
}

// UnmarshalJSON decodes a station and rejects entries whose name or url is
// missing, null, or not a string.
func (s *Station) UnmarshalJSON(data []byte) error {
	type plain Station
	var raw struct {
		plain
		Name *string `json:"name"`
		URL  *string `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == nil {
		return errors.New("station: missing required field \"name\"")
	}
	if raw.URL == nil {
		return errors.New("station: missing required field \"url\"")
	}
	*s = Station(raw.plain)
	s.Name = *raw.Name
	s.URL = *raw.URL
	return nil
}

// TagList splits the comma separated tags field.
func (s Station) TagList() []string {
	if s.Tags == nil {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(*s.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Healthy reports whether the last health check passed. Unknown counts as
// unhealthy.
func (s Station) Healthy() bool {
	return s.LastCheckOK != nil && *s.LastCheckOK
}

// Timestamp is a directory time value. Mirrors have served both unix seconds
// and "2006-01-02 15:04:05" strings for the same field.
type Timestamp struct {
	time.Time
}

// maxUnixSeconds is 9999-12-31T23:59:59Z.
const maxUnixSeconds = 253402300799

// UnmarshalJSON accepts a JSON number of unix seconds or a timestamp string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		parsed, err := parseTimestamp(value)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if math.Abs(seconds) > maxUnixSeconds {
		return fmt.Errorf("timestamp: %v seconds out of range", seconds)
	}
	whole, frac := math.Modf(seconds)
	t.Time = time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()
	return nil
}

// MarshalJSON writes unix seconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	seconds := float64(t.UnixNano()) / float64(time.Second)
	return json.Marshal(seconds)
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	parsed, err := time.ParseInLocation(directoryTimestampLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp: unrecognised format %q", value)
	}
	return parsed, nil
}
