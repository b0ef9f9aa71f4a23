package radiobrowser

import (
	"net/url"
	"strconv"
	"strings"
)

// ListingFilter configures /json/stations requests. A nil field is left out of
// the request entirely so the mirror applies its own default.
type ListingFilter struct {
	Limit      *int
	Offset     *int
	Order      *string
	Reverse    *bool
	HideBroken *bool
}

// Param is a single query parameter in request order.
type Param struct {
	Key   string
	Value string
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Params returns the parameters that are set, always in the order
// limit, offset, order, reverse, hidebroken. Values are not range checked.
func (f ListingFilter) Params() []Param {
	params := make([]Param, 0, 5)
	if f.Limit != nil {
		params = append(params, Param{Key: "limit", Value: strconv.Itoa(*f.Limit)})
	}
	if f.Offset != nil {
		params = append(params, Param{Key: "offset", Value: strconv.Itoa(*f.Offset)})
	}
	if f.Order != nil {
		params = append(params, Param{Key: "order", Value: *f.Order})
	}
	if f.Reverse != nil {
		params = append(params, Param{Key: "reverse", Value: strconv.FormatBool(*f.Reverse)})
	}
	if f.HideBroken != nil {
		params = append(params, Param{Key: "hidebroken", Value: strconv.FormatBool(*f.HideBroken)})
	}
	return params
}

// Encode renders Params as a raw query string. url.Values is avoided because
// its Encode sorts keys.
func (f ListingFilter) Encode() string {
	params := f.Params()
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// WithOffset returns a copy of f with Offset set to offset.
func (f ListingFilter) WithOffset(offset int) ListingFilter {
	f.Offset = Int(offset)
	return f
}

// String describes the filter for logs and status lines.
func (f ListingFilter) String() string {
	if encoded := f.Encode(); encoded != "" {
		return encoded
	}
	return "defaults"
}
