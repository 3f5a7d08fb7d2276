package form

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseEndpoint parses raw as an absolute http or https URL.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint URL %q: missing host", raw)
	}
	return u, nil
}

// Encode returns a copy of endpoint with one query parameter appended per
// record field, in record order. Parameters already on endpoint come first.
// url.Values is not used because its Encode sorts keys.
func Encode(endpoint *url.URL, r *Record) *url.URL {
	u := *endpoint

	var b strings.Builder
	b.WriteString(u.RawQuery)
	r.Each(func(key string, value any) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(Stringify(value)))
	})
	u.RawQuery = b.String()
	return &u
}
