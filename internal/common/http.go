package common

import (
	"net"
	"net/http"
	"strings"
)

// forwardHeaders are checked in order; the first non-empty one wins.
var forwardHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// ClientIP attempts to determine the real client IP address from the request,
// used as the rate limit key.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	for _, header := range forwardHeaders {
		value := strings.TrimSpace(r.Header.Get(header))
		if value == "" {
			continue
		}
		// X-Forwarded-For carries a chain; the leftmost hop is the client
		if first, _, found := strings.Cut(value, ","); found {
			value = strings.TrimSpace(first)
		}
		if value != "" {
			return value
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
