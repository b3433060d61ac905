package delivery

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey resolves the identity used by both the IP allow-list and the
// rate limiter: the first X-Forwarded-For entry when present, otherwise
// the direct peer address.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
