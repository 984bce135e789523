package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromHeaders resolves the originating client IP for rate-limit keys.
// Prefers the first (leftmost) address in X-Forwarded-For, then X-Real-IP.
// Returns "unknown" when neither header is present so a missing IP never
// fails the request.
func FromHeaders(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}

// RealClientIP returns the IP from r.RemoteAddr (no proxy headers). Use for
// the in-memory per-IP limiter when traffic reaches the app directly.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
