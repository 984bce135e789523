package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromHeaders(t *testing.T) {
	tests := []struct {
		name     string
		fwdFor   string
		realIP   string
		expected string
	}{
		{"Forwarded For Single", "203.0.113.7", "", "203.0.113.7"},
		{"Forwarded For Chain Takes Leftmost", "203.0.113.7, 10.0.0.1, 10.0.0.2", "", "203.0.113.7"},
		{"Forwarded For With Spaces", "  203.0.113.7 , 10.0.0.1", "", "203.0.113.7"},
		{"Real IP Fallback", "", "198.51.100.4", "198.51.100.4"},
		{"Forwarded For Wins Over Real IP", "203.0.113.7", "198.51.100.4", "203.0.113.7"},
		{"No Headers", "", "", "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.fwdFor != "" {
				r.Header.Set("X-Forwarded-For", tc.fwdFor)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.expected, FromHeaders(r))
		})
	}
}

func TestRealClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	assert.Equal(t, "192.0.2.10", RealClientIP(r))

	r.RemoteAddr = "192.0.2.11"
	assert.Equal(t, "192.0.2.11", RealClientIP(r))
}
