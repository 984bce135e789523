package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/homi-app/homi-backend/internal/ratelimit"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRateLimited responds 429 with the standard X-RateLimit headers so
// clients can tell when the window resets.
func writeRateLimited(w http.ResponseWriter, d ratelimit.Decision, limit int) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
}
