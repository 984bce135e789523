package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/homi-app/homi-backend/pkg/clientip"
)

// Coarse per-IP limit for the whole server, in front of the per-user Redis
// windows: 60 req/min with a small burst. Keyed on the connection address.

const (
	perIPRate       = 1.0 // 60/min
	perIPBurst      = 10
	perIPCleanupMin = 5 * time.Minute
	perIPLimiterTTL = 30 * time.Minute
)

type ipLimiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

var (
	ipEntries   = make(map[string]*ipLimiterEntry)
	ipEntriesMu sync.Mutex
	ipCleanup   bool
)

func getIPLimiter(ip string) *rate.Limiter {
	ipEntriesMu.Lock()
	defer ipEntriesMu.Unlock()
	startIPCleanupOnce()

	e, ok := ipEntries[ip]
	if !ok {
		e = &ipLimiterEntry{
			limiter: rate.NewLimiter(rate.Limit(perIPRate), perIPBurst),
			lastUse: time.Now(),
		}
		ipEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startIPCleanupOnce() {
	if ipCleanup {
		return
	}
	ipCleanup = true
	go func() {
		ticker := time.NewTicker(perIPCleanupMin)
		defer ticker.Stop()
		for range ticker.C {
			ipEntriesMu.Lock()
			now := time.Now()
			for k, e := range ipEntries {
				if now.Sub(e.lastUse) > perIPLimiterTTL {
					delete(ipEntries, k)
				}
			}
			ipEntriesMu.Unlock()
		}
	}()
}

// PerIPRateLimit applies the coarse in-memory limit to every request.
func PerIPRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		if !getIPLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many requests. Please slow down."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
