package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsHandler(allowed []string) http.Handler {
	return CORS(allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	h := corsHandler([]string{"https://homi.app"})
	req := httptest.NewRequest(http.MethodGet, "/api/journal-entries", nil)
	req.Header.Set("Origin", "https://homi.app")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://homi.app", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOmitsHeaderForUnknownOrigin(t *testing.T) {
	h := corsHandler([]string{"https://homi.app"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOriginMatchIsCaseInsensitive(t *testing.T) {
	h := corsHandler([]string{"https://Homi.App"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://homi.app")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://homi.app", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightAlwaysGets200(t *testing.T) {
	h := CORS([]string{"https://homi.app"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))
	req := httptest.NewRequest(http.MethodOptions, "/api/ai-journal", nil)
	req.Header.Set("Origin", "https://homi.app")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}
