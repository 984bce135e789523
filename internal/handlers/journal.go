package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/homi-app/homi-backend/internal/apperrors"
	"github.com/homi-app/homi-backend/internal/auth"
	"github.com/homi-app/homi-backend/internal/models"
	"github.com/homi-app/homi-backend/internal/ratelimit"
	"github.com/homi-app/homi-backend/internal/store"
	"github.com/homi-app/homi-backend/pkg/clientip"
)

// Rate-limit windows per action. Keys are action:userID:clientIP so one
// identity cannot exhaust another's budget and a shared NAT IP cannot
// exhaust a single identity's budget from a different account.
const (
	aiWindow   = 60 * time.Second
	aiMax      = 30
	listWindow = 30 * time.Second
	listMax    = 60
	editWindow = 60 * time.Second
	editMax    = 60

	storeTimeout = 5 * time.Second
)

// TokenVerifier resolves a bearer token to a stable user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// RateChecker decides whether a keyed request fits its window. It never
// errors; an unavailable counter store produces a permissive decision.
type RateChecker interface {
	Check(ctx context.Context, key string, window time.Duration, maxCount int) ratelimit.Decision
}

// Reflector produces the AI reflection for an entry.
type Reflector interface {
	Reflect(ctx context.Context, entry, tone string) (*models.AIResult, error)
}

// EntryStore is the owner-scoped persistence used by the routes.
type EntryStore interface {
	Insert(ctx context.Context, ownerID, text string, ai *models.AIResult) (string, error)
	List(ctx context.Context, ownerID string, limit int) ([]models.Entry, error)
	Update(ctx context.Context, ownerID, id, text string) error
	Delete(ctx context.Context, ownerID, id string) error
}

// JournalHandler composes verifier, limiter, store and completion gateway
// for every journal route. Both the standalone server and any function-style
// deployment wire the same handler, so route logic never diverges.
type JournalHandler struct {
	verifier TokenVerifier
	limiter  RateChecker
	store    EntryStore
	ai       Reflector
}

func NewJournalHandler(verifier TokenVerifier, limiter RateChecker, entries EntryStore, ai Reflector) *JournalHandler {
	return &JournalHandler{verifier: verifier, limiter: limiter, store: entries, ai: ai}
}

// requireAuth validates the bearer token and returns the user id.
// Writes the 401 response itself when verification fails.
func (h *JournalHandler) requireAuth(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	userID, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

// checkRate runs the fixed-window check for an action. Writes the 429
// response itself when the window is exhausted.
func (h *JournalHandler) checkRate(w http.ResponseWriter, r *http.Request, action, userID string, window time.Duration, maxCount int) bool {
	key := ratelimit.Key(action, userID, clientip.FromHeaders(r))
	decision := h.limiter.Check(r.Context(), key, window, maxCount)
	if !decision.Allowed {
		writeRateLimited(w, decision, maxCount)
		return false
	}
	return true
}

// CreateReflection handles POST /api/ai-journal: verify → validate →
// rate-limit → upstream call → best-effort insert → respond. Validation runs
// before the limiter so malformed input never burns a counter increment or
// upstream quota. A failed insert is logged and swallowed; the reflection
// still goes back to the client.
func (h *JournalHandler) CreateReflection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	var req JournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if _, err := validateEntryText(req.Entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if !h.checkRate(w, r, "ai", userID, aiWindow, aiMax) {
		return
	}

	result, err := h.ai.Reflect(r.Context(), req.Entry, req.Tone)
	if err != nil {
		var upstreamErr *apperrors.UpstreamError
		if errors.As(err, &upstreamErr) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":   "Upstream AI error",
				"details": upstreamErr.Body,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Persistence is a side effect of the write path, not a precondition
	// of the response.
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if _, err := h.store.Insert(ctx, userID, req.Entry, result); err != nil {
		log.Printf("entry insert failed (response already committed): %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"content":   result.Content,
		"questions": result.Questions,
	})
}

// ListEntries handles GET /api/journal-entries.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireAuth(w, r)
	if !ok {
		return
	}
	if !h.checkRate(w, r, "list", userID, listWindow, listMax) {
		return
	}

	limit := store.DefaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	limit = store.ClampLimit(limit)

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	entries, err := h.store.List(ctx, userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// UpdateEntry handles PATCH /api/journal-entries/{id}: replaces the entry
// text only. A key owned by someone else resolves as 404, never 403.
func (h *JournalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireAuth(w, r)
	if !ok {
		return
	}
	if !h.checkRate(w, r, "edit", userID, editWindow, editMax) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	text, err := validateEntryText(req.Entry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.store.Update(ctx, userID, id, text); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DeleteEntry handles DELETE /api/journal-entries/{id}.
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireAuth(w, r)
	if !ok {
		return
	}
	if !h.checkRate(w, r, "delete", userID, editWindow, editMax) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.store.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
