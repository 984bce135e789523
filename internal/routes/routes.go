package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/homi-app/homi-backend/internal/handlers"
)

// SetupRoutes mounts the journal API on the router. All routes share the
// same verify → rate-limit → validate → execute pipeline inside the handler.
func SetupRoutes(r *chi.Mux, h *handlers.JournalHandler) {
	// AI reflection (write path)
	r.Post("/api/ai-journal", h.CreateReflection)

	// Entry history
	r.Get("/api/journal-entries", h.ListEntries)
	r.Patch("/api/journal-entries/{id}", h.UpdateEntry)
	r.Delete("/api/journal-entries/{id}", h.DeleteEntry)
}
