package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/homi-app/homi-backend/internal/auth"
	"github.com/homi-app/homi-backend/internal/config"
	"github.com/homi-app/homi-backend/internal/database"
	"github.com/homi-app/homi-backend/internal/handlers"
	"github.com/homi-app/homi-backend/internal/middleware"
	"github.com/homi-app/homi-backend/internal/ratelimit"
	"github.com/homi-app/homi-backend/internal/routes"
	"github.com/homi-app/homi-backend/internal/services"
	"github.com/homi-app/homi-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.OpenRouterAPIKey == "" {
		log.Println("⚠️  WARNING: OPENROUTER_API_KEY not set. AI reflections will fail upstream.")
	}
	if cfg.FirebaseProjectID == "" {
		log.Println("⚠️  WARNING: FIREBASE_PROJECT_ID not set. Token verification will use application default credentials.")
	}

	// Mongo connects lazily on first use; warm it up here so a misconfigured
	// URI shows up in the logs at startup instead of on the first request.
	database.Configure(cfg.MongoURI, cfg.MongoDBName)
	warmCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := database.Mongo(warmCtx); err != nil {
		log.Printf("⚠️  WARNING: MongoDB not reachable yet: %v", err)
		log.Println("   Entry routes will return 500 until the store comes up.")
	}
	cancel()
	defer database.Disconnect()

	// Redis is optional: without it the window limiter fails open.
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("⚠️  WARNING: Failed to connect to Redis: %v", err)
			log.Println("   Rate limiting is disabled (fail open).")
		}
		defer database.DisconnectRedis()
	} else {
		log.Println("REDIS_URI not set; rate limiting is disabled (fail open)")
	}

	verifier := auth.NewVerifier(cfg)
	limiter := ratelimit.New(database.RedisClient)
	entries := store.NewEntryStore()
	reflector := services.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)

	handler := handlers.NewJournalHandler(verifier, limiter, entries, reflector)

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PerIPRateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"homi-backend"}`))
	})

	// Setup routes
	routes.SetupRoutes(r, handler)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/ai-journal")
	log.Println("  GET    /api/journal-entries")
	log.Println("  PATCH  /api/journal-entries/{id}")
	log.Println("  DELETE /api/journal-entries/{id}")

	log.Printf("🚀 Homi backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
