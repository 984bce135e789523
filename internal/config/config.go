package config

import (
	"os"
	"strings"
)

// DefaultModel is used when OPENROUTER_MODEL is not set.
const DefaultModel = "mistralai/mistral-7b-instruct"

type Config struct {
	MongoURI    string
	MongoDBName string
	RedisURI    string // optional; empty disables the Redis window limiter (fail open)

	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string // may arrive with literal \n sequences from the env

	OpenRouterAPIKey string
	OpenRouterModel  string

	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_ORIGIN
	Environment    string   // ENV: production, development, etc.
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS: ALLOWED_ORIGINS takes priority, FRONTEND_ORIGIN as single fallback
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		if u := strings.TrimSpace(getEnv("FRONTEND_ORIGIN", "")); u != "" {
			allowedOrigins = append(allowedOrigins, u)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	// Vercel-style env vars often carry the private key with escaped newlines
	privateKey := getEnv("FIREBASE_PRIVATE_KEY", "")
	if strings.Contains(privateKey, `\n`) {
		privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")
	}

	return &Config{
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017")),
		MongoDBName:         getEnv("MONGODB_DB_NAME", "homi"),
		RedisURI:            getEnv("REDIS_URI", ""),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail: getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKey:  privateKey,
		OpenRouterAPIKey:    getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:     getEnv("OPENROUTER_MODEL", DefaultModel),
		Port:                getEnv("PORT", "8080"),
		FrontendURL:         getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		AllowedOrigins:      allowedOrigins,
		Environment:         env,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
