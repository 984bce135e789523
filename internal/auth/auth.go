// Package auth verifies Firebase ID tokens with the Firebase Admin SDK.
package auth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/homi-app/homi-backend/internal/apperrors"
	"github.com/homi-app/homi-backend/internal/config"
)

// Verifier validates bearer ID tokens against Firebase and resolves the
// stable user id. The Admin client is initialized lazily at most once per
// process; an initialization failure surfaces as a verification failure and
// is retried on the next call instead of crashing the process.
type Verifier struct {
	mu     sync.Mutex
	cfg    *config.Config
	client *fbauth.Client
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify checks the ID token and returns the Firebase UID. Every failure
// mode (missing token, bad signature, expired, provider unreachable) maps to
// the same ErrUnauthenticated so callers leak nothing about the reason.
func (v *Verifier) Verify(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", apperrors.ErrUnauthenticated
	}

	client, err := v.authClient(ctx)
	if err != nil {
		return "", apperrors.ErrUnauthenticated
	}

	token, err := client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", apperrors.ErrUnauthenticated
	}
	return token.UID, nil
}

func (v *Verifier) authClient(ctx context.Context) (*fbauth.Client, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.client != nil {
		return v.client, nil
	}

	var opts []option.ClientOption
	if v.cfg.FirebaseProjectID != "" && v.cfg.FirebaseClientEmail != "" && v.cfg.FirebasePrivateKey != "" {
		creds, err := serviceAccountJSON(v.cfg.FirebaseProjectID, v.cfg.FirebaseClientEmail, v.cfg.FirebasePrivateKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}
	// Without explicit credentials the SDK falls back to
	// GOOGLE_APPLICATION_CREDENTIALS / application default credentials.

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: v.cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	v.client = client
	return client, nil
}

// serviceAccountJSON assembles the credential document the SDK expects from
// the three env-provided fields.
func serviceAccountJSON(projectID, clientEmail, privateKey string) ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  privateKey,
	})
}

// BearerToken extracts the token from an Authorization header value.
// Returns "" when the header is missing or not a Bearer credential.
func BearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
