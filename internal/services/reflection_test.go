package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homi-app/homi-backend/internal/apperrors"
)

func upstreamReturning(t *testing.T, status int, body string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestReflectParsesContentAndQuestions(t *testing.T) {
	text := "You're doing your best.\nQ1: What made it hard?\nQ2: What would help tomorrow?"
	var sent chatRequest
	srv := upstreamReturning(t, http.StatusOK, completionBody(text), &sent)
	defer srv.Close()

	client := NewOpenRouterClient("test-key", "mistralai/mistral-7b-instruct").WithBaseURL(srv.URL)
	result, err := client.Reflect(context.Background(), "Today was hard.", "")
	require.NoError(t, err)

	// Content keeps the Q-lines verbatim; questions are derived separately.
	assert.Equal(t, text, result.Content)
	assert.Equal(t, []string{"What made it hard?", "What would help tomorrow?"}, result.Questions)

	assert.Equal(t, "mistralai/mistral-7b-instruct", sent.Model)
	assert.InDelta(t, 0.7, sent.Temperature, 0.001)
	assert.Equal(t, 400, sent.MaxTokens)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, "system", sent.Messages[0].Role)
	assert.Contains(t, sent.Messages[0].Content, "gentle journaling companion")
	assert.Equal(t, "user", sent.Messages[1].Role)
	assert.Contains(t, sent.Messages[1].Content, "Today was hard.")
	assert.Contains(t, sent.Messages[1].Content, "Q1:, Q2:, Q3:")
}

func TestReflectAppendsToneHint(t *testing.T) {
	var sent chatRequest
	srv := upstreamReturning(t, http.StatusOK, completionBody("ok"), &sent)
	defer srv.Close()

	client := NewOpenRouterClient("test-key", "m").WithBaseURL(srv.URL)
	_, err := client.Reflect(context.Background(), "entry", "playful")
	require.NoError(t, err)
	assert.Contains(t, sent.Messages[0].Content, "Preferred tone: playful.")

	_, err = client.Reflect(context.Background(), "entry", "")
	require.NoError(t, err)
	assert.NotContains(t, sent.Messages[0].Content, "Preferred tone")
}

func TestReflectUpstreamErrorCarriesStatusAndBody(t *testing.T) {
	srv := upstreamReturning(t, http.StatusServiceUnavailable, "model overloaded", nil)
	defer srv.Close()

	client := NewOpenRouterClient("test-key", "m").WithBaseURL(srv.URL)
	_, err := client.Reflect(context.Background(), "entry", "")

	var upstreamErr *apperrors.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.Status)
	assert.Equal(t, "model overloaded", upstreamErr.Body)
}

func TestReflectNetworkFailureIsUpstreamError(t *testing.T) {
	srv := upstreamReturning(t, http.StatusOK, "", nil)
	srv.Close() // connection refused from here on

	client := NewOpenRouterClient("test-key", "m").WithBaseURL(srv.URL)
	_, err := client.Reflect(context.Background(), "entry", "")

	var upstreamErr *apperrors.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
}

func TestReflectMalformedContentBecomesEmptyResult(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Empty Choices", `{"choices":[]}`},
		{"No Choices Field", `{}`},
		{"Not JSON", `<html>gateway</html>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := upstreamReturning(t, http.StatusOK, tc.body, nil)
			defer srv.Close()

			client := NewOpenRouterClient("test-key", "m").WithBaseURL(srv.URL)
			result, err := client.Reflect(context.Background(), "entry", "")
			require.NoError(t, err)
			assert.Equal(t, "", result.Content)
			assert.Empty(t, result.Questions)
		})
	}
}
