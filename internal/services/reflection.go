package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/homi-app/homi-backend/internal/apperrors"
	"github.com/homi-app/homi-backend/internal/models"
)

const (
	// DefaultBaseURL is the OpenRouter chat-completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	reflectionTemperature = 0.7
	reflectionMaxTokens   = 400
	upstreamTimeout       = 30 * time.Second
)

const systemPromptBase = `You are Homi, a gentle journaling companion. Respond with warmth, validation, and reflective questions.
Avoid medical advice or diagnostics. Encourage self-care and next steps.
Keep responses concise (4-7 sentences), empathetic, and non-judgmental.`

// OpenRouterClient calls the chat-completion service and turns a journal
// entry into a reflection plus follow-up questions.
type OpenRouterClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenRouterClient(apiKey, model string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: upstreamTimeout},
	}
}

// WithBaseURL overrides the upstream endpoint (tests).
func (c *OpenRouterClient) WithBaseURL(baseURL string) *OpenRouterClient {
	c.baseURL = baseURL
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func buildSystemPrompt(tone string) string {
	if tone == "" {
		return systemPromptBase
	}
	return systemPromptBase + "\nPreferred tone: " + tone + "."
}

func buildUserPrompt(entry string) string {
	return fmt.Sprintf("Journal entry:\n\n%s\n\nTask: 1) Provide an empathetic reflection. 2) Then propose 2-3 short reflective questions labeled as Q1:, Q2:, Q3:. Keep it safe and supportive.", entry)
}

// Reflect sends the entry upstream and parses the result. The raw assistant
// text is returned verbatim as Content (Q-lines included) while Questions is
// derived independently from the same text. A missing or malformed content
// field is treated as an empty reflection, not an error; a non-success
// status comes back as *apperrors.UpstreamError with the upstream body.
func (c *OpenRouterClient) Reflect(ctx context.Context, entry, tone string) (*models.AIResult, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(tone)},
			{Role: "user", Content: buildUserPrompt(entry)},
		},
		Temperature: reflectionTemperature,
		MaxTokens:   reflectionMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.UpstreamError{Status: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &apperrors.UpstreamError{Status: resp.StatusCode, Body: string(errBody)}
	}

	var data chatResponse
	fullText := ""
	if err := json.NewDecoder(resp.Body).Decode(&data); err == nil && len(data.Choices) > 0 {
		fullText = data.Choices[0].Message.Content
	}

	return &models.AIResult{
		Content:   fullText,
		Questions: ExtractQuestions(fullText),
	}, nil
}
