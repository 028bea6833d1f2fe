// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini is a minimal client for the Google Generative Language API.
// It covers the two calls the responders need: single-shot generation and
// multi-turn chat. Rate limits are retried with backoff; safety and
// recitation blocks are translated into user-facing apology messages so
// callers never have to inspect API error shapes.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/paperchat/internal/httputil"
	"github.com/pdiddy/paperchat/pkg/types"
)

// apiBase is a variable so tests can point the client at an httptest server.
var apiBase = "https://generativelanguage.googleapis.com/v1beta"

const defaultModel = "gemini-2.0-flash"

// ErrMissingAPIKey indicates that no usable Google API key was configured.
// Callers can surface setup guidance instead of failing hard.
var ErrMissingAPIKey = errors.New("google API key not configured")

// Fixed user-facing messages for conditions the API reports but the user
// cannot act on mid-conversation.
const (
	msgSafetyBlocked = "I apologize, but I can't provide a response to that due to content safety policies. Please try rephrasing your question."
	msgRecitation    = "I apologize, but the response was blocked because it reproduced copyrighted material too closely. Please try asking in a different way."
	msgRateLimited   = "I apologize, the service is receiving too many requests right now. Please wait a moment and try again."
	msgServerError   = "I apologize, the AI service is temporarily unavailable. Please try again in a few minutes."
	msgEmptyResponse = "I apologize, but I couldn't generate a response. Please try rephrasing your question."
)

// Client talks to the Gemini generateContent endpoint for a single model.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// NewClient builds a client from config. The API key must be set and must
// not be the config template placeholder.
func NewClient(cfg types.AIConfig) (*Client, error) {
	if cfg.APIKey == "" || cfg.APIKey == "your-api-key-here" {
		return nil, ErrMissingAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Model returns the model name the client was configured with.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SafetySettings    []safetySetting  `json:"safetySettings"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// relaxedSafety disables the categorical filters. Academic papers routinely
// discuss topics (security exploits, medical content) that trip the default
// thresholds; the finishReason check below still catches hard blocks.
var relaxedSafety = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate performs a single-shot completion. The system instruction and the
// prompt are sent separately so the model treats them with the right roles.
func (c *Client) Generate(ctx context.Context, prompt, system string, temperature float64, maxTokens int) (string, error) {
	req := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
		SafetySettings: relaxedSafety,
	}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	return c.call(ctx, req)
}

// Chat performs a multi-turn completion. Assistant turns are mapped to the
// API's "model" role.
func (c *Client) Chat(ctx context.Context, messages []types.Message, system string, temperature float64) (string, error) {
	contents := make([]content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == types.RoleAssistant {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}

	req := generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: 2048,
		},
		SafetySettings: relaxedSafety,
	}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	return c.call(ctx, req)
}

func (c *Client) call(ctx context.Context, reqBody generateRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", apiBase, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, httpReq, c.maxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		// Retries exhausted.
		return msgRateLimited, nil
	case resp.StatusCode >= 500:
		return msgServerError, nil
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if genResp.PromptFeedback.BlockReason != "" {
		return msgSafetyBlocked, nil
	}
	if len(genResp.Candidates) == 0 {
		return msgEmptyResponse, nil
	}

	cand := genResp.Candidates[0]
	switch cand.FinishReason {
	case "SAFETY":
		return msgSafetyBlocked, nil
	case "RECITATION":
		return msgRecitation, nil
	}

	var text string
	for _, p := range cand.Content.Parts {
		text += p.Text
	}
	if text == "" {
		return msgEmptyResponse, nil
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
