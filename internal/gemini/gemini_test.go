// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperchat/internal/httputil"
	"github.com/pdiddy/paperchat/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = old })

	client, err := NewClient(types.AIConfig{Model: "test-model", APIKey: "test-key"})
	require.NoError(t, err)
	return client
}

func textResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.AIConfig
		wantErr error
	}{
		{
			name: "valid config",
			cfg:  types.AIConfig{APIKey: "real-key"},
		},
		{
			name:    "empty key",
			cfg:     types.AIConfig{},
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "placeholder key",
			cfg:     types.AIConfig{APIKey: "your-api-key-here"},
			wantErr: ErrMissingAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultModel, client.Model())
		})
	}
}

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(textResponse("The answer.")))
	})

	text, err := client.Generate(context.Background(), "Explain the method", "You are a tutor", 0.7, 2048)
	require.NoError(t, err)

	assert.Equal(t, "The answer.", text)
	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	assert.Equal(t, "Explain the method", gotReq.Contents[0].Parts[0].Text)
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, "You are a tutor", gotReq.SystemInstruction.Parts[0].Text)
	assert.Equal(t, 0.7, gotReq.GenerationConfig.Temperature)
	assert.Equal(t, 2048, gotReq.GenerationConfig.MaxOutputTokens)

	require.Len(t, gotReq.SafetySettings, 4)
	for _, s := range gotReq.SafetySettings {
		assert.Equal(t, "BLOCK_NONE", s.Threshold)
	}
}

func TestChat_MapsAssistantToModelRole(t *testing.T) {
	var gotReq generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(textResponse("Sure.")))
	})

	messages := []types.Message{
		{Role: types.RoleUser, Content: "Here is the paper."},
		{Role: types.RoleAssistant, Content: "Got it."},
		{Role: types.RoleUser, Content: "What are the limitations?"},
	}
	text, err := client.Chat(context.Background(), messages, "You are a tutor", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Sure.", text)

	require.Len(t, gotReq.Contents, 3)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	assert.Equal(t, "model", gotReq.Contents[1].Role)
	assert.Equal(t, "user", gotReq.Contents[2].Role)
}

func TestGenerate_SafetyBlock(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	})

	text, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.NoError(t, err)
	assert.Equal(t, msgSafetyBlocked, text)
}

func TestGenerate_PromptBlocked(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	text, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.NoError(t, err)
	assert.Equal(t, msgSafetyBlocked, text)
}

func TestGenerate_Recitation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"RECITATION"}]}`))
	})

	text, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.NoError(t, err)
	assert.Equal(t, msgRecitation, text)
}

func TestGenerate_RateLimitExhausted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	client.maxRetries = 1

	text, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.NoError(t, err)
	assert.Equal(t, msgRateLimited, text)
}

func TestGenerate_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	text, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.NoError(t, err)
	assert.Equal(t, msgServerError, text)
}

func TestGenerate_ClientErrorIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid argument"}}`))
	})

	_, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	text, err := client.Generate(context.Background(), "question", "", 0.7, 2048)
	require.NoError(t, err)
	assert.Equal(t, msgEmptyResponse, text)
}
