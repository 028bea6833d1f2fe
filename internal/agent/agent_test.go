// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperchat/pkg/types"
)

// captureBackend records the last call so tests can inspect prompts and
// sampling parameters.
type captureBackend struct {
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	messages    []types.Message
	reply       string
}

func (c *captureBackend) Generate(_ context.Context, prompt, system string, temperature float64, maxTokens int) (string, error) {
	c.prompt = prompt
	c.system = system
	c.temperature = temperature
	c.maxTokens = maxTokens
	return c.reply, nil
}

func (c *captureBackend) Chat(_ context.Context, messages []types.Message, system string, temperature float64) (string, error) {
	c.messages = messages
	c.system = system
	c.temperature = temperature
	return c.reply, nil
}

func TestRespond_ExplainAgents(t *testing.T) {
	tests := []struct {
		agent       types.AgentType
		wantSysWord string
	}{
		{types.AgentMath, "mathematics tutor"},
		{types.AgentCode, "programming mentor"},
		{types.AgentConcept, "patient teacher"},
	}

	for _, tt := range tests {
		t.Run(string(tt.agent), func(t *testing.T) {
			b := &captureBackend{reply: "explanation"}
			resp, err := Respond(context.Background(), b, tt.agent, "Explain this", "paper body", "methods")
			require.NoError(t, err)
			assert.Equal(t, "explanation", resp)

			assert.Contains(t, b.system, tt.wantSysWord)
			assert.Contains(t, b.prompt, "the methods section")
			assert.Contains(t, b.prompt, "paper body")
			assert.Contains(t, b.prompt, "Explain this")
			assert.Equal(t, 0.7, b.temperature)
			assert.Equal(t, 2048, b.maxTokens)
		})
	}
}

func TestRespond_QuizUsesQuizParameters(t *testing.T) {
	b := &captureBackend{reply: "1. ..."}
	_, err := Respond(context.Background(), b, types.AgentQuiz, "", "paper body", "")
	require.NoError(t, err)

	assert.Contains(t, b.system, "exactly 5 questions")
	assert.Contains(t, b.prompt, "Create a quiz covering this material.")
	assert.Equal(t, 0.8, b.temperature)
	assert.Equal(t, 3000, b.maxTokens)
}

func TestRespond_TruncatesContent(t *testing.T) {
	b := &captureBackend{reply: "ok"}
	content := strings.Repeat("x", contentLimit+500)
	_, err := Respond(context.Background(), b, types.AgentConcept, "q", content, "")
	require.NoError(t, err)

	assert.NotContains(t, b.prompt, strings.Repeat("x", contentLimit+1))
	assert.Contains(t, b.prompt, strings.Repeat("x", contentLimit))
}

func TestRespond_UnknownAgent(t *testing.T) {
	b := &captureBackend{}
	_, err := Respond(context.Background(), b, types.AgentType("poetry"), "q", "c", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent")
}

func TestRespond_ChatAgentHasNoSingleShotPrompt(t *testing.T) {
	b := &captureBackend{}
	_, err := Respond(context.Background(), b, types.AgentChat, "q", "c", "")
	require.Error(t, err)
}

func TestChat_SeedsContentThenHistoryThenQuery(t *testing.T) {
	b := &captureBackend{reply: "answer"}
	history := []types.Message{
		{Role: types.RoleUser, Content: "earlier question"},
		{Role: types.RoleAssistant, Content: "earlier answer"},
	}

	resp, err := Chat(context.Background(), b, "new question", "paper body", history, "")
	require.NoError(t, err)
	assert.Equal(t, "answer", resp)

	require.Len(t, b.messages, 5)
	assert.Equal(t, types.RoleUser, b.messages[0].Role)
	assert.Contains(t, b.messages[0].Content, "paper body")
	assert.Equal(t, types.RoleAssistant, b.messages[1].Role)
	assert.Equal(t, "earlier question", b.messages[2].Content)
	assert.Equal(t, "earlier answer", b.messages[3].Content)
	assert.Equal(t, "new question", b.messages[4].Content)
	assert.Equal(t, types.RoleUser, b.messages[4].Role)

	assert.Equal(t, chatTemperature, b.temperature)
	assert.Contains(t, b.system, "research assistant")
}

func TestChat_SectionMentionedInSeed(t *testing.T) {
	b := &captureBackend{reply: "answer"}
	_, err := Chat(context.Background(), b, "q", "body", nil, "results")
	require.NoError(t, err)

	assert.Contains(t, b.messages[0].Content, "the results section")
}

func TestChat_TruncatesSeededContent(t *testing.T) {
	b := &captureBackend{reply: "answer"}
	content := strings.Repeat("y", chatContentLimit+500)
	_, err := Chat(context.Background(), b, "q", content, nil, "")
	require.NoError(t, err)

	assert.NotContains(t, b.messages[0].Content, strings.Repeat("y", chatContentLimit+1))
}
