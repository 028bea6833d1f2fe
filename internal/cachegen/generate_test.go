// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cachegen

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/paperchat/internal/paper"
	"github.com/pdiddy/paperchat/pkg/types"
)

// scriptedBackend answers every call with a fixed reply, optionally
// failing calls whose prompt contains failOn.
type scriptedBackend struct {
	reply  string
	failOn string
	calls  int
}

func (s *scriptedBackend) Generate(_ context.Context, prompt, _ string, _ float64, _ int) (string, error) {
	s.calls++
	if s.failOn != "" && strings.Contains(prompt, s.failOn) {
		return "", errors.New("backend unavailable")
	}
	return s.reply, nil
}

func (s *scriptedBackend) Chat(_ context.Context, messages []types.Message, _ string, _ float64) (string, error) {
	s.calls++
	if s.failOn != "" {
		for _, m := range messages {
			if strings.Contains(m.Content, s.failOn) {
				return "", errors.New("backend unavailable")
			}
		}
	}
	return s.reply, nil
}

func TestChatKey(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{
			question: "What is the main contribution of this work?",
			want:     "chat_what_is_the_main_contribution_of_this_work",
		},
		{
			question: "What are the key innovations?",
			want:     "chat_what_are_the_key_innovations",
		},
		{
			question: "Already lowercase no punctuation",
			want:     "chat_already_lowercase_no_punctuation",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChatKey(tt.question))
	}
}

func TestGenerate_ProducesFullKeySet(t *testing.T) {
	sections := []paper.Section{
		{Name: "abstract", Text: "the abstract"},
		{Name: "methods", Text: "the methods"},
	}
	backend := &scriptedBackend{reply: "generated answer"}
	var out bytes.Buffer

	responses, summary := Generate(context.Background(), backend, sections, "full text", "Attention Is All You Need", &out)

	wantKeys := []string{
		"explain_abstract_math", "explain_abstract_code", "explain_abstract_concept",
		"explain_methods_math", "explain_methods_code", "explain_methods_concept",
		"quiz_abstract", "quiz_methods", "quiz_general",
		"chat_what_is_the_main_contribution_of_this_work",
		"chat_what_are_the_key_innovations",
		"chat_what_are_the_limitations_of_this_approach",
		"chat_how_does_this_compare_to_previous_work",
		"chat_what_are_the_practical_applications",
		"chat_general",
	}
	for _, k := range wantKeys {
		assert.Contains(t, responses, k, "missing key %s", k)
	}
	assert.Len(t, responses, len(wantKeys))

	assert.Equal(t, len(wantKeys), summary.Generated)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, summary.HasFailures())

	assert.Contains(t, responses["chat_general"], "Attention Is All You Need")
	assert.Contains(t, out.String(), "generated: quiz_general")
	assert.Contains(t, out.String(), "Cache summary:")
}

func TestGenerate_PartialFailureKeepsGoing(t *testing.T) {
	sections := []paper.Section{{Name: "abstract", Text: "the abstract"}}
	backend := &scriptedBackend{reply: "ok", failOn: "abstract"}
	var out bytes.Buffer

	responses, summary := Generate(context.Background(), backend, sections, "full text", "", &out)

	// All section-scoped entries fail; quiz_general, chat answers, and
	// chat_general still land.
	assert.True(t, summary.HasFailures())
	assert.Equal(t, 4, summary.Failed)
	assert.Contains(t, responses, "quiz_general")
	assert.Contains(t, responses, "chat_general")
	assert.NotContains(t, responses, "explain_abstract_concept")
	assert.Contains(t, out.String(), "failed:    explain_abstract_math")
}

func TestGenerate_GeneralChatFallbackWithoutTitle(t *testing.T) {
	backend := &scriptedBackend{reply: "ok"}
	responses, _ := Generate(context.Background(), backend, nil, "text", "", &bytes.Buffer{})

	assert.Contains(t, responses["chat_general"], "this paper")
}
