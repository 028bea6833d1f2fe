// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent holds the prompt-specialized responders. All responders
// share one Backend; what differs between them is the system instruction,
// the user prompt shape, and the sampling parameters.
package agent

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paperchat/pkg/types"
)

// Backend is the AI surface the responders need. *gemini.Client satisfies
// it; tests substitute fakes.
type Backend interface {
	Generate(ctx context.Context, prompt, system string, temperature float64, maxTokens int) (string, error)
	Chat(ctx context.Context, messages []types.Message, system string, temperature float64) (string, error)
}

const (
	// contentLimit bounds paper content in single-shot prompts.
	contentLimit = 4000
	// chatContentLimit bounds paper content seeded into chat context.
	// Chat carries history as well, so the budget is tighter.
	chatContentLimit = 3000

	chatTemperature = 0.7
)

// profile is one responder's configuration.
type profile struct {
	instructions string
	prompt       *template.Template
	temperature  float64
	maxTokens    int
}

type promptData struct {
	Query   string
	Content string
	Section string
}

var explainPrompt = template.Must(template.New("explain").Parse(
	`{{if .Section}}The student is asking about the {{.Section}} section of the paper.

{{end}}Paper content:
{{.Content}}

Student's question: {{.Query}}`))

var quizPrompt = template.Must(template.New("quiz").Parse(
	`{{if .Section}}Create the quiz from the {{.Section}} section of the paper.

{{end}}Paper content:
{{.Content}}

{{if .Query}}Student's request: {{.Query}}{{else}}Create a quiz covering this material.{{end}}`))

var profiles = map[types.AgentType]profile{
	types.AgentMath: {
		instructions: mathInstructions,
		prompt:       explainPrompt,
		temperature:  0.7,
		maxTokens:    2048,
	},
	types.AgentCode: {
		instructions: codeInstructions,
		prompt:       explainPrompt,
		temperature:  0.7,
		maxTokens:    2048,
	},
	types.AgentConcept: {
		instructions: conceptInstructions,
		prompt:       explainPrompt,
		temperature:  0.7,
		maxTokens:    2048,
	},
	types.AgentQuiz: {
		instructions: quizInstructions,
		prompt:       quizPrompt,
		temperature:  0.8,
		maxTokens:    3000,
	},
	types.AgentChat: {
		instructions: chatInstructions,
		temperature:  chatTemperature,
		maxTokens:    2048,
	},
}

// Respond runs a single-shot query through the named responder. section
// may be empty when the query covers the whole paper.
func Respond(ctx context.Context, b Backend, agentType types.AgentType, query, content, section string) (string, error) {
	p, ok := profiles[agentType]
	if !ok || p.prompt == nil {
		return "", fmt.Errorf("unknown agent type %q", agentType)
	}

	var prompt strings.Builder
	err := p.prompt.Execute(&prompt, promptData{
		Query:   query,
		Content: truncate(content, contentLimit),
		Section: section,
	})
	if err != nil {
		return "", fmt.Errorf("building %s prompt: %w", agentType, err)
	}

	return b.Generate(ctx, prompt.String(), p.instructions, p.temperature, p.maxTokens)
}

// Chat runs a conversational query. The paper content is seeded as a
// synthetic opening exchange so it rides in the dialogue without being
// repeated on every turn, then the prior history and the new query follow.
func Chat(ctx context.Context, b Backend, query, content string, history []types.Message, section string) (string, error) {
	seed := "Here is the content of a research paper I want to discuss"
	if section != "" {
		seed += " (the " + section + " section)"
	}
	seed += ":\n\n" + truncate(content, chatContentLimit)

	messages := make([]types.Message, 0, len(history)+3)
	messages = append(messages,
		types.Message{Role: types.RoleUser, Content: seed},
		types.Message{Role: types.RoleAssistant, Content: "I've read the paper content. What would you like to discuss?"},
	)
	messages = append(messages, history...)
	messages = append(messages, types.Message{Role: types.RoleUser, Content: query})

	return b.Chat(ctx, messages, chatInstructions, chatTemperature)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
