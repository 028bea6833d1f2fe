// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cachegen pre-computes demo-mode responses for a paper. It runs
// every responder over every recognized section plus a set of common chat
// questions, producing the flat key-to-response map the cache store
// serves.
package cachegen

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paperchat/internal/agent"
	"github.com/pdiddy/paperchat/internal/paper"
	"github.com/pdiddy/paperchat/pkg/types"
)

// commonQuestions are the chat questions pre-answered for every paper.
// Their cache keys are derived with ChatKey.
var commonQuestions = []string{
	"What is the main contribution of this work?",
	"What are the key innovations?",
	"What are the limitations of this approach?",
	"How does this compare to previous work?",
	"What are the practical applications?",
}

// explainAgents are the responder variants generated per section.
var explainAgents = []types.AgentType{types.AgentMath, types.AgentCode, types.AgentConcept}

// Summary reports the outcome of a generation run.
type Summary struct {
	Generated int
	Failed    int
}

// Total returns the number of cache entries attempted.
func (s Summary) Total() int {
	return s.Generated + s.Failed
}

// HasFailures reports whether any entries failed to generate.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// ChatKey derives the cache key for a chat question: lowercase, spaces
// become underscores, question marks are dropped. Lookup-side matching
// reverses this, so both sides must agree on the derivation.
func ChatKey(question string) string {
	key := strings.ToLower(question)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "?", "")
	return "chat_" + key
}

// Generate builds the full response map for one paper. Individual entry
// failures are logged to w and counted; they do not abort the run, so a
// flaky backend still yields a usable partial cache.
func Generate(ctx context.Context, b agent.Backend, sections []paper.Section, fullText, title string, w io.Writer) (map[string]string, Summary) {
	responses := make(map[string]string)
	var summary Summary

	add := func(key, resp string, err error) {
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", key, err)
			summary.Failed++
			return
		}
		responses[key] = resp
		fmt.Fprintf(w, "generated: %s\n", key)
		summary.Generated++
	}

	for _, sec := range sections {
		query := fmt.Sprintf("Explain the %s section of this paper", sec.Name)
		for _, agentType := range explainAgents {
			key := fmt.Sprintf("explain_%s_%s", sec.Name, agentType)
			resp, err := agent.Respond(ctx, b, agentType, query, sec.Text, sec.Name)
			add(key, resp, err)
		}

		resp, err := agent.Respond(ctx, b, types.AgentQuiz, "", sec.Text, sec.Name)
		add("quiz_"+sec.Name, resp, err)
	}

	resp, err := agent.Respond(ctx, b, types.AgentQuiz, "", fullText, "")
	add("quiz_general", resp, err)

	for _, question := range commonQuestions {
		resp, err := agent.Chat(ctx, b, question, fullText, nil, "")
		add(ChatKey(question), resp, err)
	}

	responses["chat_general"] = generalChatResponse(title)
	fmt.Fprintf(w, "generated: chat_general\n")
	summary.Generated++

	fmt.Fprintf(w, "\nCache summary: %d generated, %d failed (total: %d)\n",
		summary.Generated, summary.Failed, summary.Total())

	return responses, summary
}

// generalChatResponse is the fallback served when no cached chat answer
// matches the user's question.
func generalChatResponse(title string) string {
	name := title
	if name == "" {
		name = "this paper"
	}
	return fmt.Sprintf("I have pre-computed answers about %s covering its main contribution, "+
		"key innovations, limitations, comparison to previous work, and practical applications. "+
		"Ask about one of those, or switch to live mode for free-form discussion.", name)
}
