// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router classifies user queries and selects the responder agent.
// Classification is pattern-first: cheap regex checks handle the clear
// cases, and only ambiguous queries (both math and code signals) fall
// through to a short AI tie-break call.
package router

import (
	"context"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/paperchat/pkg/types"
)

// Generator is the single AI call the router needs for tie-breaks.
type Generator interface {
	Generate(ctx context.Context, prompt, system string, temperature float64, maxTokens int) (string, error)
}

const (
	// contentPreviewLen bounds how much paper content feeds the pattern checks.
	contentPreviewLen = 1000
	// tieBreakPreviewLen bounds the content excerpt sent to the tie-break call.
	tieBreakPreviewLen = 500
)

// Fixed reasoning strings recorded on routing decisions.
const (
	reasonUserSpecified = "user specified"
	reasonQuiz          = "user wants to generate study questions"
	reasonMath          = "content involves mathematics"
	reasonCode          = "content involves code/algorithms"
	reasonConcept       = "content is conceptual"
	reasonDefault       = "default to conceptual explanation"
	reasonTieBreakMath  = "content involves mathematical analysis"
	reasonTieBreakCode  = "content involves algorithms/implementation"
)

// Quiz intent is matched against the query alone, never the content, so
// papers that mention "questions" do not trigger quizzes.
var quizPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bquiz\b`),
	regexp.MustCompile(`(?i)\bquestions?\b`),
	regexp.MustCompile(`(?i)\btest\b`),
	regexp.MustCompile(`(?i)\bstudy\b`),
	regexp.MustCompile(`(?i)\bexam\b`),
}

var mathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bequations?\b`),
	regexp.MustCompile(`(?i)\bformulas?\b`),
	regexp.MustCompile(`(?i)\btheorems?\b`),
	regexp.MustCompile(`(?i)\bproofs?\b`),
	regexp.MustCompile(`(?i)\bderiv\w*`),
	regexp.MustCompile(`(?i)\bintegrals?\b`),
	regexp.MustCompile(`(?i)\bconvergence\b`),
	regexp.MustCompile(`(?i)\bmathematical\b`),
	regexp.MustCompile(`(?i)\bnotation\b`),
	regexp.MustCompile(`\$.*\$`),
	regexp.MustCompile(`\\begin\{equation\}`),
	regexp.MustCompile(`\\frac`),
	regexp.MustCompile(`\\sum`),
}

var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcode\b`),
	regexp.MustCompile(`(?i)\balgorithms?\b`),
	regexp.MustCompile(`(?i)\bimplementations?\b`),
	regexp.MustCompile(`(?i)\bpseudo-?code\b`),
	regexp.MustCompile(`(?i)\bprocedures?\b`),
	regexp.MustCompile(`(?i)\bfunctions?\b`),
	regexp.MustCompile(`(?i)\bclass\b`),
	regexp.MustCompile(`(?i)\bfor loop\b`),
	regexp.MustCompile(`def `),
	regexp.MustCompile(`(?i)\bcomplexity\b`),
}

var tieBreakPrompt = template.Must(template.New("tiebreak").Parse(
	`Classify the following question about a research paper excerpt into exactly one category.

Question: {{.Query}}

Excerpt:
{{.Content}}

Answer with a single word: MATH if the question is primarily about mathematical content, CODE if it is primarily about algorithms or implementation, or CONCEPT otherwise.`))

// Router selects a responder agent for each query.
type Router struct {
	gen Generator
}

// New creates a router that uses gen for ambiguous-query tie-breaks.
// gen may be nil, in which case ambiguity falls back to the concept agent.
func New(gen Generator) *Router {
	return &Router{gen: gen}
}

// Route picks the agent for a query. queryType is the caller's explicit
// agent override; pass types.QueryTypeExplain to let the router classify.
// Quiz intent is checked against the query alone so that papers full of
// the word "question" do not trigger quizzes. Math and code signals are
// checked against the query plus a bounded content preview.
func (r *Router) Route(ctx context.Context, query, content, queryType string) types.RoutingDecision {
	if queryType != "" && queryType != types.QueryTypeExplain {
		return types.RoutingDecision{Agent: types.AgentType(queryType), Reasoning: reasonUserSpecified}
	}

	if matchesAny(quizPatterns, query) {
		return types.RoutingDecision{Agent: types.AgentQuiz, Reasoning: reasonQuiz}
	}

	haystack := query + "\n" + preview(content, contentPreviewLen)
	mathHit := matchesAny(mathPatterns, haystack)
	codeHit := matchesAny(codePatterns, haystack)

	switch {
	case mathHit && codeHit:
		return r.tieBreak(ctx, query, content)
	case mathHit:
		return types.RoutingDecision{Agent: types.AgentMath, Reasoning: reasonMath}
	case codeHit:
		return types.RoutingDecision{Agent: types.AgentCode, Reasoning: reasonCode}
	}

	return types.RoutingDecision{Agent: types.AgentConcept, Reasoning: reasonConcept}
}

// tieBreak asks the AI to pick between math, code, and concept. Any
// failure falls back to the concept agent so routing never errors.
func (r *Router) tieBreak(ctx context.Context, query, content string) types.RoutingDecision {
	if r.gen == nil {
		return types.RoutingDecision{Agent: types.AgentConcept, Reasoning: reasonDefault}
	}

	var b strings.Builder
	err := tieBreakPrompt.Execute(&b, struct {
		Query   string
		Content string
	}{Query: query, Content: preview(content, tieBreakPreviewLen)})
	if err != nil {
		return types.RoutingDecision{Agent: types.AgentConcept, Reasoning: reasonDefault}
	}

	answer, err := r.gen.Generate(ctx, b.String(), "", 0.1, 10)
	if err != nil {
		return types.RoutingDecision{Agent: types.AgentConcept, Reasoning: reasonDefault}
	}

	switch {
	case strings.Contains(strings.ToUpper(answer), "MATH"):
		return types.RoutingDecision{Agent: types.AgentMath, Reasoning: reasonTieBreakMath}
	case strings.Contains(strings.ToUpper(answer), "CODE"):
		return types.RoutingDecision{Agent: types.AgentCode, Reasoning: reasonTieBreakCode}
	}
	return types.RoutingDecision{Agent: types.AgentConcept, Reasoning: reasonDefault}
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
