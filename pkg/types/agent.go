// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AgentType identifies one of the prompt-specialized responders.
type AgentType string

const (
	AgentMath    AgentType = "math"
	AgentCode    AgentType = "code"
	AgentConcept AgentType = "concept"
	AgentQuiz    AgentType = "quiz"
	AgentChat    AgentType = "chat"
)

// Mode selects how queries are served: from the pre-computed cache (demo)
// or by calling the live AI backend.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// QueryTypeExplain is the default query type for one-shot questions. It
// carries no routing override: the router classifies the query itself.
const QueryTypeExplain = "explain"

// RoutingDecision is the outcome of classifying a query.
type RoutingDecision struct {
	// Agent is the responder selected for the query.
	Agent AgentType `json:"agent"`

	// Reasoning is a short fixed description of why the agent was chosen.
	// It exists for observability, not correctness.
	Reasoning string `json:"reasoning"`
}

// Result is the outcome of serving one query through the mode broker.
type Result struct {
	// Response is the answer text shown to the user.
	Response string `json:"response"`

	// Mode records which serving mode produced the response.
	Mode Mode `json:"mode"`

	// Agent is the responder that produced the response (live mode only).
	Agent AgentType `json:"agent,omitempty"`

	// Reasoning is the routing reasoning (live mode only).
	Reasoning string `json:"reasoning,omitempty"`

	// Cached reports whether the response came from the demo cache.
	Cached bool `json:"cached"`
}
