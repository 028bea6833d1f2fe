// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package broker serves queries in one of two modes. Demo mode answers
// purely from the pre-computed cache and never touches the network. Live
// mode routes each query to a responder agent backed by the AI client.
// The broker is the only place mode is consulted; everything below it is
// mode-unaware.
package broker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pdiddy/paperchat/internal/agent"
	"github.com/pdiddy/paperchat/internal/cache"
	"github.com/pdiddy/paperchat/internal/router"
	"github.com/pdiddy/paperchat/pkg/types"
)

// BackendFactory builds the live AI backend on first use. Keeping
// construction lazy means demo mode works with no credentials at all.
type BackendFactory func() (agent.Backend, error)

// Broker dispatches queries to the cache or the live agent graph.
type Broker struct {
	store   *cache.Store
	factory BackendFactory

	mu      sync.Mutex
	mode    types.Mode
	backend agent.Backend
	router  *router.Router
}

// New creates a broker in the given mode. store may not be nil; factory
// may be nil only if the broker never enters live mode.
func New(mode types.Mode, store *cache.Store, factory BackendFactory) (*Broker, error) {
	if mode != types.ModeDemo && mode != types.ModeLive {
		return nil, fmt.Errorf("unknown mode %q (want %q or %q)", mode, types.ModeDemo, types.ModeLive)
	}
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	return &Broker{mode: mode, store: store, factory: factory}, nil
}

// Mode returns the current serving mode.
func (b *Broker) Mode() types.Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SetMode switches the serving mode. The live backend, once built, is
// kept across switches.
func (b *Broker) SetMode(mode types.Mode) error {
	if mode != types.ModeDemo && mode != types.ModeLive {
		return fmt.Errorf("unknown mode %q (want %q or %q)", mode, types.ModeDemo, types.ModeLive)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
	return nil
}

// ProcessQuery serves one single-shot query. In demo mode the result
// always comes back with a nil error: hits carry the cached response and
// misses carry guidance text. In live mode the query is routed to an
// agent and errors from the backend propagate.
func (b *Broker) ProcessQuery(ctx context.Context, paperID, queryType, section, query, content string) (types.Result, error) {
	if b.Mode() == types.ModeDemo {
		if resp, ok := b.store.Response(paperID, queryType, section, query); ok {
			return types.Result{Response: resp, Mode: types.ModeDemo, Cached: true}, nil
		}
		return types.Result{Response: b.missGuidance(paperID), Mode: types.ModeDemo}, nil
	}

	backend, rtr, guidance, err := b.liveGraph()
	if err != nil {
		return types.Result{}, err
	}
	if guidance != "" {
		return types.Result{Response: guidance, Mode: types.ModeLive}, nil
	}

	decision := rtr.Route(ctx, query, content, queryType)
	resp, err := agent.Respond(ctx, backend, decision.Agent, query, content, section)
	if err != nil {
		return types.Result{}, fmt.Errorf("agent %s: %w", decision.Agent, err)
	}

	return types.Result{
		Response:  resp,
		Mode:      types.ModeLive,
		Agent:     decision.Agent,
		Reasoning: decision.Reasoning,
	}, nil
}

// Chat serves one conversational turn. Demo mode matches the query
// against cached chat keys; live mode always uses the chat agent with
// the prior history threaded through.
func (b *Broker) Chat(ctx context.Context, paperID, query, content string, history []types.Message, section string) (types.Result, error) {
	if b.Mode() == types.ModeDemo {
		if resp, ok := b.store.Response(paperID, "chat", section, query); ok {
			return types.Result{Response: resp, Mode: types.ModeDemo, Cached: true}, nil
		}
		return types.Result{Response: b.missGuidance(paperID), Mode: types.ModeDemo}, nil
	}

	backend, _, guidance, err := b.liveGraph()
	if err != nil {
		return types.Result{}, err
	}
	if guidance != "" {
		return types.Result{Response: guidance, Mode: types.ModeLive}, nil
	}

	resp, err := agent.Chat(ctx, backend, query, content, history, section)
	if err != nil {
		return types.Result{}, fmt.Errorf("chat agent: %w", err)
	}

	return types.Result{Response: resp, Mode: types.ModeLive, Agent: types.AgentChat}, nil
}

// liveGraph builds the backend and router on first use. A factory failure
// (typically a missing API key) is reported as user guidance, not an
// error, so an interactive session keeps going.
func (b *Broker) liveGraph() (agent.Backend, *router.Router, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.backend != nil {
		return b.backend, b.router, "", nil
	}
	if b.factory == nil {
		return nil, nil, credentialGuidance, nil
	}

	backend, err := b.factory()
	if err != nil {
		return nil, nil, credentialGuidance, nil
	}

	b.backend = backend
	b.router = router.New(backend)
	return b.backend, b.router, "", nil
}

const credentialGuidance = "Live mode needs a Google API key. Put your key in .secrets/google-api-key " +
	"(or set PAPERCHAT_AI_API_KEY) and try again, or switch back to demo mode."

// missGuidance tells the user what the demo cache can answer for this
// paper instead of returning an empty miss.
func (b *Broker) missGuidance(paperID string) string {
	keys := b.store.Keys(paperID)
	if len(keys) == 0 {
		return fmt.Sprintf("No cached responses exist for %q. Demo mode only serves pre-computed answers; "+
			"generate a cache for this paper or switch to live mode.", paperID)
	}

	var b2 strings.Builder
	fmt.Fprintf(&b2, "That question isn't in the demo cache for %q. Cached topics include:\n", paperID)
	for _, k := range keys {
		fmt.Fprintf(&b2, "  - %s\n", k)
	}
	b2.WriteString("Try one of those, or switch to live mode for free-form questions.")
	return b2.String()
}
