// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation with the assistant.
type Message struct {
	// Role is who produced the turn: user or assistant.
	Role Role `json:"role" yaml:"role"`

	// Content is the turn text.
	Content string `json:"content" yaml:"content"`
}
