// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperchat/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds settings for the generative AI backend.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the demo-mode response cache.
type CacheConfig struct {
	// CacheDir is the directory holding one JSON file per cached paper
	// (e.g. "data/cached_responses").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// FetchConfig holds settings for the paper download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PapersDir is the directory for downloaded PDFs and metadata
	// (e.g. "data/papers").
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`
}
