// Package llm runs outcome predictions against language model providers and
// scores the responses.
package llm

import "context"

// Provider is one language model backend.
type Provider interface {
	// Generate returns the raw model response for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// ModelName identifies the provider and model, e.g. "Anthropic/claude-sonnet-4-5".
	ModelName() string
	// Config describes the provider settings for the run record.
	Config() map[string]any
}
