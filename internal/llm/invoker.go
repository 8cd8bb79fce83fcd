// Package llm sends a prompt to a generative model and returns its raw reply.
//
// Each adapter makes exactly one request per call. Provider errors are
// classified into internal/apierr sentinels; nothing is retried.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Invoker sends one prompt to a model and returns the raw text reply.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Settings select a provider endpoint.
type Settings struct {
	Provider Provider
	APIKey   string
	Model    string

	// BaseURL overrides the OpenAI-compatible endpoint.
	// Ignored for Gemini.
	BaseURL string
}

// New creates the Invoker for s.Provider (Gemini when zero).
// An empty API key fails with ErrCredentialsMissing before any client is built.
func New(ctx context.Context, s Settings) (Invoker, error) {
	p := s.Provider.OrDefault()
	if s.APIKey == "" {
		return nil, fmt.Errorf("%s (set %s): %w", p, p.EnvKey(), ErrCredentialsMissing)
	}
	model := s.Model
	if model == "" {
		model = p.DefaultModel()
	}

	switch p {
	case OpenAIProvider:
		cfg := openai.DefaultConfig(s.APIKey)
		if s.BaseURL != "" {
			cfg.BaseURL = s.BaseURL
		}
		return NewOpenAIInvoker(openai.NewClientWithConfig(cfg), model), nil
	case DeepSeekProvider:
		cfg := openai.DefaultConfig(s.APIKey)
		cfg.BaseURL = deepSeekBaseURL
		if s.BaseURL != "" {
			cfg.BaseURL = s.BaseURL
		}
		return NewDeepSeekInvoker(openai.NewClientWithConfig(cfg), model), nil
	}
	return NewGeminiInvoker(ctx, s.APIKey, WithGeminiModel(model))
}
