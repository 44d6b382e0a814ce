// Package llm bridges the pipeline with the external generative service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request is the normalized input for one bounded completion.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Client produces a single completion for a composed prompt.
// Failures propagate to the caller unmodified; there is no retry.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config controls client construction.
type Config struct {
	Mode        string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewClient picks a backend by mode. "auto" uses OpenAI when an API key is
// configured and falls back to the mock otherwise, so the service stays
// usable in local development without credentials.
func NewClient(cfg Config) (Client, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIClient(cfg), nil
		}
		return NewMockClient(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("an API key is required for openai mode")
		}
		return NewOpenAIClient(cfg), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported llm mode %q", cfg.Mode)
	}
}
