package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/veritas/config"
	openai_provider "github.com/mohammad-safakhou/veritas/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Message is one role-tagged block of a generation request.
type Message = openai_provider.Message

// Options carries per-call sampling parameters.
type Options = openai_provider.Options

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(client Client, cfg config.LLMConfig) (Provider, error) {
	switch client {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("llm.api_key not set")
		}
		return openai_provider.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
