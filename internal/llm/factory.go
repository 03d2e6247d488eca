package llm

import (
	"fmt"
)

// DefaultOllamaHost is used when no base URL is configured for Ollama.
const DefaultOllamaHost = "http://localhost:11434"

// Options selects and configures a provider.
type Options struct {
	Type       string // "google", "openai", "ollama"
	Model      string
	ImageModel string
	APIKey     string
	BaseURL    string
}

// NewProvider creates a new provider based on the given options.
// A missing credential yields ErrNoAPIKey; callers that want to keep
// running can fall back to NewUnconfigured.
func NewProvider(opts Options) (Provider, error) {
	switch opts.Type {
	case "google":
		if opts.APIKey == "" && opts.BaseURL == "" {
			return nil, fmt.Errorf("google: %w", ErrNoAPIKey)
		}
		return NewGoogleProvider(opts.APIKey, opts.Model, opts.ImageModel, opts.BaseURL), nil

	case "openai":
		if opts.APIKey == "" && opts.BaseURL == "" {
			return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
		}
		return NewOpenAIProvider(opts.APIKey, opts.Model, opts.ImageModel, opts.BaseURL), nil

	case "ollama":
		host := opts.BaseURL
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, opts.Model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Type)
	}
}
