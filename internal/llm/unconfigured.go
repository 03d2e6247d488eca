package llm

import (
	"context"
	"fmt"
)

// Unconfigured stands in for a provider whose credential is missing so the
// service can start and report the problem per request instead of crashing.
type Unconfigured struct {
	name string
}

// NewUnconfigured returns a provider that fails every call with ErrNoAPIKey.
func NewUnconfigured(name string) *Unconfigured {
	return &Unconfigured{name: name}
}

func (u *Unconfigured) Name() string { return u.name }

func (u *Unconfigured) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return nil, fmt.Errorf("%s: %w", u.name, ErrNoAPIKey)
}

func (u *Unconfigured) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	return nil, fmt.Errorf("%s: %w", u.name, ErrNoAPIKey)
}
