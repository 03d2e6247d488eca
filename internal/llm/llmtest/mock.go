// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ziadkadry99/lucky-universe/internal/llm"
)

// Step is one scripted answer. Exactly one of Text, Image or Err is used.
type Step struct {
	Text  string
	Image *llm.ImageResponse
	Err   error
}

// Provider replays scripted steps in order. Once the script is exhausted
// the last step repeats.
type Provider struct {
	mu          sync.Mutex
	name        string
	completions []Step
	images      []Step
	Calls       []llm.CompletionRequest
	ImageCalls  []llm.ImageRequest
}

// New creates a provider named "mock".
func New() *Provider {
	return &Provider{name: "mock"}
}

// OnComplete appends steps returned by Complete.
func (p *Provider) OnComplete(steps ...Step) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completions = append(p.completions, steps...)
	return p
}

// OnImage appends steps returned by GenerateImage.
func (p *Provider) OnImage(steps ...Step) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images = append(p.images, steps...)
	return p
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	step := next(p.completions, len(p.Calls))
	p.Calls = append(p.Calls, req)
	if step.Err != nil {
		return nil, step.Err
	}
	return &llm.CompletionResponse{
		Content:      step.Text,
		InputTokens:  llm.EstimateTokens(lastContent(req)),
		OutputTokens: llm.EstimateTokens(step.Text),
		Model:        "mock-model",
		FinishReason: "stop",
	}, nil
}

func (p *Provider) GenerateImage(ctx context.Context, req llm.ImageRequest) (*llm.ImageResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	step := next(p.images, len(p.ImageCalls))
	p.ImageCalls = append(p.ImageCalls, req)
	if step.Err != nil {
		return nil, step.Err
	}
	if step.Image == nil {
		return nil, llm.ErrEmptyResponse
	}
	return step.Image, nil
}

// CompleteCount returns how many times Complete was called.
func (p *Provider) CompleteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

// ImageCount returns how many times GenerateImage was called.
func (p *Provider) ImageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ImageCalls)
}

func next(steps []Step, i int) Step {
	if len(steps) == 0 {
		return Step{Err: llm.ErrEmptyResponse}
	}
	if i >= len(steps) {
		i = len(steps) - 1
	}
	return steps[i]
}

func lastContent(req llm.CompletionRequest) string {
	if len(req.Messages) == 0 {
		return ""
	}
	return req.Messages[len(req.Messages)-1].Content
}

// RateLimited is a 429 as the Google provider reports it.
func RateLimited() error {
	return &llm.StatusError{Provider: "mock", StatusCode: 429, Message: "RESOURCE_EXHAUSTED"}
}

// Unavailable is a 503 as the Google provider reports it.
func Unavailable() error {
	return &llm.StatusError{Provider: "mock", StatusCode: 503, Message: "UNAVAILABLE"}
}
