package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimitedProvider spaces upstream calls with a token bucket that
// holds at most rpm tokens and refills continuously. Fortune readings,
// chat replies and talisman images all draw from the same bucket, since
// providers meter them against one quota.
type RateLimitedProvider struct {
	provider Provider
	rpm      int
	perToken time.Duration

	mu       sync.Mutex
	tokens   float64
	lastFill time.Time
}

// NewRateLimitedProvider wraps provider so that at most rpm calls start
// per minute. rpm below 1 is treated as 1.
func NewRateLimitedProvider(provider Provider, rpm int) *RateLimitedProvider {
	if rpm < 1 {
		rpm = 1
	}
	return &RateLimitedProvider{
		provider: provider,
		rpm:      rpm,
		perToken: time.Minute / time.Duration(rpm),
		tokens:   float64(rpm),
		lastFill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

func (r *RateLimitedProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	ip, ok := AsImageProvider(r.provider)
	if !ok {
		return nil, fmt.Errorf("%s: %w", r.provider.Name(), ErrImagesUnsupported)
	}
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return ip.GenerateImage(ctx, req)
}

// acquire blocks until a token is available or ctx ends.
func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		wait := r.take(time.Now())
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// take spends a token and returns 0, or returns how long until the next
// token is due.
func (r *RateLimitedProvider) take(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if elapsed := now.Sub(r.lastFill); elapsed > 0 {
		r.tokens += float64(elapsed) / float64(r.perToken)
		if r.tokens > float64(r.rpm) {
			r.tokens = float64(r.rpm)
		}
		r.lastFill = now
	}

	if r.tokens >= 1 {
		r.tokens--
		return 0
	}
	wait := time.Duration((1 - r.tokens) * float64(r.perToken))
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}
