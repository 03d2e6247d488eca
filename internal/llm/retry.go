package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy is a fixed exponential backoff: the wait after the n-th
// failed attempt is BaseDelay * 2^(n-1). No jitter.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy is three attempts starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Delay returns how long to wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << uint(attempt-1)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryProvider retries failed upstream calls within a fixed attempt
// budget. Rate limits (429), overloads (503), other statuses and transport
// errors are all retried; cancellation and missing credentials are not.
type RetryProvider struct {
	provider Provider
	policy   RetryPolicy
	logger   *zap.Logger
	sleep    Sleeper
}

// NewRetryProvider wraps provider with the given retry policy.
func NewRetryProvider(provider Provider, policy RetryPolicy, logger *zap.Logger) *RetryProvider {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{
		provider: provider,
		policy:   policy,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// WithSleeper replaces the wait function; tests use it to skip real delays.
func (r *RetryProvider) WithSleeper(s Sleeper) *RetryProvider {
	r.sleep = s
	return r
}

func (r *RetryProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var resp *CompletionResponse
	err := r.do(ctx, "complete", func(ctx context.Context) error {
		var err error
		resp, err = r.provider.Complete(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *RetryProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	ip, ok := AsImageProvider(r.provider)
	if !ok {
		return nil, fmt.Errorf("%s: %w", r.provider.Name(), ErrImagesUnsupported)
	}
	var resp *ImageResponse
	err := r.do(ctx, "generate_image", func(ctx context.Context) error {
		var err error
		resp, err = ip.GenerateImage(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *RetryProvider) do(ctx context.Context, op string, call func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err := call(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(ctx, err) {
			return err
		}
		if attempt == r.policy.MaxAttempts {
			break
		}

		delay := r.policy.Delay(attempt)
		r.logger.Warn("upstream call failed, retrying",
			zap.String("provider", r.provider.Name()),
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.policy.MaxAttempts),
			zap.Bool("transient", IsTransient(err)),
			zap.Int("status", StatusCode(err)),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}

	r.logger.Error("upstream call failed, giving up",
		zap.String("provider", r.provider.Name()),
		zap.String("op", op),
		zap.Int("attempts", r.policy.MaxAttempts),
		zap.Error(lastErr),
	)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, r.policy.MaxAttempts, lastErr)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrNoAPIKey), errors.Is(err, ErrImagesUnsupported):
		return false
	}
	return true
}
