package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// MockProvider is a test provider that records calls and returns canned responses.
// Errs is consumed front to back before Response is returned.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Images   []ImageRequest
	Response *CompletionResponse
	Image    *ImageResponse
	Errs     []error
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
		Image: &ImageResponse{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png", Model: "mock-image"},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if err := m.nextErr(); err != nil {
		return nil, err
	}
	return m.Response, nil
}

func (m *MockProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images = append(m.Images, req)
	if err := m.nextErr(); err != nil {
		return nil, err
	}
	return m.Image, nil
}

func (m *MockProvider) nextErr() error {
	if len(m.Errs) > 0 {
		err := m.Errs[0]
		m.Errs = m.Errs[1:]
		return err
	}
	return m.Err
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// textOnly hides GenerateImage.
type textOnly struct{ *MockProvider }

func (t textOnly) Name() string { return t.MockProvider.Name() }
func (t textOnly) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return t.MockProvider.Complete(ctx, req)
}

// recordSleeps captures requested delays without waiting.
func recordSleeps(delays *[]time.Duration) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func status(code int) error {
	return &StatusError{Provider: "test", StatusCode: code}
}

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}

	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	for _, p := range []string{"openai", "google"} {
		_, err := NewProvider(Options{Type: p, Model: "some-model"})
		if !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("provider %q: expected ErrNoAPIKey, got %v", p, err)
		}
	}
}

func TestFactoryAcceptsProxyWithoutAPIKey(t *testing.T) {
	provider, err := NewProvider(Options{Type: "google", Model: "m", BaseURL: "http://localhost:9999/api/gemini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "google" {
		t.Errorf("expected name 'google', got %q", provider.Name())
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider(Options{Type: "unknown", Model: "some-model"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	provider, err := NewProvider(Options{Type: "ollama", Model: "llama3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != DefaultOllamaHost {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
	if _, ok := AsImageProvider(provider); ok {
		t.Error("ollama should not report image support")
	}
}

func TestFactoryCreatesOpenAIProvider(t *testing.T) {
	provider, err := NewProvider(Options{Type: "openai", Model: "gpt-4o-mini", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected name 'openai', got %q", provider.Name())
	}
	if _, ok := AsImageProvider(provider); !ok {
		t.Error("openai should report image support")
	}
}

func TestFactoryCreatesGoogleProvider(t *testing.T) {
	provider, err := NewProvider(Options{Type: "google", Model: "gemini-2.0-flash", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "google" {
		t.Errorf("expected name 'google', got %q", provider.Name())
	}
}

func TestUnconfiguredFailsWithNoAPIKey(t *testing.T) {
	u := NewUnconfigured("google")
	_, err := u.Complete(context.Background(), CompletionRequest{})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Complete: expected ErrNoAPIKey, got %v", err)
	}
	_, err = u.GenerateImage(context.Background(), ImageRequest{})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("GenerateImage: expected ErrNoAPIKey, got %v", err)
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	ctx := context.Background()
	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := rl.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}

	img, err := rl.GenerateImage(ctx, ImageRequest{Prompt: "cat"})
	if err != nil {
		t.Fatalf("GenerateImage: unexpected error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("expected image/png, got %q", img.MIMEType)
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	for i := 0; i < 2; i++ {
		_, err := rl.Complete(ctx, req)
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// Third should block and eventually fail due to context timeout.
	_, err := rl.Complete(ctx, req)
	if err == nil {
		t.Error("expected error due to rate limiting + context timeout")
	}
}

func TestRateLimiterRefillsContinuously(t *testing.T) {
	rl := NewRateLimitedProvider(NewMockProvider("test"), 2)
	start := rl.lastFill

	for i := 0; i < 2; i++ {
		if wait := rl.take(start); wait != 0 {
			t.Fatalf("token %d: expected no wait, got %v", i, wait)
		}
	}
	if wait := rl.take(start); wait != 30*time.Second {
		t.Errorf("expected 30s until next token, got %v", wait)
	}
	if wait := rl.take(start.Add(15 * time.Second)); wait != 15*time.Second {
		t.Errorf("expected 15s after half a refill, got %v", wait)
	}
	if wait := rl.take(start.Add(30 * time.Second)); wait != 0 {
		t.Errorf("expected a token after 30s, got %v", wait)
	}
	// An idle hour never banks more than rpm tokens.
	later := start.Add(time.Hour)
	for i := 0; i < 2; i++ {
		if wait := rl.take(later); wait != 0 {
			t.Fatalf("burst %d: expected no wait, got %v", i, wait)
		}
	}
	if wait := rl.take(later); wait == 0 {
		t.Error("expected the bucket to be capped at rpm")
	}
}

func TestRateLimiterZeroRPMDoesNotPanic(t *testing.T) {
	rl := NewRateLimitedProvider(NewMockProvider("test"), 0)
	if _, err := rl.Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOllamaCompleteJSONMode(t *testing.T) {
	var got ollamaChat
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gemma3","message":{"role":"assistant","content":" {\"summary\":\"ok\"} "},"done":true,"done_reason":"stop","prompt_eval_count":11,"eval_count":4}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "gemma3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "hi"}},
		MaxTokens:   256,
		Temperature: 0.8,
		JSONMode:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != `{"summary":"ok"}` {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.InputTokens != 11 || resp.OutputTokens != 4 || resp.FinishReason != "stop" {
		t.Errorf("unexpected response metadata %+v", resp)
	}
	if got.Model != "gemma3" || got.Stream {
		t.Errorf("expected default model without streaming, got %+v", got)
	}
	if got.Format != "json" {
		t.Errorf("expected json format, got %q", got.Format)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem {
		t.Errorf("expected system message to be forwarded, got %+v", got.Messages)
	}
	if got.Options["num_predict"] != float64(256) || got.Options["temperature"] != 0.8 {
		t.Errorf("unexpected options %v", got.Options)
	}
}

func TestOllamaOmitsUnsetOptions(t *testing.T) {
	p := NewOllamaProvider("http://localhost:11434", "gemma3")
	chat := p.chatRequest(CompletionRequest{Model: "llama3", Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if chat.Model != "llama3" {
		t.Errorf("expected request model to win, got %q", chat.Model)
	}
	if chat.Format != "" || chat.Options != nil {
		t.Errorf("expected no format or options, got %q %v", chat.Format, chat.Options)
	}
}

func TestOllamaStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"server busy, please try again"}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "m")
	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), ": server busy, please try again") {
		t.Errorf("expected upstream message to be unwrapped, got %q", err.Error())
	}
}

func TestOllamaMissingModelIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"m\" not found, try pulling it first"}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "m")
	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if IsTransient(err) {
		t.Errorf("expected a permanent error, got %v", err)
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", StatusCode(err))
	}
}

func TestOllamaEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"  "},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "m")
	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestRateLimiterRejectsImagesForTextOnlyProvider(t *testing.T) {
	rl := NewRateLimitedProvider(textOnly{NewMockProvider("test")}, 60)
	_, err := rl.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrImagesUnsupported) {
		t.Errorf("expected ErrImagesUnsupported, got %v", err)
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	p := DefaultRetryPolicy()
	if p.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", p.MaxAttempts)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, w := range want {
		if got := p.Delay(i + 1); got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Errs = []error{status(429), status(429)}

	var delays []time.Duration
	rp := NewRetryProvider(mock, DefaultRetryPolicy(), zap.NewNop()).WithSleeper(recordSleeps(&delays))

	resp, err := rp.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.CallCount())
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Errorf("unexpected delays %v", delays)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Err = status(429)

	var delays []time.Duration
	rp := NewRetryProvider(mock, DefaultRetryPolicy(), zap.NewNop()).WithSleeper(recordSleeps(&delays))

	_, err := rp.Complete(context.Background(), CompletionRequest{})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if StatusCode(err) != 429 {
		t.Errorf("expected wrapped 429, got %d", StatusCode(err))
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected exactly 3 calls, got %d", mock.CallCount())
	}
	// No wait after the final attempt.
	if len(delays) != 2 {
		t.Errorf("expected 2 waits, got %v", delays)
	}
}

func TestRetryRetriesNonTransientErrors(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Errs = []error{status(500), errors.New("connection reset")}

	var delays []time.Duration
	rp := NewRetryProvider(mock, DefaultRetryPolicy(), zap.NewNop()).WithSleeper(recordSleeps(&delays))

	if _, err := rp.Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetryStopsOnMissingAPIKey(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Err = ErrNoAPIKey

	var delays []time.Duration
	rp := NewRetryProvider(mock, DefaultRetryPolicy(), zap.NewNop()).WithSleeper(recordSleeps(&delays))

	_, err := rp.Complete(context.Background(), CompletionRequest{})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
	if errors.Is(err, ErrRetriesExhausted) {
		t.Error("missing key should not count as exhausted retries")
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Err = status(503)

	ctx, cancel := context.WithCancel(context.Background())
	rp := NewRetryProvider(mock, DefaultRetryPolicy(), zap.NewNop()).WithSleeper(
		func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		})

	_, err := rp.Complete(ctx, CompletionRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetryAppliesToImages(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Errs = []error{status(503)}

	var delays []time.Duration
	rp := NewRetryProvider(mock, DefaultRetryPolicy(), zap.NewNop()).WithSleeper(recordSleeps(&delays))

	img, err := rp.GenerateImage(context.Background(), ImageRequest{Prompt: "fox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(img.Data) == 0 {
		t.Error("expected image bytes")
	}
	if len(mock.Images) != 2 {
		t.Errorf("expected 2 image calls, got %d", len(mock.Images))
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{status(429), true},
		{status(503), true},
		{status(500), false},
		{errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestGoogleCompleteJSONMode(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"ok\"}"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":7,"candidatesTokenCount":3}}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("k", "gemini-test", "", srv.URL)
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "hi"}},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != `{"summary":"ok"}` {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 3 {
		t.Errorf("unexpected usage %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if got.GenerationConfig == nil || got.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("expected JSON response mime type in request")
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("expected system instruction to be set")
	}
}

func TestGoogleStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("k", "m", "", srv.URL)
	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if !strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		t.Errorf("expected upstream status in message, got %q", err.Error())
	}
}

func TestGoogleEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("k", "m", "", srv.URL)
	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGoogleGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/imagen-test:predict") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req imagenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Instances) != 1 || req.Instances[0].Prompt != "a fox" {
			t.Errorf("unexpected instances %+v", req.Instances)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]string{{"bytesBase64Encoded": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	p := NewGoogleProvider("k", "m", "imagen-test", srv.URL)
	img, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "a fox", AspectRatio: "1:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(img.Data) != string(png) {
		t.Errorf("image bytes mismatch")
	}
	if img.MIMEType != "image/png" {
		t.Errorf("expected default mime image/png, got %q", img.MIMEType)
	}
}

func TestGoogleGenerateImageWithoutModel(t *testing.T) {
	p := NewGoogleProvider("k", "m", "", "http://127.0.0.1:0")
	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrImagesUnsupported) {
		t.Errorf("expected ErrImagesUnsupported, got %v", err)
	}
}

func TestEstimateCostKnownModels(t *testing.T) {
	for _, model := range []string{"gemini-2.5-flash-preview-09-2025", "gemini-2.0-flash", "gpt-4o", "gpt-4o-mini"} {
		if cost := EstimateCost(model, 1000, 500); cost <= 0 {
			t.Errorf("EstimateCost(%q) = %f, expected > 0", model, cost)
		}
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	cost := EstimateCost("unknown-model", 1000, 500)
	if cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}

func TestEstimateCostAccuracy(t *testing.T) {
	// gpt-4o: $2.50/1M input, $10/1M output
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	expected := 12.5
	if cost < expected-0.01 || cost > expected+0.01 {
		t.Errorf("expected cost ~$%.2f, got $%.2f", expected, cost)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
		{"a longer piece of text that has more characters", 11},
	}

	for _, tt := range tests {
		got := EstimateTokens(tt.text)
		if got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
