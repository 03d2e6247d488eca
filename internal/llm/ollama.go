package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaProvider talks to a local Ollama server's /api/chat endpoint.
// Ollama has no image endpoint, so talismans fall back to pixel-art SVG.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ollamaChat struct {
	Model    string       `json:"model"`
	Messages []ollamaTurn `json:"messages"`
	Stream   bool         `json:"stream"`
	// Format "json" constrains sampling to a JSON value.
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaReply struct {
	Model           string     `json:"model"`
	Message         ollamaTurn `json:"message"`
	Done            bool       `json:"done"`
	DoneReason      string     `json:"done_reason"`
	PromptEvalCount int        `json:"prompt_eval_count"`
	EvalCount       int        `json:"eval_count"`
}

// ollamaFailure is the body Ollama sends with non-200 statuses, e.g. a
// 404 for a model that was never pulled.
type ollamaFailure struct {
	Error string `json:"error"`
}

func (p *OllamaProvider) chatRequest(req CompletionRequest) ollamaChat {
	chat := ollamaChat{Model: req.Model, Messages: make([]ollamaTurn, 0, len(req.Messages))}
	if chat.Model == "" {
		chat.Model = p.model
	}
	for _, msg := range req.Messages {
		chat.Messages = append(chat.Messages, ollamaTurn{Role: msg.Role, Content: msg.Content})
	}
	if req.JSONMode {
		chat.Format = "json"
	}

	opts := map[string]any{}
	if req.Temperature > 0 {
		opts["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}
	if len(opts) > 0 {
		chat.Options = opts
	}
	return chat
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var reply ollamaReply
	if err := p.post(ctx, "/api/chat", p.chatRequest(req), &reply); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(reply.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}
	return &CompletionResponse{
		Content:      content,
		InputTokens:  reply.PromptEvalCount,
		OutputTokens: reply.EvalCount,
		Model:        reply.Model,
		FinishReason: reply.DoneReason,
	}, nil
}

// post sends payload as JSON and decodes a 200 response into out. Other
// statuses become a StatusError so the retry layer can judge them.
func (p *OllamaProvider) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read ollama response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		var failure ollamaFailure
		if json.Unmarshal(respBody, &failure) == nil && failure.Error != "" {
			msg = failure.Error
		}
		return &StatusError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal ollama response: %w", err)
	}
	return nil
}
