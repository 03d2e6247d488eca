package fortune

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/llm"
)

// Generator produces fortune records from an upstream language model.
type Generator struct {
	provider    llm.Provider
	model       string
	temperature float64
	logger      *zap.Logger
}

// NewGenerator creates a generator. The provider is expected to carry any
// retry and rate-limit decoration already.
func NewGenerator(provider llm.Provider, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider:    provider,
		model:       model,
		temperature: 0.9,
		logger:      logger.Named("fortune"),
	}
}

// Generate validates u, asks the model for a reading and normalizes the
// answer. An answer that cannot be parsed yields the default record; only
// upstream failures and invalid input are errors.
func (g *Generator) Generate(ctx context.Context, u UserData) (Record, error) {
	u, err := Prepare(u)
	if err != nil {
		return Record{}, err
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(u)}},
		Temperature: g.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return Record{}, fmt.Errorf("generating fortune: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return Record{}, fmt.Errorf("generating fortune: %w", llm.ErrEmptyResponse)
	}

	g.logger.Debug("fortune generated",
		zap.String("provider", g.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Float64("estimated_cost_usd", llm.EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens)),
	)

	raw := SafeJSONParse(resp.Content)
	if raw == nil {
		g.logger.Warn("unparseable fortune payload, using defaults",
			zap.Int("length", len(resp.Content)))
	}
	return Normalize(raw), nil
}
