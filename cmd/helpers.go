package cmd

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/lucky-universe/internal/config"
	"github.com/ziadkadry99/lucky-universe/internal/llm"
	"github.com/ziadkadry99/lucky-universe/internal/server"
)

// loadConfig loads and validates the config, providing a user-friendly error.
// The configured log level applies unless --verbose was given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `lucky init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if !verbose && cfg.LogLevel != "" {
		// The terminal reading stays quiet below warn.
		if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil && (!consoleLog || lvl > logLevel.Level()) {
			logLevel.SetLevel(lvl)
		}
	}
	return cfg, nil
}

// buildProvider assembles the provider chain: the configured backend,
// wrapped in a rate limiter, wrapped in retry with backoff. A missing API
// key is not fatal; generation calls fail with llm.ErrNoAPIKey instead
// and the returned status carries a warning.
func buildProvider(cfg *config.Config, log *zap.Logger) (llm.Provider, server.Status) {
	status := server.Status{
		Provider:   string(cfg.Provider),
		Model:      cfg.Model,
		ImageModel: cfg.ImageModel,
	}

	apiKey := config.ResolveAPIKey(cfg.Provider)
	status.APIKeyConfigured = apiKey != "" || !config.RequiresAPIKey(cfg.Provider)

	base, err := llm.NewProvider(llm.Options{
		Type:       string(cfg.Provider),
		Model:      cfg.Model,
		ImageModel: cfg.ImageModel,
		APIKey:     apiKey,
		BaseURL:    cfg.BaseURL,
	})
	if err != nil {
		status.APIKeyConfigured = false
		status.Warning = providerWarning(cfg, err)
		log.Warn("generation disabled", zap.String("provider", status.Provider), zap.Error(err))
		base = llm.NewUnconfigured(string(cfg.Provider))
	} else if !status.APIKeyConfigured {
		// A proxy base URL may inject the credential server-side.
		status.Warning = fmt.Sprintf("%s is not set; relying on %s to authenticate", config.APIKeyEnvVar(cfg.Provider), cfg.BaseURL)
	}

	policy := llm.RetryPolicy{MaxAttempts: cfg.Retry.MaxAttempts, BaseDelay: cfg.Retry.BaseDelay}
	if cfg.RateLimitRPM > 0 {
		base = llm.NewRateLimitedProvider(base, cfg.RateLimitRPM)
	}
	return llm.NewRetryProvider(base, policy, log.Named("llm")), status
}

func providerWarning(cfg *config.Config, err error) string {
	if envVar := config.APIKeyEnvVar(cfg.Provider); envVar != "" {
		return fmt.Sprintf("API key is not configured: set %s (or %s) in the environment or .env", envVar, config.FallbackAPIKeyEnvVar)
	}
	return err.Error()
}
