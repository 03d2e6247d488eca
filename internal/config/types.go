package config

import "time"

// ProviderType identifies a generative-language provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level configuration, corresponding to .lucky.yml.
type Config struct {
	Provider     ProviderType  `yaml:"provider" koanf:"provider"`
	Model        string        `yaml:"model" koanf:"model"`
	ImageModel   string        `yaml:"image_model" koanf:"image_model"`
	BaseURL      string        `yaml:"base_url" koanf:"base_url"`
	DataDir      string        `yaml:"data_dir" koanf:"data_dir"`
	RateLimitRPM int           `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	LogLevel     string        `yaml:"log_level" koanf:"log_level"`
	Retry        RetryConfig   `yaml:"retry" koanf:"retry"`
	Session      SessionConfig `yaml:"session" koanf:"session"`
	Chat         ChatConfig    `yaml:"chat" koanf:"chat"`
	Server       ServerConfig  `yaml:"server" koanf:"server"`
}

// RetryConfig controls the backoff applied to upstream calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" koanf:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" koanf:"base_delay"`
}

// SessionConfig controls how long server-side sessions live.
type SessionConfig struct {
	TTL       time.Duration `yaml:"ttl" koanf:"ttl"`
	SweepCron string        `yaml:"sweep_cron" koanf:"sweep_cron"`
}

// ChatConfig tunes the companion chat.
type ChatConfig struct {
	// HistoryBudget caps the estimated tokens of history replayed per turn.
	HistoryBudget int `yaml:"history_budget" koanf:"history_budget"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
