package config

import "time"

// ModelPreset describes the default models for a provider.
type ModelPreset struct {
	Model      string
	ImageModel string
}

var modelPresets = map[ProviderType]ModelPreset{
	ProviderGoogle: {Model: "gemini-2.5-flash-preview-09-2025", ImageModel: "imagen-4.0-generate-001"},
	ProviderOpenAI: {Model: "gpt-4o-mini", ImageModel: "dall-e-3"},
	ProviderOllama: {Model: "llama3", ImageModel: ""},
}

// DefaultConfigFile is where the wizard writes and commands read by default.
const DefaultConfigFile = ".lucky.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	preset := GetPreset(ProviderGoogle)
	return &Config{
		Provider:     ProviderGoogle,
		Model:        preset.Model,
		ImageModel:   preset.ImageModel,
		DataDir:      ".lucky",
		RateLimitRPM: 60,
		LogLevel:     "info",
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		},
		Session: SessionConfig{
			TTL:       24 * time.Hour,
			SweepCron: "@every 15m",
		},
		Chat: ChatConfig{
			HistoryBudget: 2000,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// GetPreset returns the model preset for the given provider.
// Returns the Google preset if the provider is unknown.
func GetPreset(provider ProviderType) ModelPreset {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderGoogle]
}
