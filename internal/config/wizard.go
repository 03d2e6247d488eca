package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to Lucky Universe! Let's configure the fortune service.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select generative-language provider",
		Items: []string{
			"google: Gemini text + Imagen stickers",
			"openai: GPT text + DALL·E stickers",
			"ollama: local model, pixel-art SVG stickers only",
		},
	}
	idx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := []ProviderType{ProviderGoogle, ProviderOpenAI, ProviderOllama}[idx]
	preset := GetPreset(provider)

	modelPrompt := promptui.Prompt{
		Label:   "Text model",
		Default: preset.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	baseURLPrompt := promptui.Prompt{
		Label:   "Proxy base URL (leave blank to call the provider directly)",
		Default: "",
	}
	baseURL, err := baseURLPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.ImageModel = preset.ImageModel
	cfg.BaseURL = baseURL
	cfg.Server.Port = port

	if envVar := APIKeyEnvVar(provider); envVar != "" && ResolveAPIKey(provider) == "" {
		fmt.Printf("\nNote: set %s in your environment or .env before running lucky server.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nConfiguration saved to %s\n", path)
	return cfg, nil
}
