package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProvider is returned for a provider name with no backend.
var ErrUnknownProvider = errors.New("unknown ai provider")

// Provider names accepted by NewCompleter.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ProviderConfig selects and configures one completion backend.
type ProviderConfig struct {
	Provider     string
	Model        string
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
}

// NewCompleter builds the backend named by cfg.Provider. Grading runs at a
// low temperature so repeated analyses of one essay stay close.
func NewCompleter(cfg ProviderConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "":
		completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: cfg.OpenAIKey, Model: cfg.Model, Temperature: 0.2})
		if err != nil {
			return nil, err
		}
		return completer, nil
	case ProviderAnthropic:
		completer, err := NewAnthropicCompleter(AnthropicConfig{APIKey: cfg.AnthropicKey, Model: cfg.Model, Temperature: 0.2})
		if err != nil {
			return nil, err
		}
		return completer, nil
	case ProviderGemini:
		completer, err := NewGeminiCompleter(GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.Model, Temperature: 0.2})
		if err != nil {
			return nil, err
		}
		return completer, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
