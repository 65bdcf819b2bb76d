package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Google Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// GeminiCompleter implements Completer with the Gemini API. A client is
// opened per call so the caller's context owns the connection.
type GeminiCompleter struct {
	cfg GeminiConfig
}

// NewGeminiCompleter constructs the backend.
func NewGeminiCompleter(cfg GeminiConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &GeminiCompleter{cfg: cfg}, nil
}

// Provider implements Completer.
func (c *GeminiCompleter) Provider() string { return "gemini" }

// Complete generates content for the prompt.
func (c *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.cfg.Model)
	maxOut := int32(c.cfg.MaxTokens)
	model.MaxOutputTokens = &maxOut
	temperature := c.cfg.Temperature
	model.Temperature = &temperature
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini response contained no text content")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}
