// Package llm wraps the generative chat service behind a small interface and
// cleans up model output for plain-text display.
package llm

import (
	"fmt"

	"github.com/jonathan/career-counselor/internal/config"
)

// Provider names a chat backend.
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultModel is used when GEMINI_MODEL is unset.
const DefaultModel = "gemini-2.5-flash"

// Config holds generation settings for the counselor conversation.
type Config struct {
	Provider        Provider
	Model           string
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultConfig returns the counselor generation settings.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		Model:           DefaultModel,
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 1024,
	}
}

// ForSettings returns the counselor settings with the model chosen in g.
func ForSettings(g config.Gemini) *Config {
	c := DefaultConfig()
	if g.Model != "" {
		c.Model = g.Model
	}
	return c
}

// Validate rejects sampling values the service would refuse.
func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return fmt.Errorf("llm config: model is required")
	case c.Temperature < 0 || c.Temperature > 2:
		return fmt.Errorf("llm config: temperature %.2f out of range [0, 2]", c.Temperature)
	case c.TopP <= 0 || c.TopP > 1:
		return fmt.Errorf("llm config: topP %.2f out of range (0, 1]", c.TopP)
	case c.TopK < 0 || c.MaxOutputTokens <= 0:
		return fmt.Errorf("llm config: topK and maxOutputTokens must be positive")
	}
	return nil
}
