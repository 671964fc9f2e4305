package llm

import (
	"testing"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForSettings(t *testing.T) {
	c := ForSettings(config.Gemini{})
	assert.Equal(t, ProviderGemini, c.Provider)
	assert.Equal(t, DefaultModel, c.Model)
	assert.InDelta(t, 0.7, c.Temperature, 0.0001)
	assert.Equal(t, int32(40), c.TopK)
	assert.InDelta(t, 0.95, c.TopP, 0.0001)
	assert.Equal(t, int32(1024), c.MaxOutputTokens)
	require.NoError(t, c.Validate())

	assert.Equal(t, "gemini-2.5-pro", ForSettings(config.Gemini{Model: "gemini-2.5-pro"}).Model)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "no model", mutate: func(c *Config) { c.Model = "" }, wantErr: "model is required"},
		{name: "hot temperature", mutate: func(c *Config) { c.Temperature = 2.5 }, wantErr: "temperature"},
		{name: "zero topP", mutate: func(c *Config) { c.TopP = 0 }, wantErr: "topP"},
		{name: "no output", mutate: func(c *Config) { c.MaxOutputTokens = 0 }, wantErr: "maxOutputTokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
