package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables that fill unset config fields.
type envOverrides struct {
	RenderAPIKey  string `env:"SHOTSTACK_KEY"`
	RenderBaseURL string `env:"SHOTSTACK_HOST"`
	LLMAPIKey     string `env:"OPENROUTER_API_KEY"`
	NtfyTopic     string `env:"CLIPWRIGHT_NTFY_TOPIC"`
	APIToken      string `env:"CLIPWRIGHT_API_TOKEN"`
}

// ParseEnv loads configuration overrides from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := ParseEnv(&overrides); err != nil {
		return err
	}
	fill(&c.Render.APIKey, overrides.RenderAPIKey)
	fill(&c.LLM.APIKey, overrides.LLMAPIKey)
	fill(&c.Notifications.NtfyTopic, overrides.NtfyTopic)
	fill(&c.API.Token, overrides.APIToken)

	// SHOTSTACK_HOST replaces the built-in stage endpoint but never an explicit file value.
	if host := strings.TrimSpace(overrides.RenderBaseURL); host != "" {
		current := strings.TrimSpace(c.Render.BaseURL)
		if current == "" || current == defaultRenderBaseURL {
			c.Render.BaseURL = host
		}
	}
	return nil
}

func fill(target *string, value string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	if value = strings.TrimSpace(value); value != "" {
		*target = value
	}
}
