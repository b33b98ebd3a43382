package resolver

import (
	"log/slog"

	"clipwright/internal/config"
)

// FromConfig builds the resolver used by sessions: direct instruction lines
// always work, free text goes to the chat model when an API key is set.
func FromConfig(cfg *config.Config, logger *slog.Logger) *Auto {
	if cfg == nil || !cfg.LLMEnabled() {
		return NewAuto(nil)
	}
	settings := cfg.GetLLM()
	client := NewClient(Config{
		APIKey:         settings.APIKey,
		BaseURL:        settings.BaseURL,
		Model:          settings.Model,
		Referer:        settings.Referer,
		Title:          settings.Title,
		TimeoutSeconds: settings.TimeoutSeconds,
	})
	return NewAuto(NewLLM(client, logger))
}
