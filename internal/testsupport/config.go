package testsupport

import (
	"path/filepath"
	"testing"

	"clipwright/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Polling is shortened so render tests finish quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.RenderDir = filepath.Join(base, "render")
	cfgVal.Render.APIKey = "test"
	cfgVal.Render.PollIntervalSeconds = 1
	cfgVal.Render.PollMaxIntervalSeconds = 1
	cfgVal.Render.TimeoutSeconds = 30
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithRenderService points the render client at baseURL.
func WithRenderService(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Render.BaseURL = baseURL
	}
}

// WithoutRenderKey clears the render API key.
func WithoutRenderKey() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Render.APIKey = ""
	}
}

// WithLLM enables the intent resolver against baseURL.
func WithLLM(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = "test"
		b.cfg.LLM.BaseURL = baseURL
	}
}

// WithNtfyTopic routes notifications to topicURL.
func WithNtfyTopic(topicURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topicURL
	}
}

// WithAPIToken requires bearer auth on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Token = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
