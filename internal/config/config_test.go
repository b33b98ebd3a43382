package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clipwright/internal/config"
)

func clearRenderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SHOTSTACK_KEY", "SHOTSTACK_HOST", "OPENROUTER_API_KEY", "CLIPWRIGHT_NTFY_TOPIC", "CLIPWRIGHT_API_TOKEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigUsesEnvAndExpandsPaths(t *testing.T) {
	clearRenderEnv(t)
	t.Setenv("SHOTSTACK_KEY", "render-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantRender := filepath.Join(tempHome, ".local", "share", "clipwright", "render")
	if cfg.Paths.RenderDir != wantRender {
		t.Fatalf("unexpected render dir: got %q want %q", cfg.Paths.RenderDir, wantRender)
	}
	if cfg.Render.APIKey != "render-key" {
		t.Fatalf("expected render key from env, got %q", cfg.Render.APIKey)
	}
	if cfg.Render.BaseURL != "https://api.shotstack.io/stage" {
		t.Fatalf("unexpected render base url: %q", cfg.Render.BaseURL)
	}
	if cfg.API.Bind != "127.0.0.1:7489" {
		t.Fatalf("unexpected api bind: %q", cfg.API.Bind)
	}
	if cfg.LLMEnabled() {
		t.Fatal("expected LLM resolver disabled without key")
	}
	settings := cfg.GetRender()
	if settings.PollInterval != 10*time.Second {
		t.Fatalf("unexpected poll interval: %v", settings.PollInterval)
	}
	if settings.PollMaxInterval != settings.PollInterval {
		t.Fatalf("expected fixed polling by default, got max %v", settings.PollMaxInterval)
	}
	if settings.Timeout != 900*time.Second {
		t.Fatalf("unexpected render timeout: %v", settings.Timeout)
	}
}

func TestLoadWithoutRenderKeySucceeds(t *testing.T) {
	clearRenderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Render.APIKey != "" {
		t.Fatalf("expected empty render key, got %q", cfg.Render.APIKey)
	}
}

func TestShotstackHostOverridesDefaultOnly(t *testing.T) {
	clearRenderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHOTSTACK_HOST", "https://api.shotstack.io/v1/")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Render.BaseURL != "https://api.shotstack.io/v1" {
		t.Fatalf("expected env host without trailing slash, got %q", cfg.Render.BaseURL)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nbase_url = \"http://localhost:9000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Render.BaseURL != "http://localhost:9000" {
		t.Fatalf("expected file value to win, got %q", cfg.Render.BaseURL)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	clearRenderEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[paths]
render_dir = "~/clips"

[render]
api_key = "file-key"
poll_interval_seconds = 2
poll_max_interval_seconds = 8
timeout_seconds = 60

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.RenderDir != filepath.Join(tempHome, "clips") {
		t.Fatalf("unexpected render dir: %q", cfg.Paths.RenderDir)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	settings := cfg.GetRender()
	if settings.PollInterval != 2*time.Second || settings.PollMaxInterval != 8*time.Second {
		t.Fatalf("unexpected poll bounds: %v/%v", settings.PollInterval, settings.PollMaxInterval)
	}
	if settings.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", settings.APIKey)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "bad poll interval",
			mutate:  func(c *config.Config) { c.Render.PollIntervalSeconds = 0 },
			wantErr: "render.poll_interval_seconds must be positive",
		},
		{
			name:    "timeout shorter than poll",
			mutate:  func(c *config.Config) { c.Render.TimeoutSeconds = 5 },
			wantErr: "render.timeout_seconds must be at least",
		},
		{
			name:    "bad base url",
			mutate:  func(c *config.Config) { c.Render.BaseURL = "ftp://example.com" },
			wantErr: "render.base_url must use http or https",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "bad ntfy topic",
			mutate:  func(c *config.Config) { c.Notifications.NtfyTopic = "not a url" },
			wantErr: "notifications.ntfy_topic",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateSampleParsesBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	defaults := config.Default()
	if parsed.Render.BaseURL != defaults.Render.BaseURL {
		t.Fatalf("sample base url %q differs from default %q", parsed.Render.BaseURL, defaults.Render.BaseURL)
	}
	if parsed.API.Bind != defaults.API.Bind {
		t.Fatalf("sample bind %q differs from default %q", parsed.API.Bind, defaults.API.Bind)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.RenderDir = filepath.Join(base, "render")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Paths.RenderDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
	if filepath.Dir(cfg.DatabasePath()) != cfg.Paths.StateDir {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}
