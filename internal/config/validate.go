package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if err := validateURL("render.base_url", c.Render.BaseURL); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"render.poll_interval_seconds":    c.Render.PollIntervalSeconds,
		"render.timeout_seconds":          c.Render.TimeoutSeconds,
		"render.request_timeout_seconds":  c.Render.RequestTimeoutSeconds,
		"render.download_timeout_seconds": c.Render.DownloadTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Render.PollMaxIntervalSeconds < 0 {
		return errors.New("render.poll_max_interval_seconds must be >= 0")
	}
	if c.Render.TimeoutSeconds < c.Render.PollIntervalSeconds {
		return errors.New("render.timeout_seconds must be at least render.poll_interval_seconds")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		return nil
	}
	return validateURL("llm.base_url", c.LLM.BaseURL)
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	return validateURL("notifications.ntfy_topic", c.Notifications.NtfyTopic)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validateURL(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s must be set", key)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
