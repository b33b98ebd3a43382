package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clipwright/internal/config"
)

const userAgent = "clipwright"

// Service defines the notification surface used by sessions.
type Service interface {
	NotifyRenderCompleted(ctx context.Context, session, resultURL, artifactPath string) error
	NotifyRenderFailed(ctx context.Context, session string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		completed: cfg.Notifications.RenderCompleted,
		failed:    cfg.Notifications.RenderFailed,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	completed bool
	failed    bool
}

func (n *ntfyService) NotifyRenderCompleted(ctx context.Context, session, resultURL, artifactPath string) error {
	if !n.completed {
		return nil
	}
	session = strings.TrimSpace(session)
	message := fmt.Sprintf("🎬 Render complete: %s", session)
	if artifactPath = strings.TrimSpace(artifactPath); artifactPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, artifactPath)
	}
	if resultURL = strings.TrimSpace(resultURL); resultURL != "" {
		message = fmt.Sprintf("%s\nURL: %s", message, resultURL)
	}
	return n.send(ctx, payload{
		title:   "Clipwright - Render Complete",
		message: message,
		tags:    []string{"clipwright", "render", "completed"},
	})
}

func (n *ntfyService) NotifyRenderFailed(ctx context.Context, session string, err error) error {
	if !n.failed {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Render failed")
	if session = strings.TrimSpace(session); session != "" {
		builder.WriteString(" for ")
		builder.WriteString(session)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "Clipwright - Render Failed",
		message:  builder.String(),
		tags:     []string{"clipwright", "render", "error"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Clipwright - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"clipwright", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRenderCompleted(context.Context, string, string, string) error { return nil }
func (noopService) NotifyRenderFailed(context.Context, string, error) error             { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
