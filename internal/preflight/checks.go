package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"clipwright/internal/config"
	"clipwright/internal/render"
	"clipwright/internal/resolver"
)

// placeholderRenderID is a well-formed id that never names a real render. An
// authenticated service answers 404 for it.
const placeholderRenderID = "00000000-0000-0000-0000-000000000000"

// CheckRender verifies the render service is reachable and accepts the key.
func CheckRender(ctx context.Context, settings config.RenderSettings) Result {
	const name = "Render service"

	client, err := render.NewClient(render.ClientConfig{
		BaseURL:         settings.BaseURL,
		APIKey:          settings.APIKey,
		RequestTimeout:  5 * time.Second,
		DownloadTimeout: settings.DownloadTimeout,
	})
	if err != nil {
		return Result{Name: name, Detail: "API key missing (set SHOTSTACK_KEY)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = client.Status(checkCtx, placeholderRenderID)
	var statusErr *render.StatusError
	switch {
	case err == nil:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", settings.BaseURL)}
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusNotFound, http.StatusBadRequest:
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", settings.BaseURL)}
		case http.StatusUnauthorized, http.StatusForbidden:
			return Result{Name: name, Detail: "auth failed (invalid api key)"}
		default:
			return Result{Name: name, Detail: fmt.Sprintf("status check failed (%d)", statusErr.StatusCode)}
		}
	default:
		return Result{Name: name, Detail: summarizeError(err)}
	}
}

// CheckLLM verifies that the chat model API is reachable and the key is valid.
// A missing key is optional: direct instructions still work.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Optional: true, Detail: "disabled (set OPENROUTER_API_KEY for free-text requests)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := resolver.NewClient(resolver.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, resolver.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (API unreachable)"
	}
	return err.Error()
}
