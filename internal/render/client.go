package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultDownloadTimeout = 5 * time.Minute
	errorBodyLimit         = 2048
	userAgent              = "clipwright"
)

// ClientConfig captures the settings needed to reach the render service.
type ClientConfig struct {
	BaseURL         string
	APIKey          string
	RequestTimeout  time.Duration
	DownloadTimeout time.Duration
}

// SubmitResponse is the service acknowledgement of a submitted edit.
type SubmitResponse struct {
	ID      string
	Message string
}

// StatusResponse is one poll result.
type StatusResponse struct {
	ID     string
	Status State
	URL    string
	Error  string
}

// Client talks to the render service HTTP API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// ClientOption customizes the client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a render service client. A missing API key yields
// ErrNoCredentials.
func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.APIKey == "" {
		return nil, ErrNoCredentials
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("render client: base url required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = defaultDownloadTimeout
	}
	client := &Client{cfg: cfg, httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Status  string `json:"status"`
		URL     string `json:"url"`
		Error   string `json:"error"`
	} `json:"response"`
}

// Submit posts the edit and returns the job acknowledgement. A reply without a
// job id yields ErrMissingJobID.
func (c *Client) Submit(ctx context.Context, doc Edit) (SubmitResponse, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("%w: encode edit: %w", ErrSubmit, err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "render")
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("%w: build url: %w", ErrSubmit, err)
	}
	env, err := c.call(ctx, "submit", http.MethodPost, endpoint, body)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	if !env.Success {
		return SubmitResponse{}, fmt.Errorf("%w: %s", ErrSubmit, strings.TrimSpace(env.Message))
	}
	id := strings.TrimSpace(env.Response.ID)
	if id == "" {
		return SubmitResponse{}, ErrMissingJobID
	}
	return SubmitResponse{ID: id, Message: strings.TrimSpace(env.Response.Message)}, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, id string) (StatusResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return StatusResponse{}, fmt.Errorf("%w: job id required", ErrPoll)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "render", id)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("%w: build url: %w", ErrPoll, err)
	}
	endpoint += "?data=false&merged=true"
	env, err := c.call(ctx, "status", http.MethodGet, endpoint, nil)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("%w: %w", ErrPoll, err)
	}
	if !env.Success {
		return StatusResponse{}, fmt.Errorf("%w: %s", ErrPoll, strings.TrimSpace(env.Message))
	}
	return StatusResponse{
		ID:     firstNonEmpty(env.Response.ID, id),
		Status: State(strings.ToLower(strings.TrimSpace(env.Response.Status))),
		URL:    strings.TrimSpace(env.Response.URL),
		Error:  strings.TrimSpace(env.Response.Error),
	}, nil
}

// Download streams the finished asset at assetURL into w.
func (c *Client) Download(ctx context.Context, assetURL string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.DownloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &StatusError{Op: "download", StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download body: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, op, method, endpoint string, body []byte) (envelope, error) {
	var env envelope
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return env, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, fmt.Errorf("http error (timeout=%s): %w", c.cfg.RequestTimeout, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return env, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
