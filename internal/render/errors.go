package render

import (
	"errors"
	"fmt"
	"strings"

	"clipwright/internal/services"
)

var (
	// ErrNoCredentials reports a missing render API key.
	ErrNoCredentials = fmt.Errorf("%w: render api key not configured (set render.api_key or SHOTSTACK_KEY)", services.ErrConfiguration)
	// ErrSubmit reports a transport or service failure while submitting.
	ErrSubmit = fmt.Errorf("%w: render submit failed", services.ErrExternalTool)
	// ErrPoll reports a transport or service failure while polling.
	ErrPoll = fmt.Errorf("%w: render poll failed", services.ErrExternalTool)
	// ErrMissingJobID reports a submission accepted without a job id.
	ErrMissingJobID = fmt.Errorf("%w: render service returned no job id", services.ErrExternalTool)
	// ErrRenderFailed reports a job the service marked as failed.
	ErrRenderFailed = fmt.Errorf("%w: render failed", services.ErrExternalTool)
	// ErrTimeout reports a job that did not finish before the deadline.
	ErrTimeout = fmt.Errorf("%w: render did not finish before the deadline", services.ErrTimeout)
	// ErrArtifact reports a finished job whose output could not be saved.
	ErrArtifact = fmt.Errorf("%w: render artifact download failed", services.ErrExternalTool)
	// ErrCancelled reports a render abandoned by the caller.
	ErrCancelled = errors.New("render cancelled")
)

// StatusError captures a non-2xx reply from the render service.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("render %s: http %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("render %s: http %d: %s", e.Op, e.StatusCode, body)
}
