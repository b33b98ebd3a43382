package jobs

import (
	"strings"
	"time"
)

// Status mirrors the render state machine.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusQueued    Status = "queued"
	StatusFetching  Status = "fetching"
	StatusRendering Status = "rendering"
	StatusSaving    Status = "saving"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var terminalStatuses = map[Status]struct{}{
	StatusDone:      {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// ActiveStatuses lists statuses of renders still in flight.
func ActiveStatuses() []Status {
	return []Status{StatusSubmitted, StatusQueued, StatusFetching, StatusRendering, StatusSaving}
}

// ParseStatus normalizes a status string. Unknown values report false.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusSubmitted, StatusQueued, StatusFetching, StatusRendering, StatusSaving,
		StatusDone, StatusFailed, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// Job is one recorded render attempt.
type Job struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	RemoteID     string    `json:"remote_id,omitempty"`
	Status       Status    `json:"status"`
	RequestJSON  string    `json:"-"`
	ResultURL    string    `json:"result_url,omitempty"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsTerminal reports whether the job reached done, failed, or cancelled.
func (j *Job) IsTerminal() bool {
	if j == nil {
		return false
	}
	_, ok := terminalStatuses[j.Status]
	return ok
}

// Summary aggregates job counts for status output.
type Summary struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Done      int `json:"done"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}
