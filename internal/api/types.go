package api

import (
	"time"

	"clipwright/internal/jobs"
	"clipwright/internal/logging"
	"clipwright/internal/router"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptimeS"`
	Sessions int    `json:"sessions"`
}

// CreateSessionRequest names a new session. The name is also the artifact file name.
type CreateSessionRequest struct {
	Name string `json:"name"`
}

// CommandRequest is one instruction. Line, when set, is parsed instead of
// the structured fields.
type CommandRequest struct {
	Domain  string `json:"domain"`
	Command string `json:"command"`
	Args    string `json:"args"`
	Line    string `json:"line,omitempty"`
}

// PlanRequest is an ordered plan, either as structured steps or as
// instruction lines.
type PlanRequest struct {
	Steps []CommandRequest `json:"steps,omitempty"`
	Lines string           `json:"lines,omitempty"`
}

// UtteranceRequest is free text for the resolver.
type UtteranceRequest struct {
	Text string `json:"text"`
}

// RenderAccepted acknowledges a background render.
type RenderAccepted struct {
	SessionID string `json:"sessionId"`
	JobID     int64  `json:"jobId,omitempty"`
	State     string `json:"state"`
}

// CancelResponse reports whether a render was cancelled.
type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// RenderJob is a render history row in a transport-friendly format.
type RenderJob struct {
	ID           int64  `json:"id"`
	SessionID    string `json:"sessionId"`
	RemoteID     string `json:"remoteId,omitempty"`
	Status       string `json:"status"`
	ResultURL    string `json:"resultUrl,omitempty"`
	ArtifactPath string `json:"artifactPath,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// RenderListResponse wraps history rows and counts.
type RenderListResponse struct {
	Jobs    []RenderJob  `json:"jobs"`
	Summary jobs.Summary `json:"summary"`
}

// LogStreamResponse returns recent log events and the cursor for the next call.
type LogStreamResponse struct {
	Events []logging.Event `json:"events"`
	Next   uint64          `json:"next"`
}

// FromJob converts a history row.
func FromJob(job *jobs.Job) RenderJob {
	if job == nil {
		return RenderJob{}
	}
	return RenderJob{
		ID:           job.ID,
		SessionID:    job.SessionID,
		RemoteID:     job.RemoteID,
		Status:       string(job.Status),
		ResultURL:    job.ResultURL,
		ArtifactPath: job.ArtifactPath,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    formatTime(job.CreatedAt),
		UpdatedAt:    formatTime(job.UpdatedAt),
	}
}

// Instruction converts a request into a router instruction. A missing domain
// is taken from the command table.
func (c CommandRequest) Instruction() (router.Instruction, error) {
	if c.Line != "" {
		in, ok, err := router.ParseLine(c.Line)
		if err != nil {
			return router.Instruction{}, err
		}
		if !ok {
			return router.Instruction{}, router.ErrMalformedInstruction
		}
		return in, nil
	}
	if c.Command == router.RenderCommand {
		return router.Instruction{Command: router.RenderCommand}, nil
	}
	in := router.Instruction{Command: c.Command, Args: c.Args}
	if c.Domain == "" {
		domain, ok := router.DomainOf(c.Command)
		if !ok {
			return router.Instruction{}, router.ErrUnknownCommand
		}
		in.Domain = domain
		return in, nil
	}
	domain, err := router.ParseDomain(c.Domain)
	if err != nil {
		return router.Instruction{}, err
	}
	in.Domain = domain
	return in, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
