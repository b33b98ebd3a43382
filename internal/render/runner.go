package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"clipwright/internal/fileutil"
	"clipwright/internal/logging"
	"clipwright/internal/textutil"
)

// State is a render job state. The remote service reports queued through
// failed; idle, submitted and cancelled are local.
type State string

const (
	StateIdle      State = "idle"
	StateSubmitted State = "submitted"
	StateQueued    State = "queued"
	StateFetching  State = "fetching"
	StateRendering State = "rendering"
	StateSaving    State = "saving"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

func (s State) inProgress() bool {
	switch s {
	case StateQueued, StateFetching, StateRendering, StateSaving:
		return true
	default:
		return false
	}
}

// Service is the remote render API. *Client implements it.
type Service interface {
	Submit(ctx context.Context, doc Edit) (SubmitResponse, error)
	Status(ctx context.Context, id string) (StatusResponse, error)
	Download(ctx context.Context, assetURL string, w io.Writer) error
}

// Event reports one state transition.
type Event struct {
	State        State
	RemoteID     string
	URL          string
	ArtifactPath string
	Message      string
	Err          error
	At           time.Time
}

// Observer receives transitions in order on the runner goroutine.
type Observer func(Event)

// Options bound the polling loop and place the artifact.
type Options struct {
	PollInterval    time.Duration
	PollMaxInterval time.Duration
	Timeout         time.Duration
	OutputDir       string
}

// Request is one render attempt.
type Request struct {
	Edit Edit
	// Name is the artifact base name; the output format supplies the extension.
	Name string
}

// Outcome summarizes a finished attempt.
type Outcome struct {
	RemoteID     string
	State        State
	URL          string
	ArtifactPath string
	Bytes        int64
	Polls        int
}

// Runner drives a render request to a terminal state.
type Runner struct {
	svc    Service
	opts   Options
	logger *slog.Logger
}

const (
	defaultPollInterval = 10 * time.Second
	defaultArtifactName = "video"
	defaultFormat       = "mp4"
)

// NewRunner constructs a runner over svc.
func NewRunner(svc Service, opts Options, logger *slog.Logger) *Runner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PollMaxInterval < opts.PollInterval {
		opts.PollMaxInterval = opts.PollInterval
	}
	return &Runner{
		svc:    svc,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "render"),
	}
}

// ArtifactPath returns where a request named name with the given output
// format is saved.
func (r *Runner) ArtifactPath(name, format string) string {
	name = textutil.SanitizeFileName(name)
	if name == "" {
		name = defaultArtifactName
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = defaultFormat
	}
	return filepath.Join(r.opts.OutputDir, name+"."+format)
}

// Run submits req and polls until the job is done, failed, cancelled, or the
// deadline passes. Transport errors end the attempt without retry. The
// artifact is written only after the service reports done.
func (r *Runner) Run(ctx context.Context, req Request, observe Observer) (Outcome, error) {
	out := Outcome{State: StateIdle}
	logger := logging.WithContext(ctx, r.logger)
	emit := func(evt Event) {
		evt.At = time.Now().UTC()
		if evt.RemoteID == "" {
			evt.RemoteID = out.RemoteID
		}
		out.State = evt.State
		attrs := []logging.Attr{
			logging.String("status", string(evt.State)),
			logging.EventType("render_status"),
		}
		if evt.RemoteID != "" {
			attrs = append(attrs, logging.String(logging.FieldRenderID, evt.RemoteID))
		}
		if evt.ArtifactPath != "" {
			attrs = append(attrs, logging.String("artifact_path", evt.ArtifactPath))
		}
		if evt.Err != nil {
			attrs = append(attrs, logging.Error(evt.Err))
			logging.WarnWithContext(logger, "render attempt ended", "render_failed",
				append(attrs,
					logging.String(logging.FieldErrorHint, "fix the reported problem and request the render again"),
					logging.String(logging.FieldImpact, "no video was produced by this attempt"),
				)...)
		} else {
			logger.Info("render state changed", logging.Args(attrs...)...)
		}
		if observe != nil {
			observe(evt)
		}
	}

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeoutCause(ctx, r.opts.Timeout, ErrTimeout)
	}
	defer cancel()

	logger.Debug("submitting render",
		logging.Int("tracks", len(req.Edit.Timeline.Tracks)),
		logging.Float64("timeout_seconds", r.opts.Timeout.Seconds()),
	)
	emit(Event{State: StateSubmitted})
	ack, err := r.svc.Submit(runCtx, req.Edit)
	if err == nil && strings.TrimSpace(ack.ID) == "" {
		err = ErrMissingJobID
	}
	if err != nil {
		state, err := r.stop(runCtx, err)
		emit(Event{State: state, Err: err})
		return out, err
	}
	out.RemoteID = ack.ID
	emit(Event{State: StateQueued, Message: ack.Message})

	interval := r.opts.PollInterval
	last := StateQueued
	for {
		if err := sleep(runCtx, interval); err != nil {
			state, err := r.stop(runCtx, err)
			emit(Event{State: state, Err: err})
			return out, err
		}
		interval = r.nextInterval(interval)

		status, err := r.svc.Status(runCtx, out.RemoteID)
		out.Polls++
		logger.Debug("render poll",
			logging.String(logging.FieldRenderID, out.RemoteID),
			logging.Int("poll", out.Polls),
			logging.Duration("next_interval", interval),
		)
		if err != nil {
			state, err := r.stop(runCtx, err)
			emit(Event{State: state, Err: err})
			return out, err
		}
		switch {
		case status.Status.inProgress():
			if status.Status != last {
				last = status.Status
				emit(Event{State: status.Status})
			}
		case status.Status == StateDone:
			out.URL = status.URL
			return r.finish(runCtx, req, out, emit)
		case status.Status == StateFailed:
			reason := status.Error
			if reason == "" {
				reason = "service reported failure"
			}
			err := fmt.Errorf("%w: %s", ErrRenderFailed, reason)
			emit(Event{State: StateFailed, Err: err})
			return out, err
		default:
			err := fmt.Errorf("%w: unknown status %q", ErrPoll, status.Status)
			emit(Event{State: StateFailed, Err: err})
			return out, err
		}
	}
}

func (r *Runner) finish(ctx context.Context, req Request, out Outcome, emit func(Event)) (Outcome, error) {
	if out.URL == "" {
		err := fmt.Errorf("%w: service reported done without an asset url", ErrArtifact)
		out.State = StateDone
		emit(Event{State: StateDone, URL: out.URL, Err: err})
		return out, err
	}
	path := r.ArtifactPath(req.Name, req.Edit.Output.Format)
	written, err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return r.svc.Download(ctx, out.URL, w)
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrArtifact, err)
		out.State = StateDone
		emit(Event{State: StateDone, URL: out.URL, Err: err})
		return out, err
	}
	out.ArtifactPath = path
	out.Bytes = written
	out.State = StateDone
	emit(Event{State: StateDone, URL: out.URL, ArtifactPath: path})
	return out, nil
}

// stop classifies why the attempt ended: the deadline is a failure, caller
// cancellation is cancelled, anything else is the transport error itself.
func (r *Runner) stop(ctx context.Context, err error) (State, error) {
	if ctx.Err() == nil {
		return StateFailed, err
	}
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrTimeout) || errors.Is(cause, context.DeadlineExceeded) {
		return StateFailed, fmt.Errorf("%w (timeout=%s)", ErrTimeout, r.opts.Timeout)
	}
	return StateCancelled, fmt.Errorf("%w: %w", ErrCancelled, cause)
}

func (r *Runner) nextInterval(current time.Duration) time.Duration {
	next := current * 2
	if next > r.opts.PollMaxInterval {
		return r.opts.PollMaxInterval
	}
	return next
}

func sleep(ctx context.Context, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
