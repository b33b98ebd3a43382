package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clipwright/internal/config"
	"clipwright/internal/jobs"
	"clipwright/internal/logging"
	"clipwright/internal/render"
	"clipwright/internal/services"
)

// Renderer drives one render request to a terminal state. *render.Runner
// satisfies it.
type Renderer interface {
	Run(ctx context.Context, req render.Request, observe render.Observer) (render.Outcome, error)
}

// RunnerFactory builds a renderer for one attempt.
type RunnerFactory func() (Renderer, error)

// RunnerFromConfig builds renderers backed by the configured render service.
// A missing API key surfaces as render.ErrNoCredentials when a render starts.
func RunnerFromConfig(cfg *config.Config, logger *slog.Logger) RunnerFactory {
	return func() (Renderer, error) {
		settings := cfg.GetRender()
		client, err := render.NewClient(render.ClientConfig{
			BaseURL:         settings.BaseURL,
			APIKey:          settings.APIKey,
			RequestTimeout:  settings.RequestTimeout,
			DownloadTimeout: settings.DownloadTimeout,
		})
		if err != nil {
			return nil, err
		}
		return render.NewRunner(client, render.Options{
			PollInterval:    settings.PollInterval,
			PollMaxInterval: settings.PollMaxInterval,
			Timeout:         settings.Timeout,
			OutputDir:       settings.OutputDir,
		}, logger), nil
	}
}

// errCancelRequested is the cancellation cause of Cancel.
var errCancelRequested = errors.New("render cancelled by request")

// RenderReport describes the latest render attempt of a session.
type RenderReport struct {
	JobID        int64        `json:"jobId,omitempty"`
	RemoteID     string       `json:"remoteId,omitempty"`
	State        render.State `json:"state"`
	URL          string       `json:"url,omitempty"`
	ArtifactPath string       `json:"artifactPath,omitempty"`
	Polls        int          `json:"polls"`
	Error        string       `json:"error,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Succeeded reports whether the attempt finished with a saved artifact.
func (r RenderReport) Succeeded() bool {
	return r.State == render.StateDone && r.Error == ""
}

// attempt is a render accepted by begin and not yet run.
type attempt struct {
	renderer Renderer
	request  render.Request
	ctx      context.Context
	cancel   context.CancelCauseFunc
	job      *jobs.Job
}

// Render submits a snapshot of the project and blocks until the attempt ends.
// Remote failures, timeouts and cancellation are reported in the returned
// report. An error is returned only when the render could not start.
func (s *Session) Render(ctx context.Context) (RenderReport, error) {
	att, err := s.begin(ctx)
	if err != nil {
		return RenderReport{}, err
	}
	return s.run(att), nil
}

// StartRender begins a render in the background and returns once it is
// accepted. Poll LastRender for progress.
func (s *Session) StartRender(ctx context.Context) error {
	att, err := s.begin(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	go s.run(att)
	return nil
}

// Cancel stops the in-flight render, if any, leaving it cancelled.
func (s *Session) Cancel() bool {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel(errCancelRequested)
	return true
}

// LastRender returns the latest render report and whether a render is running.
func (s *Session) LastRender() (RenderReport, bool) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.last == nil {
		return RenderReport{}, s.cancel != nil
	}
	return *s.last, s.cancel != nil
}

func (s *Session) begin(ctx context.Context) (*attempt, error) {
	if s.deps.Renderer == nil {
		return nil, ErrNoRenderer
	}
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.cancel != nil {
		return nil, ErrRenderInProgress
	}
	renderer, err := s.deps.Renderer()
	if err != nil {
		return nil, err
	}

	doc := s.Edit()
	runCtx, cancel := context.WithCancelCause(s.context(ctx))
	att := &attempt{
		renderer: renderer,
		request:  render.Request{Edit: doc, Name: s.ArtifactName()},
		ctx:      runCtx,
		cancel:   cancel,
	}
	att.job = s.recordJob(runCtx, doc)
	s.cancel = cancel
	s.last = &RenderReport{State: render.StateIdle, UpdatedAt: time.Now().UTC()}
	if att.job != nil {
		s.last.JobID = att.job.ID
	}
	return att, nil
}

func (s *Session) run(att *attempt) RenderReport {
	defer att.cancel(nil)
	outcome, err := att.renderer.Run(att.ctx, att.request, func(evt render.Event) {
		s.observe(att, evt)
	})

	s.renderMu.Lock()
	report := s.reportLocked()
	report.RemoteID = outcome.RemoteID
	report.State = outcome.State
	report.URL = outcome.URL
	report.ArtifactPath = outcome.ArtifactPath
	report.Polls = outcome.Polls
	if err != nil {
		report.Error = err.Error()
	}
	report.UpdatedAt = time.Now().UTC()
	s.last = &report
	s.cancel = nil
	s.renderMu.Unlock()

	s.notify(att.ctx, report, err)
	return report
}

// observe mirrors every transition into the session report and job row.
func (s *Session) observe(att *attempt, evt render.Event) {
	s.renderMu.Lock()
	report := s.reportLocked()
	report.State = evt.State
	if evt.RemoteID != "" {
		report.RemoteID = evt.RemoteID
	}
	if evt.URL != "" {
		report.URL = evt.URL
	}
	if evt.ArtifactPath != "" {
		report.ArtifactPath = evt.ArtifactPath
	}
	if evt.Err != nil {
		report.Error = evt.Err.Error()
	}
	report.UpdatedAt = evt.At
	s.last = &report
	s.renderMu.Unlock()

	if att.job == nil {
		return
	}
	status, ok := jobs.ParseStatus(string(evt.State))
	if !ok {
		return
	}
	att.job.Status = status
	att.job.RemoteID = report.RemoteID
	att.job.ResultURL = report.URL
	att.job.ArtifactPath = report.ArtifactPath
	att.job.ErrorMessage = report.Error
	ctx := context.WithoutCancel(att.ctx)
	if err := s.deps.Jobs.Update(ctx, att.job); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "render history update failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
			logging.String(logging.FieldImpact, "render history is stale; the render continues"),
			logging.Alert("history_out_of_sync"),
		)
	}
}

func (s *Session) reportLocked() RenderReport {
	if s.last == nil {
		return RenderReport{}
	}
	return *s.last
}

func (s *Session) recordJob(ctx context.Context, doc render.Edit) *jobs.Job {
	if s.deps.Jobs == nil {
		return nil
	}
	logger := logging.WithContext(ctx, s.logger)
	body, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("encode render request failed", logging.Error(err))
		body = nil
	}
	job, err := s.deps.Jobs.Create(ctx, s.id, string(body))
	if err != nil {
		logging.WarnWithContext(logger, "render history insert failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
			logging.String(logging.FieldImpact, "this render is not recorded in history"),
		)
		return nil
	}
	return job
}

func (s *Session) notify(ctx context.Context, report RenderReport, runErr error) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.WithContext(ctx, s.logger)
	var err error
	switch {
	case report.State == render.StateCancelled:
		return
	case runErr == nil && report.State == render.StateDone:
		err = s.deps.Notifier.NotifyRenderCompleted(ctx, s.name, report.URL, report.ArtifactPath)
	case runErr != nil:
		err = s.deps.Notifier.NotifyRenderFailed(ctx, s.name, runErr)
	default:
		return
	}
	if err != nil {
		logging.WarnWithContext(logger, "render notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

// Err returns a non-nil error when the attempt did not produce an artifact.
func (r RenderReport) Err() error {
	if r.Error == "" {
		return nil
	}
	return fmt.Errorf("%w: render %s: %s", services.ErrExternalTool, r.State, r.Error)
}
