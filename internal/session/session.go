package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipwright/internal/command"
	"clipwright/internal/edit"
	"clipwright/internal/jobs"
	"clipwright/internal/logging"
	"clipwright/internal/notifications"
	"clipwright/internal/render"
	"clipwright/internal/resolver"
	"clipwright/internal/router"
	"clipwright/internal/services"
)

// DefaultName names sessions created without one.
const DefaultName = "video"

var (
	// ErrRenderInProgress reports a render requested while another is running.
	ErrRenderInProgress = fmt.Errorf("%w: a render is already in progress", services.ErrConflict)
	// ErrNoRenderer reports a session built without render support.
	ErrNoRenderer = fmt.Errorf("%w: render service not configured", services.ErrConfiguration)
)

// Deps are the collaborators shared by sessions.
type Deps struct {
	// Renderer builds a render runner per attempt. Nil disables rendering.
	Renderer RunnerFactory
	// Resolver turns utterances into plans. Nil accepts direct instructions only.
	Resolver resolver.Resolver
	// Jobs records render history. Nil skips recording.
	Jobs     *jobs.Store
	Notifier notifications.Service
	Logger   *slog.Logger
}

// Session is one independent editing project.
type Session struct {
	id        string
	name      string
	createdAt time.Time
	deps      Deps
	router    *router.Router
	resolver  resolver.Resolver
	logger    *slog.Logger

	mu      sync.Mutex
	project *edit.Project

	renderMu sync.Mutex
	cancel   context.CancelCauseFunc
	last     *RenderReport
}

// New creates a session holding an empty project.
func New(name string, deps Deps) *Session {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(nil)
	}
	id := uuid.NewString()
	logger := deps.Logger.With(logging.String(logging.FieldSessionID, id))
	return &Session{
		id:        id,
		name:      name,
		createdAt: time.Now().UTC(),
		deps:      deps,
		router:    router.New(logger),
		resolver:  resolver.NewAuto(deps.Resolver),
		logger:    logging.NewComponentLogger(logger, "session"),
		project:   edit.NewProject(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// ArtifactName is the base name of the rendered file: the session name plus
// the first eight characters of its id, so sessions sharing a name never
// overwrite each other's artifact.
func (s *Session) ArtifactName() string {
	return s.name + "-" + s.id[:8]
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) context(ctx context.Context) context.Context {
	return services.WithSessionID(ctx, s.id)
}

// Apply runs one instruction against the project.
func (s *Session) Apply(ctx context.Context, in router.Instruction) (command.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Dispatch(s.context(ctx), s.project, in)
}

// StepResult records what one plan step did.
type StepResult struct {
	Instruction string         `json:"instruction"`
	Result      command.Result `json:"result"`
}

// Report summarizes an executed plan.
type Report struct {
	Reply  string        `json:"reply,omitempty"`
	Steps  []StepResult  `json:"steps"`
	Render *RenderReport `json:"render,omitempty"`
}

// Execute applies the plan steps in order and stops at the first fatal
// error. Non-fatal skips are reported and execution continues. A render step
// blocks until that render reaches a terminal state.
func (s *Session) Execute(ctx context.Context, plan resolver.Plan) (Report, error) {
	report := Report{Reply: plan.Reply, Steps: make([]StepResult, 0, len(plan.Steps))}
	for i, step := range plan.Steps {
		if step.IsRender() {
			rendered, err := s.Render(ctx)
			if err != nil {
				return report, fmt.Errorf("step %d (%s): %w", i+1, step, err)
			}
			report.Render = &rendered
			continue
		}
		result, err := s.Apply(ctx, step)
		if err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		report.Steps = append(report.Steps, StepResult{Instruction: step.String(), Result: result})
	}
	return report, nil
}

// Utter resolves free text or direct instructions and executes the plan.
func (s *Session) Utter(ctx context.Context, utterance string) (Report, error) {
	plan, err := s.resolver.Resolve(s.context(ctx), utterance)
	if err != nil {
		return Report{}, err
	}
	if plan.Empty() {
		return Report{Reply: plan.Reply}, nil
	}
	return s.Execute(ctx, plan)
}

// Snapshot returns a deep copy of the project.
func (s *Session) Snapshot() *edit.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Snapshot()
}

// Edit returns the render request body the project would submit now.
func (s *Session) Edit() render.Edit {
	return render.Encode(s.Snapshot())
}

// Info is the externally visible summary of a session.
type Info struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	CreatedAt  time.Time     `json:"createdAt"`
	Clips      int           `json:"clips"`
	Rendering  bool          `json:"rendering"`
	LastRender *RenderReport `json:"lastRender,omitempty"`
	Edit       render.Edit   `json:"edit"`
}

// Info summarizes the session.
func (s *Session) Info() Info {
	snap := s.Snapshot()
	last, rendering := s.LastRender()
	info := Info{
		ID:        s.id,
		Name:      s.name,
		CreatedAt: s.createdAt,
		Clips:     snap.ClipCount(),
		Rendering: rendering,
		Edit:      render.Encode(snap),
	}
	if last.State != "" {
		info.LastRender = &last
	}
	return info
}

// Close cancels any in-flight render.
func (s *Session) Close() {
	s.Cancel()
}
