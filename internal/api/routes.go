package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"clipwright/internal/jobs"
	"clipwright/internal/logging"
	"clipwright/internal/resolver"
	"clipwright/internal/router"
	"clipwright/internal/services"
	"clipwright/internal/session"
)

const maxBodyBytes = 1 << 20

var errBadBody = fmt.Errorf("%w: malformed request body", services.ErrValidation)

// Config wires the API to its collaborators. Jobs and Hub may be nil.
type Config struct {
	Sessions  *session.Manager
	Jobs      *jobs.Store
	Hub       *logging.EventHub
	Token     string
	Version   string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	logger := logging.NewComponentLogger(cfg.Logger, "api")
	h := &handlers{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))

	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Token, logger))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.createSession)
			r.Get("/", h.listSessions)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getSession)
				r.Delete("/", h.deleteSession)
				r.Post("/commands", h.applyCommand)
				r.Post("/plan", h.executePlan)
				r.Post("/utterances", h.utter)
				r.Post("/render", h.startRender)
				r.Post("/render/cancel", h.cancelRender)
			})
		})
		r.Get("/renders", h.listRenders)
		r.Get("/renders/{id}", h.getRender)
		r.Get("/logs", h.logs)
	})
	return r
}

type handlers struct {
	cfg    Config
	logger *slog.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  h.cfg.Version,
		UptimeS:  int64(time.Since(h.cfg.StartTime).Seconds()),
		Sessions: len(h.cfg.Sessions.List()),
	})
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteServiceError(w, err)
		return
	}
	s := h.cfg.Sessions.Create(req.Name)
	WriteJSON(w, http.StatusCreated, s.Info())
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	list := h.cfg.Sessions.List()
	out := make([]session.Info, 0, len(list))
	for _, s := range list {
		out = append(out, s.Info())
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h *handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.cfg.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, err)
		return nil, false
	}
	return s, true
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		WriteJSON(w, http.StatusOK, s.Info())
	}
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) applyCommand(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CommandRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteServiceError(w, err)
		return
	}
	in, err := req.Instruction()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	report, err := s.Execute(r.Context(), resolver.Plan{Steps: []router.Instruction{in}})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func (h *handlers) executePlan(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req PlanRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteServiceError(w, err)
		return
	}
	plan, err := req.plan()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	report, err := s.Execute(r.Context(), plan)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func (h *handlers) utter(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req UtteranceRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteServiceError(w, err)
		return
	}
	report, err := s.Utter(r.Context(), req.Text)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func (h *handlers) startRender(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.StartRender(r.Context()); err != nil {
		WriteServiceError(w, err)
		return
	}
	last, _ := s.LastRender()
	WriteJSON(w, http.StatusAccepted, RenderAccepted{SessionID: s.ID(), JobID: last.JobID, State: string(last.State)})
}

func (h *handlers) cancelRender(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		WriteJSON(w, http.StatusOK, CancelResponse{Cancelled: s.Cancel()})
	}
}

func (h *handlers) listRenders(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Jobs == nil {
		WriteJSON(w, http.StatusOK, RenderListResponse{Jobs: []RenderJob{}})
		return
	}
	ctx := r.Context()
	query := r.URL.Query()

	var (
		rows []*jobs.Job
		err  error
	)
	if sessionID := strings.TrimSpace(query.Get("session")); sessionID != "" {
		rows, err = h.cfg.Jobs.ListBySession(ctx, sessionID)
	} else {
		var statuses []jobs.Status
		for _, value := range query["status"] {
			status, ok := jobs.ParseStatus(value)
			if !ok {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", value), "validation")
				return
			}
			statuses = append(statuses, status)
		}
		rows, err = h.cfg.Jobs.List(ctx, statuses...)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}
	summary, err := h.cfg.Jobs.Summary(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}
	resp := RenderListResponse{Jobs: make([]RenderJob, 0, len(rows)), Summary: summary}
	for _, row := range rows {
		resp.Jobs = append(resp.Jobs, FromJob(row))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getRender(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid render id", "validation")
		return
	}
	if h.cfg.Jobs == nil {
		WriteError(w, http.StatusNotFound, "render not found", "not_found")
		return
	}
	job, err := h.cfg.Jobs.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}
	if job == nil {
		WriteError(w, http.StatusNotFound, "render not found", "not_found")
		return
	}
	WriteJSON(w, http.StatusOK, FromJob(job))
}

func (h *handlers) logs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	since, _ := strconv.ParseUint(query.Get("since"), 10, 64)
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 200
	}
	events, next := h.cfg.Hub.Since(since, limit, strings.TrimSpace(query.Get("session")))
	if events == nil {
		events = []logging.Event{}
	}
	WriteJSON(w, http.StatusOK, LogStreamResponse{Events: events, Next: next})
}

func (p PlanRequest) plan() (resolver.Plan, error) {
	if strings.TrimSpace(p.Lines) != "" {
		return resolver.ParseLines(p.Lines)
	}
	var plan resolver.Plan
	for i, step := range p.Steps {
		in, err := step.Instruction()
		if err != nil {
			return resolver.Plan{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		plan.Steps = append(plan.Steps, in)
	}
	return plan, nil
}

// decodeBody reads a JSON body. allowEmpty accepts a missing body.
func decodeBody(r *http.Request, target any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}
