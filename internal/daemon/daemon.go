package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"clipwright/internal/api"
	"clipwright/internal/config"
	"clipwright/internal/jobs"
	"clipwright/internal/logging"
	"clipwright/internal/session"
)

// ErrAlreadyRunning reports a second instance against the same state directory.
var ErrAlreadyRunning = errors.New("another clipwright daemon instance is already running")

// Daemon coordinates the API server and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *jobs.Store
	sessions *session.Manager
	hub      *logging.EventHub
	version  string

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	running  atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool         `json:"running"`
	PID          int          `json:"pid"`
	Address      string       `json:"address,omitempty"`
	DatabasePath string       `json:"databasePath"`
	LockFilePath string       `json:"lockFilePath"`
	Sessions     int          `json:"sessions"`
	Renders      jobs.Summary `json:"renders"`
}

// New constructs a daemon. hub may be nil.
func New(cfg *config.Config, store *jobs.Store, sessions *session.Manager, hub *logging.EventHub, logger *slog.Logger, version string) (*Daemon, error) {
	if cfg == nil || store == nil || sessions == nil {
		return nil, errors.New("daemon requires config, job store, and session manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		sessions: sessions,
		hub:      hub,
		version:  version,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock, recovers interrupted renders, and starts serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	if n, err := d.store.FailInterrupted(ctx); err != nil {
		logging.WarnWithContext(d.logger, "interrupted render recovery failed", "history_recovery_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale renders stay marked in flight"),
		)
	} else if n > 0 {
		d.logger.Info("marked interrupted renders as failed",
			logging.EventType("history_recovered"),
			logging.Int64("count", n),
		)
	}

	listener, err := net.Listen("tcp", d.cfg.API.Bind)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler: api.NewRouter(api.Config{
			Sessions:  d.sessions,
			Jobs:      d.store,
			Hub:       d.hub,
			Token:     d.cfg.API.Token,
			Version:   d.version,
			StartTime: time.Now(),
			Logger:    d.logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	d.mu.Lock()
	d.listener = listener
	d.server = server
	d.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("api server error", logging.Error(err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("clipwright daemon started",
		logging.EventType("daemon_started"),
		logging.String("address", listener.Addr().String()),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop cancels renders, shuts the API down, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.sessions.Close()

	d.mu.Lock()
	server := d.server
	d.server = nil
	d.listener = nil
	d.mu.Unlock()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("api shutdown incomplete", logging.Error(err))
		}
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("clipwright daemon stopped", logging.EventType("daemon_stopped"))
}

// Close stops the daemon and closes the job store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Addr returns the bound API address, or "" when not running.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Address:      d.Addr(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		Sessions:     len(d.sessions.List()),
	}
	if summary, err := d.store.Summary(ctx); err == nil {
		status.Renders = summary
	}
	return status
}
