package daemon_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"clipwright/internal/daemon"
	"clipwright/internal/jobs"
	"clipwright/internal/logging"
	"clipwright/internal/session"
	"clipwright/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, session.NewManager(session.Deps{}), logging.NewEventHub(8), logging.NewNop(), "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status(ctx)
	if !status.Running || status.Address == "" {
		t.Fatalf("expected daemon to report running with an address, got %+v", status)
	}

	resp, err := http.Get("http://" + status.Address + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if health.Status != "ok" || health.Version != "test" {
		t.Fatalf("unexpected health: %+v", health)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, testsupport.MustOpenStore(t, cfg), session.NewManager(session.Deps{}), nil, nil, "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(first.Stop)

	second, err := daemon.New(cfg, testsupport.MustOpenStore(t, cfg), session.NewManager(session.Deps{}), nil, nil, "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestStartFailsInterruptedRenders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	job, err := store.Create(ctx, "stale-session", "{}")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	d, err := daemon.New(cfg, store, session.NewManager(session.Deps{}), nil, nil, "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != jobs.StatusFailed {
		t.Fatalf("expected interrupted render to be failed, got %s", got.Status)
	}
}
