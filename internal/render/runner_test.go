package render_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"clipwright/internal/edit"
	"clipwright/internal/render"
	"clipwright/internal/services"
)

type fakeService struct {
	mu          sync.Mutex
	submitted   []render.Edit
	ack         render.SubmitResponse
	submitErr   error
	statuses    []render.StatusResponse
	statusErr   error
	polls       int
	payload     string
	downloadErr error
}

func (f *fakeService) Submit(_ context.Context, doc render.Edit) (render.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, doc)
	return f.ack, f.submitErr
}

func (f *fakeService) Status(_ context.Context, _ string) (render.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return render.StatusResponse{}, f.statusErr
	}
	idx := f.polls
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	f.polls++
	return f.statuses[idx], nil
}

func (f *fakeService) Download(_ context.Context, _ string, w io.Writer) error {
	if f.downloadErr != nil {
		return f.downloadErr
	}
	_, err := io.WriteString(w, f.payload)
	return err
}

func fastOptions(dir string) render.Options {
	return render.Options{
		PollInterval:    time.Millisecond,
		PollMaxInterval: 4 * time.Millisecond,
		Timeout:         5 * time.Second,
		OutputDir:       dir,
	}
}

func collect(events *[]render.Event) render.Observer {
	return func(evt render.Event) { *events = append(*events, evt) }
}

func states(events []render.Event) []render.State {
	out := make([]render.State, 0, len(events))
	for _, evt := range events {
		out = append(out, evt.State)
	}
	return out
}

func TestRunnerSuccessfulRenderWritesArtifactOnDone(t *testing.T) {
	dir := t.TempDir()
	svc := &fakeService{
		ack: render.SubmitResponse{ID: "job-1"},
		statuses: []render.StatusResponse{
			{Status: render.StateQueued},
			{Status: render.StateRendering},
			{Status: render.StateRendering},
			{Status: render.StateDone, URL: "https://cdn.example.com/job-1.mp4"},
		},
		payload: "video-bytes",
	}
	runner := render.NewRunner(svc, fastOptions(dir), nil)
	wantPath := runner.ArtifactPath("Skate Edit", "mp4")

	var events []render.Event
	observe := func(evt render.Event) {
		if evt.State != render.StateDone {
			if _, err := os.Stat(wantPath); !os.IsNotExist(err) {
				t.Errorf("artifact present before done (state %s)", evt.State)
			}
		}
		events = append(events, evt)
	}
	out, err := runner.Run(context.Background(), render.Request{Edit: render.Edit{Output: render.Output{Format: "mp4"}}, Name: "Skate Edit"}, observe)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := []render.State{render.StateSubmitted, render.StateQueued, render.StateRendering, render.StateDone}
	if got := states(events); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected transitions: %v", got)
	}
	if out.State != render.StateDone || out.RemoteID != "job-1" || out.Polls != 4 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.ArtifactPath != filepath.Join(dir, "Skate Edit.mp4") {
		t.Fatalf("unexpected artifact path: %q", out.ArtifactPath)
	}
	data, err := os.ReadFile(out.ArtifactPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "video-bytes" || out.Bytes != int64(len("video-bytes")) {
		t.Fatalf("unexpected artifact content %q (%d bytes)", data, out.Bytes)
	}
	for _, evt := range events[1:] {
		if evt.RemoteID != "job-1" {
			t.Fatalf("expected remote id on %s event, got %q", evt.State, evt.RemoteID)
		}
	}
}

func TestRunnerFailedStatusWritesNothing(t *testing.T) {
	dir := t.TempDir()
	svc := &fakeService{
		ack: render.SubmitResponse{ID: "job-2"},
		statuses: []render.StatusResponse{
			{Status: render.StateQueued},
			{Status: render.StateFailed, Error: "asset unreachable"},
		},
	}
	var events []render.Event
	out, err := render.NewRunner(svc, fastOptions(dir), nil).Run(context.Background(), render.Request{Name: "failing"}, collect(&events))
	if !errors.Is(err, render.ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
	if out.State != render.StateFailed || out.ArtifactPath != "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no artifact, found %d files", len(entries))
	}
	last := events[len(events)-1]
	if last.State != render.StateFailed || last.Err == nil {
		t.Fatalf("expected failed event with error, got %+v", last)
	}
}

func TestRunnerSubmitErrorIsTerminalWithoutRetry(t *testing.T) {
	svc := &fakeService{submitErr: fmt.Errorf("%w: connection refused", render.ErrSubmit)}
	out, err := render.NewRunner(svc, fastOptions(t.TempDir()), nil).Run(context.Background(), render.Request{}, nil)
	if !errors.Is(err, render.ErrSubmit) {
		t.Fatalf("expected ErrSubmit, got %v", err)
	}
	if out.State != render.StateFailed {
		t.Fatalf("expected failed, got %s", out.State)
	}
	if len(svc.submitted) != 1 || svc.polls != 0 {
		t.Fatalf("expected one submit and no polls, got %d/%d", len(svc.submitted), svc.polls)
	}
}

func TestRunnerMissingJobIDFails(t *testing.T) {
	svc := &fakeService{ack: render.SubmitResponse{Message: "queued"}}
	out, err := render.NewRunner(svc, fastOptions(t.TempDir()), nil).Run(context.Background(), render.Request{}, nil)
	if !errors.Is(err, render.ErrMissingJobID) {
		t.Fatalf("expected ErrMissingJobID, got %v", err)
	}
	if out.State != render.StateFailed {
		t.Fatalf("expected failed, got %s", out.State)
	}
}

func TestRunnerPollErrorIsTerminal(t *testing.T) {
	svc := &fakeService{
		ack:       render.SubmitResponse{ID: "job-3"},
		statusErr: fmt.Errorf("%w: http 502", render.ErrPoll),
	}
	out, err := render.NewRunner(svc, fastOptions(t.TempDir()), nil).Run(context.Background(), render.Request{}, nil)
	if !errors.Is(err, render.ErrPoll) {
		t.Fatalf("expected ErrPoll, got %v", err)
	}
	if out.State != render.StateFailed || out.Polls != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestRunnerUnknownStatusFails(t *testing.T) {
	svc := &fakeService{
		ack:      render.SubmitResponse{ID: "job-4"},
		statuses: []render.StatusResponse{{Status: "exploded"}},
	}
	_, err := render.NewRunner(svc, fastOptions(t.TempDir()), nil).Run(context.Background(), render.Request{}, nil)
	if !errors.Is(err, render.ErrPoll) {
		t.Fatalf("expected ErrPoll, got %v", err)
	}
}

func TestRunnerDeadlineFailsWithTimeout(t *testing.T) {
	svc := &fakeService{
		ack:      render.SubmitResponse{ID: "job-5"},
		statuses: []render.StatusResponse{{Status: render.StateRendering}},
	}
	opts := fastOptions(t.TempDir())
	opts.Timeout = 30 * time.Millisecond
	out, err := render.NewRunner(svc, opts, nil).Run(context.Background(), render.Request{}, nil)
	if !errors.Is(err, render.ErrTimeout) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if out.State != render.StateFailed {
		t.Fatalf("expected failed, got %s", out.State)
	}
}

func TestRunnerCancelEndsInCancelledState(t *testing.T) {
	svc := &fakeService{
		ack:      render.SubmitResponse{ID: "job-6"},
		statuses: []render.StatusResponse{{Status: render.StateQueued}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var events []render.Event
	observe := func(evt render.Event) {
		events = append(events, evt)
		if evt.State == render.StateQueued {
			cancel()
		}
	}
	out, err := render.NewRunner(svc, fastOptions(t.TempDir()), nil).Run(ctx, render.Request{}, observe)
	if !errors.Is(err, render.ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if out.State != render.StateCancelled || !out.State.Terminal() {
		t.Fatalf("expected cancelled, got %s", out.State)
	}
	if events[len(events)-1].State != render.StateCancelled {
		t.Fatalf("expected final cancelled event, got %v", states(events))
	}
}

func TestRunnerDownloadFailureKeepsDoneState(t *testing.T) {
	svc := &fakeService{
		ack:         render.SubmitResponse{ID: "job-7"},
		statuses:    []render.StatusResponse{{Status: render.StateDone, URL: "https://cdn.example.com/x.mp4"}},
		downloadErr: errors.New("connection reset"),
	}
	out, err := render.NewRunner(svc, fastOptions(t.TempDir()), nil).Run(context.Background(), render.Request{}, nil)
	if !errors.Is(err, render.ErrArtifact) {
		t.Fatalf("expected ErrArtifact, got %v", err)
	}
	if out.State != render.StateDone || out.URL == "" || out.ArtifactPath != "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

// Drives the full path: commands, encode, client, poll loop, and download.
func TestEndToEndRenderAgainstService(t *testing.T) {
	var (
		mu       sync.Mutex
		polls    int
		received render.Edit
	)
	sequence := []string{"queued", "rendering", "done"}
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/render":
			if err := jsonDecode(r.Body, &received); err != nil {
				t.Errorf("decode submit: %v", err)
			}
			_, _ = io.WriteString(w, `{"success":true,"message":"Created","response":{"id":"e2e","message":"Render Successfully Queued"}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/render/e2e":
			status := sequence[min(polls, len(sequence)-1)]
			polls++
			url := ""
			if status == "done" {
				url = srv.URL + "/assets/e2e.mp4"
			}
			_, _ = fmt.Fprintf(w, `{"success":true,"message":"OK","response":{"id":"e2e","status":%q,"url":%q}}`, status, url)
		case r.URL.Path == "/assets/e2e.mp4":
			_, _ = io.WriteString(w, "rendered")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := edit.NewProject()
	mustRun(t, p, "add_video", "(u, skater, 0.0, 5.0)")
	mustRun(t, p, "add_text", "(Sport Time, 0.0, 7.0)")

	client := newTestClient(t, srv.URL)
	dir := t.TempDir()
	var events []render.Event
	out, err := render.NewRunner(client, fastOptions(dir), nil).Run(context.Background(), render.Request{Edit: render.Encode(p), Name: "video"}, collect(&events))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(received.Timeline.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(received.Timeline.Tracks))
	}
	if received.Timeline.Tracks[0].Clips[0].Asset.Type != "title" || received.Timeline.Tracks[1].Clips[0].Asset.Type != "video" {
		t.Fatalf("expected text track before video track: %+v", received.Timeline.Tracks)
	}
	want := []render.State{render.StateSubmitted, render.StateQueued, render.StateRendering, render.StateDone}
	if got := states(events); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected transitions: %v", got)
	}
	data, err := os.ReadFile(filepath.Join(dir, "video.mp4"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "rendered" || out.ArtifactPath == "" {
		t.Fatalf("unexpected artifact %q at %q", data, out.ArtifactPath)
	}
}
