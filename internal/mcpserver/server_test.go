package mcpserver_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"clipwright/internal/logging"
	"clipwright/internal/mcpserver"
	"clipwright/internal/render"
	"clipwright/internal/router"
	"clipwright/internal/session"
)

type doneRenderer struct{}

func (doneRenderer) Run(_ context.Context, req render.Request, observe render.Observer) (render.Outcome, error) {
	observe(render.Event{State: render.StateDone, RemoteID: "r-1", URL: "https://cdn.example.com/v.mp4"})
	return render.Outcome{RemoteID: "r-1", State: render.StateDone, URL: "https://cdn.example.com/v.mp4", Polls: 2}, nil
}

func connect(t *testing.T, s *session.Session) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	srv := mcpserver.New(s, "clipwright-test", "v0.0.1", logging.NewNop())

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Run(ctx, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer connectCancel()
	cs, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() {
		_ = cs.Close()
		cancel()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return cs
}

func decodeStructured[T any](t *testing.T, value any) T {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	return result
}

func TestListToolsExposesDomainsAndControls(t *testing.T) {
	cs := connect(t, session.New("promo", session.Deps{}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools returned error: %v", err)
	}
	names := make(map[string]string, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = tool.Description
	}
	for _, domain := range router.Domains() {
		if _, ok := names[mcpserver.ToolName(domain)]; !ok {
			t.Fatalf("missing tool for domain %s", domain)
		}
	}
	for _, name := range []string{"render_video", "list_commands", "project_snapshot"} {
		if _, ok := names[name]; !ok {
			t.Fatalf("missing tool %s", name)
		}
	}
	if !strings.Contains(names["video_agent"], "trim_video(") {
		t.Fatalf("video tool description lacks command list: %q", names["video_agent"])
	}
}

func TestDomainToolsApplyAndRejectForeignCommands(t *testing.T) {
	s := session.New("promo", session.Deps{})
	cs := connect(t, s)

	result := call(t, cs, "text_agent", map[string]any{"command": "add_text", "args": "(Sport Time, 0.0, 7.0)"})
	if result.IsError {
		t.Fatalf("add_text failed: %+v", result)
	}
	out := decodeStructured[mcpserver.CommandOutput](t, result.StructuredContent)
	if out.Outcome != "applied" || out.Target != "Sport Time" {
		t.Fatalf("unexpected output: %+v", out)
	}

	result = call(t, cs, "text_agent", map[string]any{"command": "change_text_color", "args": "(Missing, #ffffff)"})
	out = decodeStructured[mcpserver.CommandOutput](t, result.StructuredContent)
	if result.IsError || out.Outcome != "lookup_miss" || !strings.Contains(out.Message, "skip and continue") {
		t.Fatalf("expected lookup miss, got %+v", out)
	}

	result = call(t, cs, "video_agent", map[string]any{"command": "change_text_color", "args": "(Sport Time, #ffffff)"})
	if !result.IsError {
		t.Fatal("expected capability violation to be reported as a tool error")
	}

	if got := s.Snapshot().ClipCount(); got != 1 {
		t.Fatalf("expected 1 clip, got %d", got)
	}
}

func TestSnapshotAndCatalogTools(t *testing.T) {
	s := session.New("promo", session.Deps{})
	cs := connect(t, s)
	call(t, cs, "video_agent", map[string]any{"command": "add_video", "args": "(https://example.com/a.mp4, skater, 0.0, 5.0)"})

	snap := decodeStructured[mcpserver.SnapshotOutput](t, call(t, cs, "project_snapshot", map[string]any{}).StructuredContent)
	if snap.Clips != 1 || snap.SessionID != s.ID() {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	var edit render.Edit
	if err := json.Unmarshal([]byte(snap.Edit), &edit); err != nil {
		t.Fatalf("snapshot edit is not JSON: %v", err)
	}
	if len(edit.Timeline.Tracks) != 1 || edit.Timeline.Tracks[0].Clips[0].Asset.Src != "https://example.com/a.mp4" {
		t.Fatalf("unexpected edit: %+v", edit.Timeline)
	}

	catalog := decodeStructured[mcpserver.CommandCatalog](t, call(t, cs, "list_commands", map[string]any{"domain": "output"}).StructuredContent)
	if len(catalog.Domains) != 1 || catalog.Domains[0].Domain != "output_config" {
		t.Fatalf("unexpected catalog: %+v", catalog)
	}
	if len(catalog.Domains[0].Commands) != len(router.Commands(router.DomainOutput)) {
		t.Fatalf("unexpected command count: %d", len(catalog.Domains[0].Commands))
	}
}

func TestRenderTool(t *testing.T) {
	cs := connect(t, session.New("promo", session.Deps{}))
	if result := call(t, cs, "render_video", map[string]any{}); !result.IsError {
		t.Fatal("expected render without a service to fail")
	}

	cs = connect(t, session.New("promo", session.Deps{Renderer: func() (session.Renderer, error) { return doneRenderer{}, nil }}))
	result := call(t, cs, "render_video", map[string]any{})
	if result.IsError {
		t.Fatalf("render failed: %+v", result)
	}
	out := decodeStructured[mcpserver.RenderOutput](t, result.StructuredContent)
	if out.State != "done" || out.URL != "https://cdn.example.com/v.mp4" || out.Polls != 2 {
		t.Fatalf("unexpected render output: %+v", out)
	}
}
