package logging_test

import (
	"log/slog"
	"testing"

	"clipwright/internal/config"
	"clipwright/internal/logging"
)

func TestEventHubCapturesSessionFields(t *testing.T) {
	hub := logging.NewEventHub(10)
	logger := slog.New(logging.HubHandler(hub, "info")).
		With(logging.String(logging.FieldSessionID, "sess-1")).
		With(logging.String(logging.FieldComponent, "render"))

	logger.Debug("dropped")
	logger.Info("render status", logging.String(logging.FieldRenderID, "job-1"), logging.String("status", "queued"))

	events, last := hub.Since(0, 0, "")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	evt := events[0]
	if evt.SessionID != "sess-1" || evt.RenderID != "job-1" || evt.Component != "render" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.Fields["status"] != "queued" {
		t.Fatalf("expected status field, got %v", evt.Fields)
	}
	if last != evt.Sequence {
		t.Fatalf("expected last sequence %d, got %d", evt.Sequence, last)
	}
}

func TestEventHubEvictsAndFilters(t *testing.T) {
	hub := logging.NewEventHub(3)
	for i, session := range []string{"a", "b", "a", "b", "a"} {
		hub.Publish(logging.Event{Message: string(rune('0' + i)), SessionID: session})
	}

	all, last := hub.Since(0, 0, "")
	if len(all) != 3 || all[0].Sequence != 3 || last != 5 {
		t.Fatalf("unexpected window %+v last=%d", all, last)
	}

	onlyA, _ := hub.Since(0, 0, "a")
	if len(onlyA) != 2 {
		t.Fatalf("expected 2 events for session a, got %d", len(onlyA))
	}

	after, _ := hub.Since(4, 10, "")
	if len(after) != 1 || after[0].Sequence != 5 {
		t.Fatalf("unexpected events after 4: %+v", after)
	}
}

func TestNewFromConfigWithHubTeesRecords(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	hub := logging.NewEventHub(0)

	logger, err := logging.NewFromConfigWithHub(&cfg, hub)
	if err != nil {
		t.Fatalf("NewFromConfigWithHub returned error: %v", err)
	}
	logger.Info("tee message")

	events, _ := hub.Since(0, 0, "")
	if len(events) != 1 || events[0].Message != "tee message" {
		t.Fatalf("expected tee message in hub, got %+v", events)
	}
}
