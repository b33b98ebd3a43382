package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Event is a structured log record retained by an EventHub.
type Event struct {
	Sequence  uint64            `json:"seq"`
	Timestamp time.Time         `json:"ts"`
	Level     string            `json:"level"`
	Message   string            `json:"msg"`
	Component string            `json:"component,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	RenderID  string            `json:"render_id,omitempty"`
	EventType string            `json:"event_type,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// EventHub keeps a bounded window of recent log events.
type EventHub struct {
	mu       sync.Mutex
	capacity int
	buffer   []Event
	nextSeq  uint64
}

// NewEventHub constructs a hub that retains up to capacity events.
func NewEventHub(capacity int) *EventHub {
	if capacity <= 0 {
		capacity = 512
	}
	return &EventHub{capacity: capacity}
}

// Publish appends an event, evicting the oldest once the hub is full.
func (h *EventHub) Publish(evt Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSeq++
	evt.Sequence = h.nextSeq
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(h.buffer) == h.capacity {
		copy(h.buffer, h.buffer[1:])
		h.buffer = h.buffer[:h.capacity-1]
	}
	h.buffer = append(h.buffer, evt)
}

// Since returns up to limit events with a sequence greater than since, optionally
// restricted to one session, plus the latest sequence number issued.
func (h *EventHub) Since(since uint64, limit int, sessionID string) ([]Event, uint64) {
	if h == nil {
		return nil, since
	}
	if limit <= 0 || limit > h.capacity {
		limit = h.capacity
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, 0, min(limit, len(h.buffer)))
	for _, evt := range h.buffer {
		if evt.Sequence <= since {
			continue
		}
		if sessionID != "" && evt.SessionID != sessionID {
			continue
		}
		out = append(out, evt)
		if len(out) == limit {
			break
		}
	}
	return out, h.nextSeq
}

type hubHandler struct {
	hub   *EventHub
	level slog.Leveler
	attrs []slog.Attr
}

func newHubHandler(hub *EventHub, level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &hubHandler{hub: hub, level: level}
}

func (h *hubHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *hubHandler) Handle(_ context.Context, record slog.Record) error {
	evt := Event{
		Timestamp: record.Time,
		Level:     levelLabel(record.Level),
		Message:   strings.TrimSpace(record.Message),
	}
	for _, attr := range h.attrs {
		applyEventAttr(&evt, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		applyEventAttr(&evt, attr)
		return true
	})
	h.hub.Publish(evt)
	return nil
}

func (h *hubHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next = append(next, h.attrs...)
	next = append(next, attrs...)
	return &hubHandler{hub: h.hub, level: h.level, attrs: next}
}

func (h *hubHandler) WithGroup(string) slog.Handler {
	return h
}

func applyEventAttr(evt *Event, attr slog.Attr) {
	key := strings.TrimSpace(attr.Key)
	if key == "" {
		return
	}
	value := attrString(attr.Value)
	switch key {
	case FieldComponent:
		evt.Component = value
	case FieldSessionID:
		evt.SessionID = value
	case FieldRenderID:
		evt.RenderID = value
	case FieldEventType:
		evt.EventType = value
	default:
		if evt.Fields == nil {
			evt.Fields = make(map[string]string)
		}
		evt.Fields[key] = value
	}
}
