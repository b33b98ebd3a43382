package daemonrun

import (
	"os"
	"path/filepath"
	"testing"

	"clipwright/internal/testsupport"
)

func TestWritePIDFileRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.StateDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got := ReadPID(cfg); got != 0 {
		t.Fatalf("expected no pid before write, got %d", got)
	}
	if err := writePIDFile(PIDPath(cfg)); err != nil {
		t.Fatalf("writePIDFile returned error: %v", err)
	}
	if got := ReadPID(cfg); got != os.Getpid() {
		t.Fatalf("ReadPID = %d, want %d", got, os.Getpid())
	}
}

func TestEnsureCurrentLogPointerReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "clipwright-1.log")
	second := filepath.Join(dir, "clipwright-2.log")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte(filepath.Base(path)), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	if err := ensureCurrentLogPointer(dir, first); err != nil {
		t.Fatalf("ensureCurrentLogPointer returned error: %v", err)
	}
	if err := ensureCurrentLogPointer(dir, second); err != nil {
		t.Fatalf("ensureCurrentLogPointer returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "clipwright.log"))
	if err != nil {
		t.Fatalf("read pointer: %v", err)
	}
	if string(data) != "clipwright-2.log" {
		t.Fatalf("pointer resolves to %q", data)
	}
}
