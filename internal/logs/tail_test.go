package logs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipwright/internal/logs"
)

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipwright.log")
	content := strings.Join([]string{"one", "two", "three", "four"}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	lines, err := logs.LastLines(path, 2)
	if err != nil {
		t.Fatalf("LastLines returned error: %v", err)
	}
	if strings.Join(lines, ",") != "three,four" {
		t.Fatalf("unexpected lines: %v", lines)
	}

	lines, err = logs.LastLines(path, 10)
	if err != nil {
		t.Fatalf("LastLines returned error: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected all lines, got %v", lines)
	}
}

func TestLastLinesMissingFile(t *testing.T) {
	lines, err := logs.LastLines(filepath.Join(t.TempDir(), "missing.log"), 5)
	if err != nil || lines != nil {
		t.Fatalf("expected empty result, got %v, %v", lines, err)
	}
}
