package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipwright/internal/session"
	"clipwright/internal/testsupport"
)

const introScript = `# intro
text add_text(Sport Time, 0.0, 5.0)
text change_text_color(Sport Time, #ff0000)
text change_text_color(Missing, #ff0000)
output change_output_fps(30)
`

func TestApplyFromFilePrintsReportAndEdit(t *testing.T) {
	env := setupCLITestEnv(t)
	script := filepath.Join(t.TempDir(), "intro.txt")
	if err := os.WriteFile(script, []byte(introScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	out, _, err := runCLI(t, []string{"apply", "-f", script, "--edit"}, env.configPath, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "add_text")
	requireContains(t, out, "applied")
	requireContains(t, out, "lookup_miss")
	requireContains(t, out, `"fps": 30`)
	requireContains(t, out, "Sport Time")
}

func TestApplyJSONFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"apply", "--json"}, env.configPath, "text add_text(Hello, 0.0, 2.0)\n")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	var report session.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Steps) != 1 || report.Steps[0].Result.Outcome != "applied" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestApplyStopsAtFatalError(t *testing.T) {
	env := setupCLITestEnv(t)
	script := "text add_text(Hello, 0.0, 2.0)\ntext rotate_text(Hello, 720)\ntext change_text(Hello, Bye)\n"
	out, _, err := runCLI(t, []string{"apply"}, env.configPath, script)
	if err == nil {
		t.Fatal("expected out-of-range rotate to fail")
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Fatalf("expected error to name step 2, got %v", err)
	}
	if strings.Contains(out, "change_text") {
		t.Fatalf("expected execution to stop before step 3:\n%s", out)
	}
}

func TestApplyRejectsEmptyInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"apply"}, env.configPath, "# nothing\n\n"); err == nil {
		t.Fatal("expected error for empty instruction input")
	}
}

func TestApplyRenderWithoutKeyFails(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutRenderKey())
	_, _, err := runCLI(t, []string{"apply", "--render"}, env.configPath, "text add_text(Hello, 0.0, 2.0)\n")
	if err == nil {
		t.Fatal("expected render without api key to fail")
	}
	requireContains(t, err.Error(), "api key")
}

func TestSessionREPL(t *testing.T) {
	env := setupCLITestEnv(t)
	input := strings.Join([]string{
		"text add_text(Hello, 0.0, 2.0)",
		"make it pop",
		"edit",
		"quit",
	}, "\n")
	out, _, err := runCLI(t, []string{"session", "--name", "promo"}, env.configPath, input)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	requireContains(t, out, "Session promo")
	requireContains(t, out, "applied")
	requireContains(t, out, "free text needs a chat model")
	requireContains(t, out, `"text": "Hello"`)
}
