package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"clipwright/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Render key set: yes")
	requireContains(t, out, "Render output: "+env.cfg.Paths.RenderDir)
	requireContains(t, out, "Notifications: no")

	target := filepath.Join(t.TempDir(), "nested", "clipwright", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	requireContains(t, out, "SHOTSTACK_KEY")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "", ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateJSONReport(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithoutRenderKey(),
		testsupport.WithAPIToken("secret"),
		testsupport.WithNtfyTopic("https://ntfy.example.com/clips"),
	)

	out, _, err := runCLI(t, []string{"config", "validate", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate --json: %v", err)
	}
	var report configReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Path != env.configPath || !report.FileExists {
		t.Fatalf("unexpected path fields: %+v", report)
	}
	if report.RenderKeySet {
		t.Fatal("expected render key to be reported unset")
	}
	if !report.APIAuth || !report.Notifications {
		t.Fatalf("expected api auth and notifications enabled: %+v", report)
	}
}
