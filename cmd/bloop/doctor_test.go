package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bloop/internal/infra/config"
)

func writeTestFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0600)
}

func TestCheckConfigFile_NotFound(t *testing.T) {
	result := checkConfigFile("/nonexistent/path/bloop.yaml", nil)(nil)
	if result.Status != StatusWarn {
		t.Errorf("expected WARN for missing config, got %s", result.Status)
	}
	if result.Fix == "" {
		t.Error("expected fix suggestion for missing config")
	}
}

func TestCheckConfigFile_LoadError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bloop.yaml")
	if err := writeTestFile(t, cfgPath, "invalid: {{yaml"); err != nil {
		t.Fatal(err)
	}

	result := checkConfigFile(cfgPath, &config.ValidationError{Errors: []string{"bad yaml"}})(nil)
	if result.Status != StatusFail {
		t.Errorf("expected FAIL for load error, got %s", result.Status)
	}
}

func TestCheckConfigFile_Valid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bloop.yaml")
	if err := writeTestFile(t, cfgPath, "onboarding:\n  scan_depth: 2"); err != nil {
		t.Fatal(err)
	}

	result := checkConfigFile(cfgPath, nil)(nil)
	if result.Status != StatusPass {
		t.Errorf("expected PASS for valid config, got %s: %s", result.Status, result.Message)
	}
}

func TestCheckOnboarding(t *testing.T) {
	cfg := config.Defaults()
	if got := checkOnboarding(cfg).Status; got != StatusWarn {
		t.Errorf("fresh config: got %s, want WARN", got)
	}
	cfg.Profile.OnboardingVersion = config.OnboardingVersion
	if got := checkOnboarding(cfg).Status; got != StatusPass {
		t.Errorf("completed: got %s, want PASS", got)
	}
}

func TestCheckIndexFolder(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "api", ".git"), 0700); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Profile.IndexFolder = root
	result := checkIndexFolder(cfg)
	if result.Status != StatusPass {
		t.Fatalf("expected PASS, got %s: %s", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "1 repositories") {
		t.Errorf("message = %q", result.Message)
	}

	cfg.Profile.IndexFolder = filepath.Join(root, "missing")
	result = checkIndexFolder(cfg)
	if result.Status != StatusFail {
		t.Errorf("missing folder: got %s, want FAIL", result.Status)
	}
	if !strings.Contains(result.Message, "Folder Not Found") {
		t.Errorf("message = %q", result.Message)
	}

	cfg.Profile.IndexFolder = ""
	cfg.Onboarding.IndexFolder = ""
	if got := checkIndexFolder(cfg).Status; got != StatusWarn {
		t.Errorf("unset folder: got %s, want WARN", got)
	}
}

func TestCheckRemoteToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  CheckStatus
	}{
		{"none", "", StatusWarn},
		{"valid", "ghp_abc123", StatusPass},
		{"invalid", "hunter2", StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Remote.Token = tt.token
			if got := checkRemoteToken(cfg).Status; got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckLogOutput(t *testing.T) {
	cfg := config.Defaults()
	cfg.Logger.Output = filepath.Join(t.TempDir(), "logs", "bloop.log")
	if got := checkLogOutput(cfg).Status; got != StatusPass {
		t.Errorf("writable path: got %s", got)
	}

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := writeTestFile(t, blocker, "x"); err != nil {
		t.Fatal(err)
	}
	cfg.Logger.Output = filepath.Join(blocker, "bloop.log")
	if got := checkLogOutput(cfg).Status; got != StatusFail {
		t.Errorf("blocked path: got %s", got)
	}
}

func TestCheckTracer(t *testing.T) {
	cfg := config.Defaults()
	if got := checkTracer(cfg).Status; got != StatusPass {
		t.Errorf("disabled: got %s", got)
	}

	cfg.Tracer.Enabled = true
	cfg.Tracer.Exporter = "file"
	cfg.Tracer.Endpoint = filepath.Join(t.TempDir(), "spans.json")
	if got := checkTracer(cfg).Status; got != StatusPass {
		t.Errorf("file exporter: got %s", got)
	}

	cfg.Tracer.Exporter = "jaeger"
	if got := checkTracer(cfg).Status; got != StatusFail {
		t.Errorf("bad exporter: got %s", got)
	}
}

func TestRunDoctor(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "code")
	if err := os.MkdirAll(filepath.Join(root, "api", ".git"), 0700); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "bloop.yaml")
	content := "profile:\n  onboarding_version: 1\n  index_folder: " + root +
		"\nremote:\n  token: ghp_abc123\n  account: ada\nlogger:\n  output: discard\n"
	if err := writeTestFile(t, cfgPath, content); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOOP_CONFIG_KEY", "")

	var buf bytes.Buffer
	if err := runDoctor(&buf, cfgPath); err != nil {
		t.Fatalf("runDoctor: %v\n%s", err, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Results: 6 passed, 0 warnings, 0 failed") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "linked as ada") {
		t.Errorf("missing account:\n%s", out)
	}
}

func TestRunDoctor_Failure(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bloop.yaml")
	content := "onboarding:\n  index_folder: " + dir + "\nremote:\n  token: hunter2\nlogger:\n  output: discard\n"
	if err := writeTestFile(t, cfgPath, content); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runDoctor(&buf, cfgPath); err == nil {
		t.Errorf("expected failure:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "[FAIL] GitHub token") {
		t.Errorf("missing token failure:\n%s", buf.String())
	}
}
