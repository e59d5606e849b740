package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"bloop/internal/adapter/localrepo"
	"bloop/internal/adapter/remote"
	"bloop/internal/adapter/tui/uxerror"
	"bloop/internal/infra/config"
	"bloop/internal/infra/logger"
	"bloop/internal/infra/tracer"
)

// CheckStatus represents the result of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // optional fix suggestion
}

// Check is a named health check function.
type Check struct {
	Name string
	Fn   func(cfg *config.Config) CheckResult
}

// runDoctor executes all health checks and reports results.
func runDoctor(w io.Writer, cfgPath string) error {
	// Try to load config; the remaining checks fall back to defaults.
	cfg, cfgErr := config.Load(cfgPath)
	if cfg == nil {
		cfg = config.Defaults()
	}

	checks := []Check{
		{Name: "Config file", Fn: checkConfigFile(cfgPath, cfgErr)},
		{Name: "Onboarding", Fn: checkOnboarding},
		{Name: "Index folder", Fn: checkIndexFolder},
		{Name: "GitHub token", Fn: checkRemoteToken},
		{Name: "Log output", Fn: checkLogOutput},
		{Name: "Tracing", Fn: checkTracer},
	}

	fmt.Fprintln(w, "bloop doctor")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(cfg)
		result.Name = check.Name

		fmt.Fprintf(w, "  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		return fmt.Errorf("%d check(s) failed", fail)
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

// checkConfigFile returns a check that verifies the config file exists and loads.
func checkConfigFile(cfgPath string, cfgErr error) func(*config.Config) CheckResult {
	return func(_ *config.Config) CheckResult {
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no config file at %s, using defaults", cfgPath),
				Fix:     "Run 'bloop onboard' to create one",
			}
		}
		if cfgErr != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("config could not be loaded: %v", cfgErr),
				Fix:     "Check the YAML syntax and file permissions (0600)",
			}
		}
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("config loaded from %s", cfgPath),
		}
	}
}

func checkOnboarding(cfg *config.Config) CheckResult {
	if !cfg.Profile.Completed() {
		return CheckResult{
			Status:  StatusWarn,
			Message: "onboarding has not been completed",
			Fix:     "Run 'bloop onboard'",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("completed (version %d)", cfg.Profile.OnboardingVersion),
	}
}

func checkIndexFolder(cfg *config.Config) CheckResult {
	folder := cfg.Profile.IndexFolder
	if folder == "" {
		folder = cfg.Onboarding.IndexFolder
	}
	if folder == "" {
		return CheckResult{Status: StatusWarn, Message: "no index folder configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Onboarding.HookTimeout)
	defer cancel()
	repos, err := localrepo.New(cfg.Onboarding.ScanDepth, nil).Scan(ctx, folder)
	if err != nil {
		fe := uxerror.Humanize(err)
		result := CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s: %s", fe.Title, folder)}
		if len(fe.Hints) > 0 {
			result.Fix = fe.Hints[0]
		}
		return result
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%d repositories under %s", len(repos), folder),
	}
}

func checkRemoteToken(cfg *config.Config) CheckResult {
	if cfg.Remote.Token == "" {
		return CheckResult{
			Status:  StatusWarn,
			Message: "GitHub is not connected",
			Fix:     "Run 'bloop onboard --force' or set BLOOP_GITHUB_TOKEN",
		}
	}
	if !remote.NewStatic(cfg.Remote).Connected() {
		return CheckResult{
			Status:  StatusFail,
			Message: "saved token is not a GitHub access token",
			Fix:     "Tokens start with ghp_, gho_ or github_pat_",
		}
	}
	account := cfg.Remote.Account
	if account == "" {
		account = "unknown account"
	}
	return CheckResult{Status: StatusPass, Message: "linked as " + account}
}

func checkLogOutput(cfg *config.Config) CheckResult {
	log, closer, err := logger.New(cfg.Logger)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("cannot open %q: %v", cfg.Logger.Output, err),
			Fix:     "Set logger.output to a writable path or stderr",
		}
	}
	log.Debug("doctor log check")
	closer()
	return CheckResult{Status: StatusPass, Message: "writing to " + cfg.Logger.Output}
}

func checkTracer(cfg *config.Config) CheckResult {
	if !cfg.Tracer.Enabled {
		return CheckResult{Status: StatusPass, Message: "disabled"}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("tracer setup failed: %v", err),
			Fix:     "Use exporter noop, stdout or file",
		}
	}
	if err := shutdown(ctx); err != nil {
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("tracer shutdown: %v", err)}
	}
	return CheckResult{Status: StatusPass, Message: "exporting with " + cfg.Tracer.Exporter}
}
