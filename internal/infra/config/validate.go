package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateOnboarding(cfg, ve)
	validateRemote(cfg, ve)
	validateProfile(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateOnboarding(cfg *Config, ve *ValidationError) {
	if cfg.Onboarding.ScanDepth < 1 {
		ve.Add("onboarding.scan_depth must be >= 1")
	}
	if cfg.Onboarding.HookTimeout <= 0 {
		ve.Add("onboarding.hook_timeout must be > 0")
	}
}

var validRemoteProviders = map[string]bool{
	"github": true,
}

func validateRemote(cfg *Config, ve *ValidationError) {
	r := cfg.Remote
	if !validRemoteProviders[r.Provider] {
		ve.Add("remote.provider %q is not supported (want github)", r.Provider)
	}
	if r.ConnectPerMinute < 1 {
		ve.Add("remote.connect_per_minute must be >= 1")
	}
	if r.Breaker.Timeout < 0 || r.Breaker.Interval < 0 {
		ve.Add("remote.breaker durations must not be negative")
	}
	for i, repo := range r.Repos {
		if owner, name, ok := strings.Cut(repo, "/"); !ok || owner == "" || name == "" {
			ve.Add("remote.repos[%d] %q must be owner/name", i, repo)
		}
	}
}

func validateProfile(cfg *Config, ve *ValidationError) {
	if cfg.Profile.OnboardingVersion < 0 {
		ve.Add("profile.onboarding_version must not be negative")
	}
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
	"":     true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogFormats[strings.ToLower(cfg.Logger.Format)] {
		ve.Add("logger.format %q must be text or json", cfg.Logger.Format)
	}
}

var validExporters = map[string]bool{
	"noop":   true,
	"stdout": true,
	"file":   true,
	"":       true,
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !validExporters[cfg.Tracer.Exporter] {
		ve.Add("tracer.exporter %q must be noop, stdout or file", cfg.Tracer.Exporter)
	}
	if cfg.Tracer.Enabled && cfg.Tracer.Exporter == "file" && cfg.Tracer.Endpoint == "" {
		ve.Add("tracer.endpoint is required for the file exporter")
	}
}
