// Package uxerror turns hook and config errors into short messages with
// recovery hints for the onboarding screens.
package uxerror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bloop/internal/adapter/tui/theme"
	"bloop/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Token Rejected"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError as plain text.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

// View renders the error inline under a step body.
func (fe FriendlyError) View() string {
	var sb strings.Builder
	sb.WriteString(theme.TextError.Render(theme.SymbolError + " " + fe.Title))
	if fe.Message != "" {
		sb.WriteString("\n  " + fe.Message)
	}
	for _, h := range fe.Hints {
		sb.WriteString("\n  " + theme.TextMuted.Render(theme.SymbolBullet+" "+h))
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Sentinels first so errors.Is sees through wrapping.
	{
		match: is(domain.ErrInvalidToken),
		produce: constantError("Token Rejected", "That does not look like a GitHub access token.",
			[]string{"Paste a token starting with ghp_, gho_ or github_pat_", "Leave the field empty to skip GitHub for now"}),
	},
	{
		match: is(domain.ErrRemoteUnavailable),
		produce: constantError("GitHub Unavailable", "The account could not be reached right now.",
			[]string{"Wait a moment and try again", "Skip this step and connect later"}),
	},
	{
		match: is(domain.ErrFolderNotFound),
		produce: func(err error) FriendlyError {
			fe := FriendlyError{
				Title:   "Folder Not Found",
				Message: "Nothing exists at that path.",
				Hints:   []string{"Check the spelling", "Use an absolute path or ~/"},
				Raw:     err.Error(),
			}
			if _, rest, ok := strings.Cut(err.Error(), "did you mean "); ok {
				hint, _, _ := strings.Cut(rest, "?)")
				fe.Hints = append([]string{"Did you mean " + hint}, fe.Hints...)
			}
			return fe
		},
	},
	{
		match: is(domain.ErrNotADirectory),
		produce: constantError("Not a Folder", "That path points at a file.",
			[]string{"Choose the folder that contains your repositories"}),
	},
	{
		match: is(domain.ErrNoRepositories),
		produce: constantError("No Repositories Found", "No git repositories were found under that folder.",
			[]string{"Pick a folder that contains cloned repositories", "Go back and choose another folder"}),
	},
	{
		match: is(domain.ErrConfigLoad),
		produce: constantError("Config Could Not Be Read", "The configuration file is missing or malformed.",
			[]string{"Check the YAML syntax", "Pass another file with --config"}),
	},
	{
		match: is(domain.ErrDecryption),
		produce: constantError("Secret Could Not Be Decrypted", "The stored token does not match BLOOP_CONFIG_KEY.",
			[]string{"Export the key used when the config was saved", "Remove remote.token and connect again"}),
	},
	{
		match: func(err error) bool {
			return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrTimeout)
		},
		produce: constantError("Timed Out", "The operation took too long to complete.",
			[]string{"Try again", "Raise onboarding.hook_timeout in config"}),
	},
	{
		match:   is(context.Canceled),
		produce: constantError("Cancelled", "The operation was cancelled.", nil),
	},

	// External errors surface through wrapped strings.
	{
		match: containsAny("permission denied", "operation not permitted"),
		produce: constantError("Permission Denied", "bloop is not allowed to read that location.",
			[]string{"Choose a folder you own", "Check the folder permissions"}),
	},
	{
		match: containsAny("connection refused", "dial tcp", "no such host"),
		produce: constantError("Connection Failed", "Could not reach the remote service.",
			[]string{"Check your internet connection", "Check if a firewall is blocking the connection"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Run with BLOOP_LOGGER_LEVEL=debug and check the log file"},
		Raw:     err.Error(),
	}
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
