// Package onboarding implements the first-run step sequencer: which step
// is current for a cursor and capability set, how far each step moves the
// cursor, and when onboarding is complete.
package onboarding

import "bloop/internal/domain"

// Resolve maps a cursor position to the step to render. It is pure.
//
// In self-serve mode every cursor resolves to the collapsed step. Otherwise
// the cursor indexes the ordered path; positions outside it resolve to
// (StepNone, false), which hosts render as nothing.
func Resolve(cursor int, caps domain.Capabilities) (domain.Step, bool) {
	if caps.SelfServe {
		return domain.StepSelfServe, true
	}
	if cursor < 0 || cursor >= domain.StepCount() {
		return domain.StepNone, false
	}
	return domain.Step(cursor), true
}

// TerminalCursor returns the cursor value at which onboarding completes.
func TerminalCursor(caps domain.Capabilities) int {
	if caps.SelfServe {
		return 1
	}
	return domain.StepFinished.Index()
}

// IsTerminal reports whether cursor is the completion position for caps.
func IsTerminal(cursor int, caps domain.Capabilities) bool {
	return cursor == TerminalCursor(caps)
}
