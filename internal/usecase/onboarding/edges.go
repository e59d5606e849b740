package onboarding

import (
	"fmt"

	"bloop/internal/domain"
)

// Flag narrows an edge to one remote-account state.
type Flag int

const (
	FlagAny Flag = iota
	FlagConnected
	FlagDisconnected
)

func (f Flag) String() string {
	switch f {
	case FlagConnected:
		return "connected"
	case FlagDisconnected:
		return "disconnected"
	default:
		return "any"
	}
}

func (f Flag) matches(caps domain.Capabilities) bool {
	switch f {
	case FlagConnected:
		return caps.RemoteAccountConnected
	case FlagDisconnected:
		return !caps.RemoteAccountConnected
	default:
		return true
	}
}

// Edge is one row of the transition table.
type Edge struct {
	From      domain.Step
	Direction domain.Direction
	Flag      Flag
	Skip      int
}

func (e Edge) String() string {
	return fmt.Sprintf("%s %s [%s] %d", e.From, e.Direction, e.Flag, e.Skip)
}

// edges is the non-self-serve transition table. Flag-specific rows come
// before FlagAny rows for the same (step, direction).
var edges = []Edge{
	{domain.StepDataForm, domain.Forward, FlagAny, 1},

	{domain.StepFeatures, domain.Forward, FlagAny, 1},
	{domain.StepFeatures, domain.Backward, FlagAny, 1},

	{domain.StepRemoteServices, domain.Forward, FlagAny, 1},
	{domain.StepRemoteServices, domain.Backward, FlagAny, 1},

	{domain.StepGithubConnect, domain.Forward, FlagAny, 1},
	{domain.StepGithubConnect, domain.Backward, FlagAny, 1},

	// Returning from repo selection skips the connect step.
	{domain.StepGithubReposSelect, domain.Forward, FlagAny, 1},
	{domain.StepGithubReposSelect, domain.Backward, FlagAny, 2},

	{domain.StepFolderSelect, domain.Forward, FlagAny, 1},
	{domain.StepFolderSelect, domain.Backward, FlagConnected, 1},
	{domain.StepFolderSelect, domain.Backward, FlagDisconnected, 2},

	{domain.StepLocalReposSelect, domain.Forward, FlagAny, 1},
	{domain.StepLocalReposSelect, domain.Backward, FlagAny, 1},

	// The collapsed self-serve step completes on its first move.
	{domain.StepSelfServe, domain.Forward, FlagAny, 1},
}

// Edges returns a copy of the transition table.
func Edges() []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// SkipFor returns the skip distance for leaving step in dir under caps.
// The second result is false when the step has no such edge.
func SkipFor(step domain.Step, dir domain.Direction, caps domain.Capabilities) (int, bool) {
	for _, e := range edges {
		if e.From == step && e.Direction == dir && e.Flag.matches(caps) {
			return e.Skip, true
		}
	}
	return 0, false
}

// BackFrom is the transition a step view returns for its back action.
// Steps without a backward edge stay put.
func BackFrom(step domain.Step, caps domain.Capabilities) domain.Transition {
	skip, ok := SkipFor(step, domain.Backward, caps)
	if !ok {
		return domain.StayPut()
	}
	return domain.Back(skip)
}

// NextFrom is the transition a step view returns when it completes.
// skipOne bypasses the following step; the step view decides that.
func NextFrom(step domain.Step, skipOne bool) domain.Transition {
	skip, ok := SkipFor(step, domain.Forward, domain.Capabilities{})
	if !ok {
		return domain.StayPut()
	}
	if skipOne {
		skip++
	}
	return domain.Transition{Direction: domain.Forward, Skip: skip}
}
