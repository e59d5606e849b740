package domain

import "fmt"

// Step identifies one onboarding step. The order of the constants is the
// default forward path; a cursor value is a Step index.
type Step int

const (
	StepDataForm Step = iota
	StepFeatures
	StepRemoteServices
	StepGithubConnect
	StepGithubReposSelect
	StepFolderSelect
	StepLocalReposSelect
	StepFinished
	stepCount // sentinel

	// StepSelfServe is the collapsed single step shown in self-serve
	// deployments. It is not part of the ordered path.
	StepSelfServe Step = 100

	// StepNone is returned when no step resolves for a cursor.
	StepNone Step = -1
)

var stepNames = [...]string{
	"data_form",
	"features",
	"remote_services",
	"github_connect",
	"github_repos_select",
	"folder_select",
	"local_repos_select",
	"finished",
}

func (s Step) String() string {
	switch {
	case s == StepSelfServe:
		return "self_serve"
	case s == StepNone:
		return "none"
	case s >= 0 && s < stepCount:
		return stepNames[s]
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Index returns the cursor position of s on the ordered path.
func (s Step) Index() int { return int(s) }

// Valid reports whether s lies on the ordered path (FINISHED included).
func (s Step) Valid() bool { return s >= 0 && s < stepCount }

// Steps returns the ordered path, DATA_FORM through FINISHED.
func Steps() []Step {
	out := make([]Step, 0, stepCount)
	for s := StepDataForm; s < stepCount; s++ {
		out = append(out, s)
	}
	return out
}

// StepCount is the number of positions on the ordered path.
func StepCount() int { return int(stepCount) }

// Capabilities are the runtime flags that shape navigation. The sequencer
// only ever reads them.
type Capabilities struct {
	SelfServe              bool `json:"self_serve" yaml:"self_serve"`
	RemoteAccountConnected bool `json:"remote_account_connected" yaml:"remote_account_connected"`
}

// Direction is the direction of a requested cursor move.
type Direction int

const (
	Stay Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "stay"
	}
}

// Transition is what a step view hands back to the sequencer instead of
// touching the cursor itself.
type Transition struct {
	Direction Direction
	Skip      int // positions to move
}

// StayPut requests no cursor move.
func StayPut() Transition { return Transition{Direction: Stay} }

// Next requests a single step forward.
func Next() Transition { return Transition{Direction: Forward, Skip: 1} }

// NextSkipOne requests a forward move that bypasses the following step.
func NextSkipOne() Transition { return Transition{Direction: Forward, Skip: 2} }

// Back requests a backward move of n positions.
func Back(n int) Transition { return Transition{Direction: Backward, Skip: n} }

// Valid reports whether t is a request the sequencer accepts: a stay, or
// a forward or backward move of at least one position.
func (t Transition) Valid() bool {
	switch t.Direction {
	case Stay:
		return true
	case Forward, Backward:
		return t.Skip >= 1
	default:
		return false
	}
}

// Delta returns the signed cursor delta of t.
func (t Transition) Delta() int {
	switch t.Direction {
	case Forward:
		return t.Skip
	case Backward:
		return -t.Skip
	default:
		return 0
	}
}

// IsStay reports whether t leaves the cursor where it is.
func (t Transition) IsStay() bool { return t.Direction == Stay }

func (t Transition) String() string {
	if t.IsStay() {
		return "stay"
	}
	return fmt.Sprintf("%s(%d)", t.Direction, t.Skip)
}
