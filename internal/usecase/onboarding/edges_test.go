package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloop/internal/domain"
)

var (
	disconnected = domain.Capabilities{}
	connected    = domain.Capabilities{RemoteAccountConnected: true}
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		step         domain.Step
		forward      int
		backDisconn  int
		backConn     int
		hasBackwards bool
	}{
		{domain.StepDataForm, 1, 0, 0, false},
		{domain.StepFeatures, 1, 1, 1, true},
		{domain.StepRemoteServices, 1, 1, 1, true},
		{domain.StepGithubConnect, 1, 1, 1, true},
		{domain.StepGithubReposSelect, 1, 2, 2, true},
		{domain.StepFolderSelect, 1, 2, 1, true},
		{domain.StepLocalReposSelect, 1, 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			for _, caps := range []domain.Capabilities{disconnected, connected} {
				skip, ok := SkipFor(tt.step, domain.Forward, caps)
				require.True(t, ok)
				assert.Equal(t, tt.forward, skip)
			}

			skip, ok := SkipFor(tt.step, domain.Backward, disconnected)
			assert.Equal(t, tt.hasBackwards, ok)
			assert.Equal(t, tt.backDisconn, skip)

			skip, ok = SkipFor(tt.step, domain.Backward, connected)
			assert.Equal(t, tt.hasBackwards, ok)
			assert.Equal(t, tt.backConn, skip)
		})
	}
}

func TestFinishedHasNoEdges(t *testing.T) {
	_, ok := SkipFor(domain.StepFinished, domain.Forward, disconnected)
	assert.False(t, ok)
	_, ok = SkipFor(domain.StepFinished, domain.Backward, connected)
	assert.False(t, ok)
	assert.True(t, NextFrom(domain.StepFinished, false).IsStay())
}

func TestBackFrom(t *testing.T) {
	assert.Equal(t, domain.Back(2), BackFrom(domain.StepFolderSelect, disconnected))
	assert.Equal(t, domain.Back(1), BackFrom(domain.StepFolderSelect, connected))
	assert.Equal(t, domain.Back(2), BackFrom(domain.StepGithubReposSelect, disconnected))
	assert.Equal(t, domain.Back(2), BackFrom(domain.StepGithubReposSelect, connected))
	assert.True(t, BackFrom(domain.StepDataForm, connected).IsStay())
	assert.True(t, BackFrom(domain.StepSelfServe, connected).IsStay())
}

func TestNextFrom(t *testing.T) {
	assert.Equal(t, 1, NextFrom(domain.StepDataForm, false).Delta())
	assert.Equal(t, 2, NextFrom(domain.StepDataForm, true).Delta())
	assert.Equal(t, 2, NextFrom(domain.StepGithubConnect, true).Delta())
	assert.Equal(t, 1, NextFrom(domain.StepSelfServe, false).Delta())
}

func TestEdgesIsACopy(t *testing.T) {
	es := Edges()
	require.NotEmpty(t, es)
	es[0].Skip = 99
	skip, _ := SkipFor(es[0].From, es[0].Direction, disconnected)
	assert.NotEqual(t, 99, skip)
}

func TestEdgesCoverEveryInteriorStep(t *testing.T) {
	seen := map[domain.Step]bool{}
	for _, e := range Edges() {
		seen[e.From] = true
	}
	for _, s := range domain.Steps() {
		if s == domain.StepFinished {
			assert.False(t, seen[s])
			continue
		}
		assert.True(t, seen[s], "no edge leaves %s", s)
	}
}

// Forward then back returns to the origin, except across the two irregular
// edges where the documented skip distance applies instead.
func TestForwardThenBack(t *testing.T) {
	for _, caps := range []domain.Capabilities{disconnected, connected} {
		for _, from := range domain.Steps() {
			if from == domain.StepFinished {
				continue
			}
			landed := domain.Step(from.Index() + NextFrom(from, false).Delta())
			back := BackFrom(landed, caps)
			if landed == domain.StepFinished {
				assert.True(t, back.IsStay())
				continue
			}
			got := landed.Index() + back.Delta()

			want := from.Index()
			switch {
			case landed == domain.StepGithubReposSelect:
				want = from.Index() - 1
			case landed == domain.StepFolderSelect && !caps.RemoteAccountConnected:
				want = from.Index() - 1
			}
			assert.Equal(t, want, got, "from %s via %s caps %+v", from, landed, caps)
		}
	}
}
