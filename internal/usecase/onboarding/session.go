package onboarding

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"bloop/internal/domain"
)

// RemoteAccount links a code-hosting account. The step views call it
// without knowing how linking is done.
type RemoteAccount interface {
	Connect(ctx context.Context, token string) (string, error)
	Connected() bool
	Repos(ctx context.Context) ([]string, error)
}

// RepoScanner discovers local repositories under a folder.
type RepoScanner interface {
	Scan(ctx context.Context, root string) ([]domain.LocalRepo, error)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	SelfServe    bool
	SkipFeatures bool
	IndexFolder  string
	Remote       RemoteAccount
	Scanner      RepoScanner
}

// Session is one onboarding run: the profile being collected, the hooks
// the steps use, and the capability flags derived from them.
type Session struct {
	ID           string
	Profile      domain.Profile
	Remote       RemoteAccount
	Scanner      RepoScanner
	SkipFeatures bool
	// Token is the access token the remote account was linked with. It is
	// kept off Profile so it is only ever written through the config's
	// secret handling.
	Token     string
	selfServe bool
}

// NewSession creates a Session with a fresh id.
func NewSession(opts SessionOptions) *Session {
	return &Session{
		ID:           NewSessionID(time.Now()),
		Profile:      domain.Profile{IndexFolder: opts.IndexFolder, FeaturesSeen: opts.SkipFeatures},
		Remote:       opts.Remote,
		Scanner:      opts.Scanner,
		SkipFeatures: opts.SkipFeatures,
		selfServe:    opts.SelfServe,
	}
}

// Capabilities reports the session's current capability flags.
func (s *Session) Capabilities() domain.Capabilities {
	return domain.Capabilities{
		SelfServe:              s.selfServe,
		RemoteAccountConnected: s.Remote != nil && s.Remote.Connected(),
	}
}

// NewSequencer builds a Sequencer that reads this session's capabilities.
func (s *Session) NewSequencer(opts Options) *Sequencer {
	opts.Capabilities = s.Capabilities
	opts.SessionID = s.ID
	return New(opts)
}

// NewSessionID returns a ULID for t.
func NewSessionID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
