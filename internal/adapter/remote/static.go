// Package remote links a code-hosting account for the onboarding steps.
// Linking is driven from configuration; no network calls are made.
package remote

import (
	"context"
	"slices"
	"strings"
	"sync"

	"bloop/internal/domain"
	"bloop/internal/infra/config"
)

// Account is the hook the connect and repo-select steps call.
type Account interface {
	Connect(ctx context.Context, token string) (string, error)
	Connected() bool
	Repos(ctx context.Context) ([]string, error)
}

// tokenPrefixes are the GitHub token formats accepted by Connect.
var tokenPrefixes = []string{"ghp_", "gho_", "github_pat_"}

// StaticAccount is an Account backed by configuration. A configured token
// makes it start out connected.
type StaticAccount struct {
	mu        sync.RWMutex
	provider  string
	account   string
	repos     []string
	connected bool
}

// NewStatic creates a StaticAccount from cfg.
func NewStatic(cfg config.RemoteConfig) *StaticAccount {
	a := &StaticAccount{
		provider: cfg.Provider,
		account:  cfg.Account,
		repos:    slices.Clone(cfg.Repos),
	}
	slices.Sort(a.repos)
	if cfg.Token != "" && validToken(cfg.Token) {
		a.connected = true
		if a.account == "" {
			a.account = defaultAccount
		}
	}
	return a
}

const defaultAccount = "github-user"

// Connect checks token and links the account, returning the account name.
func (a *StaticAccount) Connect(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.WrapOp("remote.Connect", err)
	}
	token = strings.TrimSpace(token)
	if !validToken(token) {
		return "", domain.NewDomainError("remote.Connect", domain.ErrInvalidToken,
			"expected a token starting with ghp_, gho_ or github_pat_")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = true
	if a.account == "" {
		a.account = defaultAccount
	}
	return a.account, nil
}

// Connected reports whether an account is linked.
func (a *StaticAccount) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.connected
}

// Repos lists the repositories available to the linked account.
func (a *StaticAccount) Repos(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapOp("remote.Repos", err)
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.connected {
		return nil, domain.NewDomainError("remote.Repos", domain.ErrRemoteUnavailable, "no account linked")
	}
	return slices.Clone(a.repos), nil
}

func validToken(token string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(token, p) && len(token) > len(p) {
			return true
		}
	}
	return false
}

var _ Account = (*StaticAccount)(nil)
