package remote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"bloop/internal/domain"
	"bloop/internal/infra/config"
)

// Default guard settings.
const (
	defaultMaxFailures uint32        = 3
	defaultTimeout     time.Duration = 30 * time.Second
	defaultInterval    time.Duration = 60 * time.Second
	defaultPerMinute                 = 6
)

// Guarded wraps an Account with a circuit breaker and a limit on token
// submissions. A rejected token does not count as a breaker failure.
type Guarded struct {
	inner   Account
	breaker *gobreaker.CircuitBreaker[any]
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewGuarded wraps inner using cfg's breaker and rate settings; zero
// values fall back to defaults.
func NewGuarded(inner Account, cfg config.RemoteConfig, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	maxFailures := cfg.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}
	timeout := cfg.Breaker.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	interval := cfg.Breaker.Interval
	if interval == 0 {
		interval = defaultInterval
	}
	perMinute := cfg.ConnectPerMinute
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "remote:" + cfg.Provider,
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrInvalidToken)
		},
	})

	return &Guarded{
		inner:   inner,
		breaker: cb,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		logger:  logger,
	}
}

// Connect implements Account.
func (g *Guarded) Connect(ctx context.Context, token string) (string, error) {
	if !g.limiter.Allow() {
		err := domain.NewDomainError("remote.Connect", domain.ErrRemoteUnavailable,
			"too many attempts, wait a moment and retry")
		g.logger.Warn("remote connect rate limited", "code", domain.ErrorCodeOf(err), "error", err)
		return "", err
	}
	v, err := g.breaker.Execute(func() (any, error) {
		name, err := g.inner.Connect(ctx, token)
		return name, err
	})
	if err != nil {
		return "", g.breakerError("remote.Connect", err)
	}
	return v.(string), nil
}

// Connected implements Account. It does not pass through the breaker.
func (g *Guarded) Connected() bool { return g.inner.Connected() }

// Repos implements Account.
func (g *Guarded) Repos(ctx context.Context) ([]string, error) {
	v, err := g.breaker.Execute(func() (any, error) {
		repos, err := g.inner.Repos(ctx)
		return repos, err
	})
	if err != nil {
		return nil, g.breakerError("remote.Repos", err)
	}
	repos, _ := v.([]string)
	return repos, nil
}

// State returns the breaker state.
func (g *Guarded) State() gobreaker.State { return g.breaker.State() }

func (g *Guarded) breakerError(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = domain.NewDomainError(op, domain.ErrRemoteUnavailable, "circuit open: "+err.Error())
		g.logger.Warn("remote call rejected", "op", op, "state", g.State().String(),
			"code", domain.ErrorCodeOf(err), "error", err)
	}
	return err
}

var _ Account = (*Guarded)(nil)
