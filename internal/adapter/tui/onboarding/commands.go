package onboarding

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"bloop/internal/domain"
	"bloop/internal/infra/tracer"
	"bloop/internal/usecase/onboarding"
)

// connectCmd links the remote account asynchronously.
func connectCmd(ctx context.Context, timeout time.Duration, remote onboarding.RemoteAccount, token string) tea.Cmd {
	return func() tea.Msg {
		if remote == nil {
			return ConnectResultMsg{Token: token, Err: domain.ErrRemoteUnavailable}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ctx, span := tracer.StartSpan(ctx, "onboarding.remote.connect")
		defer span.End()

		account, err := remote.Connect(ctx, token)
		endHook(span, err)
		return ConnectResultMsg{Account: account, Token: token, Err: err}
	}
}

// reposCmd lists the linked account's repositories asynchronously.
func reposCmd(ctx context.Context, timeout time.Duration, remote onboarding.RemoteAccount) tea.Cmd {
	return func() tea.Msg {
		if remote == nil {
			return ReposResultMsg{Err: domain.ErrRemoteUnavailable}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ctx, span := tracer.StartSpan(ctx, "onboarding.remote.repos")
		defer span.End()

		repos, err := remote.Repos(ctx)
		span.SetAttributes(tracer.IntAttr("onboarding.repos", len(repos)))
		endHook(span, err)
		return ReposResultMsg{Repos: repos, Err: err}
	}
}

// scanCmd looks for repositories under folder asynchronously.
func scanCmd(ctx context.Context, timeout time.Duration, scanner onboarding.RepoScanner, folder string) tea.Cmd {
	return func() tea.Msg {
		if scanner == nil {
			return ScanResultMsg{Folder: folder, Err: domain.ErrNoRepositories}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ctx, span := tracer.StartSpan(ctx, "onboarding.localrepo.scan")
		defer span.End()
		span.SetAttributes(tracer.StringAttr("onboarding.folder", folder))

		repos, err := scanner.Scan(ctx, folder)
		span.SetAttributes(tracer.IntAttr("onboarding.repos", len(repos)))
		endHook(span, err)
		return ScanResultMsg{Folder: folder, Repos: repos, Err: err}
	}
}

func endHook(span trace.Span, err error) {
	if err != nil {
		tracer.RecordError(span, err)
		span.SetAttributes(tracer.StringAttr("error.code", string(domain.ErrorCodeOf(err))))
		return
	}
	tracer.SetOK(span)
}
