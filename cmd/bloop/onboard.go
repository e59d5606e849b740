package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"bloop/internal/adapter/localrepo"
	"bloop/internal/adapter/remote"
	tuionboarding "bloop/internal/adapter/tui/onboarding"
	"bloop/internal/domain"
	"bloop/internal/infra/config"
	"bloop/internal/infra/logger"
	"bloop/internal/infra/tracer"
	"bloop/internal/usecase/eventbus"
	"bloop/internal/usecase/onboarding"
)

func runOnboard(flags cliFlags) error {
	// 1. Config
	path := flags.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if flags.SelfServe {
		cfg.Onboarding.SelfServe = true
	}
	if cfg.Profile.Completed() && !flags.Force {
		fmt.Printf("Onboarding already completed (%s). Run 'bloop onboard --force' to start over.\n", path)
		return nil
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(context.Background())

	// 3. Event bus
	bus := eventbus.New(log)
	journal := &eventbus.Journal{}
	bus.Subscribe(eventbus.LogHandler(log))
	bus.Subscribe(journal.Handle)

	// 4. Session and wizard
	session := newSession(cfg, log)
	log = logger.ForSession(log, session.ID)
	log.Info("onboarding starting", "config", path, "self_serve", cfg.Onboarding.SelfServe)

	model := tuionboarding.New(ctx, tuionboarding.Options{
		Session:     session,
		Events:      bus,
		Logger:      log,
		ClampCursor: cfg.Onboarding.ClampCursor,
		HookTimeout: cfg.Onboarding.HookTimeout,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := p.Run()
	bus.Close()
	if err != nil {
		return fmt.Errorf("onboarding wizard: %w", err)
	}

	final, ok := result.(tuionboarding.Model)
	if !ok {
		return fmt.Errorf("unexpected wizard result type")
	}
	if final.Cancelled() || !final.Finished() {
		fmt.Println("Onboarding cancelled.")
		return nil
	}

	// 5. Persist
	applySession(cfg, final.Session())
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Info("onboarding saved", "config", path,
		"steps", journal.Count(domain.EventStepChanged),
		"path", strings.Join(visitedSteps(journal.Events()), " > "))
	printSummary(os.Stdout, cfg, path)
	return nil
}

// newSession wires the hooks the step views call and pre-fills the
// profile from a previous run.
func newSession(cfg *config.Config, log *slog.Logger) *onboarding.Session {
	static := remote.NewStatic(cfg.Remote)
	s := onboarding.NewSession(onboarding.SessionOptions{
		SelfServe:    cfg.Onboarding.SelfServe,
		SkipFeatures: cfg.Onboarding.SkipFeatures,
		IndexFolder:  cfg.Onboarding.IndexFolder,
		Remote:       remote.NewGuarded(static, cfg.Remote, log),
		Scanner:      localrepo.New(cfg.Onboarding.ScanDepth, log),
	})

	prev := cfg.Profile
	s.Profile.Name = prev.Name
	s.Profile.Email = prev.Email
	s.Profile.Telemetry = prev.Telemetry
	s.Profile.RemoteRepos = prev.RemoteRepos
	s.Profile.LocalRepos = prev.LocalRepos
	if prev.IndexFolder != "" {
		s.Profile.IndexFolder = prev.IndexFolder
	}
	if static.Connected() {
		s.Token = cfg.Remote.Token
		s.Profile.RemoteAccount = cfg.Remote.Account
	}
	return s
}

// applySession copies a finished session into cfg.
func applySession(cfg *config.Config, s *onboarding.Session) {
	p := s.Profile
	p.OnboardingVersion = config.OnboardingVersion
	cfg.Profile = p
	cfg.Onboarding.IndexFolder = p.IndexFolder
	if s.Token != "" {
		cfg.Remote.Token = s.Token
		cfg.Remote.Account = p.RemoteAccount
	}
}

// visitedSteps lists the steps the run landed on, in order.
func visitedSteps(events []domain.Event) []string {
	var out []string
	for _, e := range events {
		if e.Type != domain.EventStepChanged {
			continue
		}
		var change domain.StepChange
		if err := json.Unmarshal(e.Payload, &change); err != nil {
			continue
		}
		out = append(out, change.Step)
	}
	return out
}

func printSummary(w io.Writer, cfg *config.Config, path string) {
	p := cfg.Profile
	fmt.Fprintf(w, "Onboarding complete. Saved to %s\n\n", path)
	if p.Name != "" {
		fmt.Fprintf(w, "  Name:          %s\n", p.Name)
	}
	if cfg.Onboarding.SelfServe {
		fmt.Fprintln(w, "  Mode:          self-serve")
		return
	}
	account := "not connected"
	if p.RemoteAccount != "" {
		account = p.RemoteAccount
	}
	fmt.Fprintf(w, "  GitHub:        %s\n", account)
	if len(p.RemoteRepos) > 0 {
		fmt.Fprintf(w, "  Remote repos:  %s\n", strings.Join(p.RemoteRepos, ", "))
	}
	fmt.Fprintf(w, "  Index folder:  %s\n", p.IndexFolder)
	fmt.Fprintf(w, "  Local repos:   %d selected\n", len(p.LocalRepos))
}
