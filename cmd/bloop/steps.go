package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bloop/internal/domain"
	"bloop/internal/usecase/onboarding"
)

// runSteps prints what every cursor position resolves to, and the edge
// table, for the capabilities given on the command line.
func runSteps(w io.Writer, flags cliFlags) error {
	caps := domain.Capabilities{
		SelfServe:              flags.SelfServe,
		RemoteAccountConnected: flags.Connected,
	}
	fmt.Fprintf(w, "Capabilities: self_serve=%t remote_account_connected=%t\n\n", caps.SelfServe, caps.RemoteAccountConnected)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CURSOR\tSTEP\tBACK\tTERMINAL")
	for cursor := -1; cursor <= domain.StepCount(); cursor++ {
		step, ok := onboarding.Resolve(cursor, caps)
		name := step.String()
		if !ok {
			name = "-"
		}
		back := "-"
		if ok {
			if t := onboarding.BackFrom(step, caps); !t.IsStay() {
				back = fmt.Sprintf("%d", t.Skip)
			}
		}
		terminal := ""
		if onboarding.IsTerminal(cursor, caps) {
			terminal = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", cursor, name, back, terminal)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nEdges:")
	for _, e := range onboarding.Edges() {
		fmt.Fprintf(w, "  %s\n", e)
	}

	path := make([]string, 0, domain.StepCount())
	for _, step := range domain.Steps() {
		path = append(path, step.String())
	}
	fmt.Fprintf(w, "\nPath:\n  %s\n", strings.Join(path, " -> "))
	return nil
}
