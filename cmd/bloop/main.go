package main

import (
	"fmt"
	"os"
	"strings"

	"bloop/internal/infra/config"
)

func main() {
	// Handle help flag first
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	command := "onboard"
	if len(os.Args) >= 2 && !strings.HasPrefix(os.Args[1], "-") {
		command = os.Args[1]
	}
	flags := parseFlags(os.Args[1:])

	var err error
	switch command {
	case "onboard":
		err = runOnboard(flags)
	case "steps":
		err = runSteps(os.Stdout, flags)
	case "doctor":
		err = runDoctor(os.Stdout, flags.configPath())
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'bloop --help' for usage information.\n", command)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`bloop - first-run onboarding

USAGE:
    bloop [COMMAND] [FLAGS]

COMMANDS:
    onboard     Run the onboarding wizard (default)
    steps       Print the step path and transition table
    doctor      Check config, folders and accounts

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./bloop.yaml)
    --self-serve       Collapse onboarding to the self-serve step
    --force            Run onboarding even if it was completed before
    --connected        (steps) Show edges as if GitHub were connected

CONFIGURATION:
    Config file: ./bloop.yaml
    Environment: BLOOP_* variables override config
    BLOOP_CONFIG_KEY   Encrypts the saved GitHub token

EXAMPLES:
    bloop                          # Onboard with ./bloop.yaml
    bloop onboard --force          # Start over
    bloop steps --connected        # Inspect navigation
    bloop doctor                   # Check the saved setup`)
}

// cliFlags holds the flags shared by all commands.
type cliFlags struct {
	Config    string
	SelfServe bool
	Force     bool
	Connected bool
}

// parseFlags extracts known flags from args and ignores everything else.
func parseFlags(args []string) cliFlags {
	var flags cliFlags
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--config" && i+1 < len(args):
			flags.Config = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.Config = strings.TrimPrefix(arg, "--config=")
		case arg == "--self-serve":
			flags.SelfServe = true
		case arg == "--force":
			flags.Force = true
		case arg == "--connected":
			flags.Connected = true
		}
	}
	return flags
}

// configPath resolves --config, then BLOOP_CONFIG, then the default.
func (f cliFlags) configPath() string {
	if f.Config != "" {
		return f.Config
	}
	if p := os.Getenv("BLOOP_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath
}
