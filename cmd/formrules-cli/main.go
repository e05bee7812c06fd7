package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// errInvalid marks a command that ran fine but found an invalid form.
var errInvalid = errors.New("form is invalid")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

var commands = []command{
	{name: "check", summary: "validate a form against a values file and print statuses", run: runCheck},
	{name: "lint", summary: "parse every directive and verify cross-field references", run: runLint},
	{name: "interactive", summary: "fill a form in the terminal", run: runInteractive},
}

func main() {
	code, err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("formrules: %v", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return 2, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return 1, err
	}
	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return 1, err
	}
	env := &cliEnv{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		err := cmd.run(ctx, env, args[1:])
		switch {
		case errors.Is(err, errInvalid):
			return 1, nil
		case errors.Is(err, flag.ErrHelp):
			return 2, nil
		case err != nil:
			return 1, err
		}
		return 0, nil
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)
	return 2, nil
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, "\nEnvironment: FORMRULES_FORMS, FORMRULES_OUTPUT, FORMRULES_THEME, FORMRULES_LOG_LEVEL, FORMRULES_LOG_FORMAT\n")
}
