package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	In     io.Reader
	Out    io.Writer
}

func main() {
	os.Exit(runMain(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)) //nolint:forbidigo // CLI exit status
}

// runMain dispatches one command and returns the process exit status.
func runMain(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) < 1 {
		printUsage(errOut)
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		writef(errOut, "unknown command %q\n\n", cmdName)
		printUsage(errOut)
		return 2
	}

	// Commands validate only the settings they use.
	cfg, err := bootstrap.ParseConfig()
	if err != nil {
		writef(errOut, "load config: %v\n", err)
		return 1
	}
	logger := bootstrap.InitLogger(cfg.Log)

	cmdCtx := &commandContext{Ctx: ctx, Logger: logger, Config: cfg, In: in, Out: out}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		writef(errOut, "%s: %v\n", cmdName, runErr)
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"stub-api": {
			name:        "stub-api",
			description: "Serve a seeded stand-in for the claims API",
			run:         runStubAPI,
		},
		"sessions": {
			name:        "sessions",
			description: "List signed-in sessions stored in Redis",
			run:         runSessions,
		},
		"purge-sessions": {
			name:        "purge-sessions",
			description: "Delete every session stored in Redis, signing all users out",
			run:         runPurgeSessions,
		},
		"check-config": {
			name:        "check-config",
			description: "Validate the environment configuration and print a summary",
			run:         runCheckConfig,
		},
	}
}

func printUsage(w io.Writer) {
	writef(w, "Usage: claims-ui-admin <command> [flags]\n\n")
	writef(w, "Available commands:\n")
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		writef(w, "  %-16s %s\n", name, cmds[name].description)
	}
}

// confirm asks a yes/no question on Out and reads the answer from In.
func (c *commandContext) confirm(question string) error {
	writef(c.Out, "%s [y/N]: ", question)
	resp, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func writef(w io.Writer, format string, args ...any) {
	// Terminal write failures are not actionable.
	_, _ = fmt.Fprintf(w, format, args...)
}
