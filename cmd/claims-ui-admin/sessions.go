package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	redisadapter "github.com/ministryofjustice/claims-ui/internal/adapters/redis"
	"github.com/ministryofjustice/claims-ui/internal/bootstrap"
)

type sessionsOptions struct {
	JSON bool
}

type purgeOptions struct {
	DryRun bool
	Yes    bool
}

func parseSessionsFlags(args []string) (sessionsOptions, error) {
	fs := pflag.NewFlagSet("sessions", pflag.ContinueOnError)
	var opts sessionsOptions
	fs.BoolVar(&opts.JSON, "json", false, "Print sessions as JSON")
	if err := fs.Parse(args); err != nil {
		return sessionsOptions{}, err
	}
	return opts, nil
}

func parsePurgeFlags(args []string) (purgeOptions, error) {
	fs := pflag.NewFlagSet("purge-sessions", pflag.ContinueOnError)
	var opts purgeOptions
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count sessions without deleting them")
	fs.BoolVarP(&opts.Yes, "yes", "y", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return purgeOptions{}, err
	}
	return opts, nil
}

// withSessionStore connects Redis for the duration of fn.
func withSessionStore(cmdCtx *commandContext, fn func(*redisadapter.SessionStore) error) error {
	if cmdCtx.Config.Redis.Disabled {
		return errors.New("redis is disabled (DISABLE_REDIS=true); in-memory sessions cannot be inspected")
	}
	if err := cmdCtx.Config.Redis.Validate(); err != nil {
		return err
	}
	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close redis", "error", cerr)
		}
	}()
	store, err := bootstrap.NewRedisSessionStore(client, cmdCtx.Config.Session)
	if err != nil {
		return err
	}
	return fn(store)
}

func runSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionsFlags(args)
	if err != nil {
		return err
	}
	return withSessionStore(cmdCtx, func(store *redisadapter.SessionStore) error {
		sessions, err := store.List(cmdCtx.Ctx)
		if err != nil {
			return err
		}
		return printSessions(cmdCtx, sessions, opts)
	})
}

func printSessions(cmdCtx *commandContext, sessions []redisadapter.SessionInfo, opts sessionsOptions) error {
	if opts.JSON {
		type row struct {
			ID         string `json:"id"`
			UserID     string `json:"userId"`
			Email      string `json:"email"`
			TTLSeconds int64  `json:"ttlSeconds"`
		}
		rows := make([]row, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, row{ID: s.ID, UserID: s.UserID, Email: s.Email, TTLSeconds: int64(s.TTL / time.Second)})
		}
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(sessions) == 0 {
		writef(cmdCtx.Out, "No sessions found under prefix %q.\n", cmdCtx.Config.Session.Prefix)
		return nil
	}
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
	writef(tw, "SESSION\tUSER\tEMAIL\tEXPIRES IN\n")
	for _, s := range sessions {
		writef(tw, "%s\t%s\t%s\t%s\n", s.ID, s.UserID, s.Email, renderTTL(s.TTL))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	writef(cmdCtx.Out, "\n%d session(s)\n", len(sessions))
	return nil
}

func runPurgeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeFlags(args)
	if err != nil {
		return err
	}
	return withSessionStore(cmdCtx, func(store *redisadapter.SessionStore) error {
		if opts.DryRun {
			sessions, err := store.List(cmdCtx.Ctx)
			if err != nil {
				return err
			}
			writef(cmdCtx.Out, "Would delete %d session(s).\n", len(sessions))
			return nil
		}
		if !opts.Yes {
			if err := cmdCtx.confirm("About to delete every session, signing all users out. Continue?"); err != nil {
				return err
			}
		}
		n, err := store.Purge(cmdCtx.Ctx)
		if err != nil {
			return err
		}
		writef(cmdCtx.Out, "Deleted %d session(s).\n", n)
		return nil
	})
}

func renderTTL(d time.Duration) string {
	switch {
	case d == -1:
		return "no expiry"
	case d == -2:
		return "key missing"
	default:
		return d.Round(time.Second).String()
	}
}
