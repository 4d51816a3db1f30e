package main

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/bootstrap"
	"github.com/ministryofjustice/claims-ui/internal/stubapi"
)

type stubOptions struct {
	Addr        string
	DatabaseURL string
	Seed        int
	Token       string
	// KeepData skips reseeding a Postgres store that already has rows.
	KeepData bool
}

func parseStubFlags(args []string, defaults config.StubConfig) (stubOptions, error) {
	fs := pflag.NewFlagSet("stub-api", pflag.ContinueOnError)
	opts := stubOptions{}
	fs.StringVar(&opts.Addr, "addr", defaults.Addr, "Listen address")
	fs.StringVar(&opts.DatabaseURL, "database-url", defaults.DatabaseURL, "Postgres URL; empty keeps data in memory")
	fs.IntVar(&opts.Seed, "seed", defaults.SeedClaims, "Number of claims to seed")
	fs.StringVar(&opts.Token, "token", "", "Require this bearer token on API requests")
	fs.BoolVar(&opts.KeepData, "keep-data", false, "Do not reseed a Postgres store that already holds claims")
	if err := fs.Parse(args); err != nil {
		return stubOptions{}, err
	}

	opts.Addr = strings.TrimSpace(opts.Addr)
	if opts.Addr == "" {
		return stubOptions{}, errors.New("--addr is required")
	}
	if opts.Seed < 0 {
		return stubOptions{}, errors.New("--seed must not be negative")
	}
	if opts.KeepData && opts.DatabaseURL == "" {
		return stubOptions{}, errors.New("--keep-data requires --database-url")
	}
	return opts, nil
}

func runStubAPI(cmdCtx *commandContext, args []string) error {
	opts, err := parseStubFlags(args, cmdCtx.Config.Stub)
	if err != nil {
		return err
	}

	var store stubapi.Store = stubapi.NewMemoryStore()
	if opts.DatabaseURL != "" {
		pool, err := bootstrap.ConnectPostgres(cmdCtx.Ctx, opts.DatabaseURL, cmdCtx.Logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		pg, err := stubapi.NewPostgresStore(pool)
		if err != nil {
			return err
		}
		store = pg
		if opts.KeepData && hasClaims(cmdCtx, pool) {
			cmdCtx.Logger.Info("keeping existing stub data")
			return serveStub(cmdCtx, store, opts)
		}
	}

	if err := store.Load(cmdCtx.Ctx, stubapi.Seed(opts.Seed)); err != nil {
		return err
	}
	cmdCtx.Logger.Info("stub data seeded", "claims", opts.Seed, "postgres", opts.DatabaseURL != "")
	return serveStub(cmdCtx, store, opts)
}

func hasClaims(cmdCtx *commandContext, pool *pgxpool.Pool) bool {
	var exists bool
	if err := pool.QueryRow(cmdCtx.Ctx, `SELECT EXISTS(SELECT 1 FROM claims)`).Scan(&exists); err != nil {
		cmdCtx.Logger.Warn("check existing stub data", "error", err)
		return false
	}
	return exists
}

func serveStub(cmdCtx *commandContext, store stubapi.Store, opts stubOptions) error {
	srv, err := stubapi.NewServer(stubapi.Options{Store: store, Token: opts.Token, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	httpCfg := cmdCtx.Config.HTTP
	server := bootstrap.NewHTTPServer(httpCfg, srv.Handler())
	server.Addr = opts.Addr
	return bootstrap.RunWithShutdown(cmdCtx.Ctx, server, httpCfg.ShutdownTimeout, cmdCtx.Logger)
}
