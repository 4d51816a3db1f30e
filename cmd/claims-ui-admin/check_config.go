package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

func runCheckConfig(cmdCtx *commandContext, args []string) error {
	fs := pflag.NewFlagSet("check-config", pflag.ContinueOnError)
	quiet := fs.BoolP("quiet", "q", false, "Only report validation errors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := cmdCtx.Config
	if !*quiet {
		tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
		for _, row := range [][2]string{
			{"Listen address", cfg.HTTP.Addr()},
			{"Base URL", cfg.HTTP.BaseURL},
			{"Claims API", cfg.API.BaseURL},
			{"Claims per page", fmt.Sprint(cfg.Pagination.ClaimsPerPage)},
			{"Auth", authSummary(cfg.Auth.Enabled, string(cfg.Auth.Mode))},
			{"OIDC issuer", cfg.Auth.OIDC.IssuerURL},
			{"OIDC client secret", mask(cfg.Auth.OIDC.ClientSecret)},
			{"Redis", redisSummary(cmdCtx)},
			{"Session TTL", cfg.Session.TTL.String()},
			{"Session encryption", mask(cfg.Session.EncryptionKey)},
			{"StatsD", metricsSummary(cfg.Metrics.Enabled, cfg.Metrics.Addr)},
			{"Rate limit", fmt.Sprintf("%d per %s (enabled=%t)", cfg.RateLimit.Max, cfg.RateLimit.Window, cfg.RateLimit.Enabled)},
			{"Secure cookies", fmt.Sprint(cfg.SecureCookies())},
			{"Service name", cfg.Service.Name},
		} {
			writef(tw, "%s\t%s\n", row[0], row[1])
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flush table: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid:\n  %s", strings.ReplaceAll(err.Error(), "\n", "\n  "))
	}
	writef(cmdCtx.Out, "Configuration OK\n")
	return nil
}

func authSummary(enabled bool, mode string) string {
	if !enabled {
		return "disabled"
	}
	return mode
}

func redisSummary(cmdCtx *commandContext) string {
	r := cmdCtx.Config.Redis
	switch {
	case r.Disabled:
		return "disabled (memory)"
	case r.URL != "":
		return "url"
	default:
		return fmt.Sprintf("%s:%d tls=%t token=%s", r.Host, r.Port, r.TLS, mask(r.AuthToken))
	}
}

func metricsSummary(enabled bool, addr string) string {
	if !enabled {
		return "disabled"
	}
	return addr
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "****"
}
