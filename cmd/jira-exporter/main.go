package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/jira-exporter/cmd/jira-exporter/commands"
	"git.home.luguber.info/inful/jira-exporter/internal/config"
	"git.home.luguber.info/inful/jira-exporter/internal/version"
)

func main() {
	// .env must be in the environment before kong resolves env fallbacks.
	if _, err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "jira-exporter: load .env: %v\n", err)
		os.Exit(1)
	}

	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("jira-exporter"),
		kong.Description("Prometheus exporter for Jira issue counts by project and status."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := ctx.Run(&cli)
	if cerr := cli.Close(); cerr != nil && err == nil {
		err = cerr
	}
	ctx.FatalIfErrorf(err)
}
