package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/wolfeidau/bbprovision/cmd/bbprovision/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Setup     commands.SetupCmd    `cmd:"" help:"Create missing organizations and write the initial provider config"`
		Sync      commands.SyncCmd     `cmd:"" help:"Refresh provider config, trigger backfills and report unmapped devices"`
		Backfill  commands.BackfillCmd `cmd:"" help:"Trigger a backfill for existing organizations"`
		Unmapped  commands.UnmappedCmd `cmd:"" help:"List devices without an asset mapping"`
		Sandbox   commands.SandboxCmd  `cmd:"" help:"Serve an in-memory emulation of the backend"`
		Debug     bool                 `help:"Enable debug mode."`
		Telemetry bool                 `help:"Export traces and metrics over OTLP." env:"BB_TELEMETRY"`
		Version   kong.VersionFlag
	}
)

func main() {
	// values already in the environment win over .env
	_ = godotenv.Load(".env")

	vars := kong.Vars(commands.KongVars())
	vars["version"] = version

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("bbprovision"),
		kong.Description("Provision the BlackBerry Radar integration for tenant organizations."),
		vars,
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:     cli.Debug,
		Telemetry: cli.Telemetry,
		Version:   version,
		Stdout:    os.Stdout,
	})
	cmd.FatalIfErrorf(err)
}
