package main

import (
	"context"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"
	"golang.org/x/term"

	"github.com/confsnap/confsnap/cmd/compare"
	"github.com/confsnap/confsnap/cmd/history"
	"github.com/confsnap/confsnap/cmd/probe"
	"github.com/confsnap/confsnap/cmd/testbed"
	"github.com/confsnap/confsnap/internal/config"
	"github.com/confsnap/confsnap/internal/log"
	"github.com/confsnap/confsnap/internal/runner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "console", "")

	rootCmd := &cli.Command{
		Name:        "confsnap",
		Version:     version,
		Usage:       "Network device configuration backup tool",
		Description: "Back up the running configuration of the network devices listed in a CSV inventory, keep the snapshots in a git repository and report configuration drift between runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace, debug, info, warn, error)",
				DefaultValue: "info",
				EnvVars:      []string{"CONFSNAP_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json)",
				DefaultValue: "console",
				EnvVars:      []string{"CONFSNAP_LOG_FORMAT"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-file",
				Usage:        "Also write logs to this file, rotated daily",
				EnvVars:      []string{"CONFSNAP_LOG_FILE"},
				Global:       true,
			},
			&cli.BoolFlag{
				Name:         "no-color",
				Usage:        "Disable colored output",
				EnvVars:      []string{"CONFSNAP_NO_COLOR"},
				Global:       true,
			},
			config.InventoryFlag(),
			config.BackupDirFlag(),
			config.OutputFlag(),
			config.TimeoutFlag(),
			&cli.BoolFlag{
				Name:  "no-commit",
				Usage: "Disable committing backup to Git repository",
			},
			&cli.BoolFlag{
				Name:  "no-compare",
				Usage: "Disable configuration comparison",
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.Configure(cmd.GetString("log-level"), cmd.GetString("log-format"), cmd.GetString("log-file"))
			if cmd.GetBool("no-color") || !term.IsTerminal(int(os.Stdout.Fd())) {
				color.NoColor = true
			}
			return ctx, nil
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			log.Info("Starting backup run", "run_id", uuid.NewString(), "version", version)
			r := runner.New(runner.Options{
				InventoryPath: cmd.GetString("inventory"),
				BackupDir:     cmd.GetString("backup-dir"),
				NoCommit:      cmd.GetBool("no-commit"),
				NoCompare:     cmd.GetBool("no-compare"),
				Output:        cmd.GetString("output"),
				Timeout:       time.Duration(cmd.GetInt("timeout")) * time.Second,
			})
			return r.Run(ctx)
		},
		Commands: []*cli.Command{
			compare.Command(),
			probe.Command(),
			testbed.Command(),
			history.Command(),
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		log.Error("Command execution failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}
