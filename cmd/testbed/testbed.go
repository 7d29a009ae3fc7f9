package testbed

import (
	"context"
	"fmt"

	"github.com/paularlott/cli"

	"github.com/confsnap/confsnap/internal/config"
	"github.com/confsnap/confsnap/internal/inventory"
	"github.com/confsnap/confsnap/internal/testbed"
)

// Command returns the testbed subcommand. It prints the testbed generated
// from the inventory without connecting to any device.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "testbed",
		Usage:       "Print the testbed generated from the inventory",
		Description: "Build the connection testbed from the inventory file and print it as YAML. Passwords are redacted unless --show-secrets is given",
		Flags: []cli.Flag{
			config.InventoryFlag(),
			&cli.BoolFlag{
				Name:  "show-secrets",
				Usage: "Print credentials instead of redacting them",
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			records, err := inventory.Read(cmd.GetString("inventory"))
			if err != nil {
				return fmt.Errorf("read inventory: %w", err)
			}
			tb, err := testbed.Build(records)
			if err != nil {
				return fmt.Errorf("build testbed: %w", err)
			}

			if !cmd.GetBool("show-secrets") {
				tb = tb.Redacted()
			}
			data, err := tb.YAML()
			if err != nil {
				return fmt.Errorf("render testbed: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}
