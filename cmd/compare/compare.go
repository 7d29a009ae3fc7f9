package compare

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/paularlott/cli"

	"github.com/confsnap/confsnap/internal/config"
	"github.com/confsnap/confsnap/internal/diff"
	"github.com/confsnap/confsnap/internal/runner"
	"github.com/confsnap/confsnap/internal/snapshot"
)

// Command returns the compare subcommand. It re-runs the snapshot
// comparison without connecting to any device.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "compare",
		Usage:       "Compare the two most recent snapshots per device",
		Description: "Compare the two most recent configuration snapshots of every device in the backup directory, without connecting to any device",
		Flags: []cli.Flag{
			config.BackupDirFlag(),
			config.OutputFlag(),
			&cli.StringFlag{
				Name:  "device",
				Usage: "Compare only the named devices (comma-separated)",
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.GetString("backup-dir")
			format := cmd.GetString("output")

			devices := splitList(cmd.GetString("device"))
			if len(devices) == 0 {
				var err error
				devices, err = snapshot.Devices(dir)
				if err != nil {
					return fmt.Errorf("scan backup directory: %w", err)
				}
			}
			if len(devices) == 0 {
				if format == diff.OutputText || format == "" {
					fmt.Printf("No snapshots found in %s\n", dir)
					return nil
				}
				return diff.Render(os.Stdout, format, nil)
			}

			return diff.Render(os.Stdout, format, runner.CompareDevices(dir, devices))
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
