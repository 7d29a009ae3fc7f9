package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/paularlott/cli"
	yaml "gopkg.in/yaml.v2"

	"github.com/confsnap/confsnap/internal/config"
	"github.com/confsnap/confsnap/internal/vcs"
)

// Command returns the history subcommand listing the commits of the
// backup repository.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "history",
		Usage:       "Show the backup history",
		Description: "List the commits of the backup repository, newest first",
		Flags: []cli.Flag{
			config.BackupDirFlag(),
			config.OutputFlag(),
			&cli.IntFlag{
				Name:         "limit",
				Aliases:      []string{"n"},
				Usage:        "Maximum number of commits to show (0 for all)",
				DefaultValue: config.DefaultHistoryLimit,
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.GetString("backup-dir")
			commits, err := vcs.History(dir, cmd.GetInt("limit"))
			if err != nil {
				return err
			}
			return render(dir, commits, cmd.GetString("output"))
		},
	}
}

func render(dir string, commits []vcs.Commit, format string) error {
	switch format {
	case "text", "":
		if len(commits) == 0 {
			fmt.Printf("No backup history in %s\n", dir)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "COMMIT\tDATE\tMESSAGE")
		for _, c := range commits {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Hash, c.When.Format("2006-01-02 15:04:05"), c.Message)
		}
		return w.Flush()
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(commits)
	case "yaml":
		data, err := yaml.Marshal(commits)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
