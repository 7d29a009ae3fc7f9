package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/paularlott/cli"
	yaml "gopkg.in/yaml.v2"

	"github.com/confsnap/confsnap/internal/config"
	"github.com/confsnap/confsnap/internal/inventory"
	"github.com/confsnap/confsnap/internal/probe"
	"github.com/confsnap/confsnap/internal/testbed"
)

// Command returns the probe subcommand. It checks management reachability
// of every inventory device without fetching any configuration.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "probe",
		Usage:       "Check management reachability of inventory devices",
		Description: "Open a TCP connection to the management address of every inventory device and optionally query its SNMP identity",
		Flags: []cli.Flag{
			config.InventoryFlag(),
			config.OutputFlag(),
			config.TimeoutFlag(),
			&cli.BoolFlag{
				Name:  "snmp",
				Usage: "Query sysName and sysDescr over SNMP",
			},
			&cli.StringFlag{
				Name:         "community",
				Usage:        "SNMP community string",
				DefaultValue: config.DefaultSNMPCommunity,
				EnvVars:      []string{"CONFSNAP_SNMP_COMMUNITY"},
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

			opts := []probe.Option{
				probe.WithTimeout(time.Duration(cmd.GetInt("timeout")) * time.Second),
			}
			if cmd.GetBool("snmp") {
				opts = append(opts, probe.WithSNMP(cmd.GetString("community")))
			}

			results := probe.New(opts...).Run(ctx, tb)
			return render(results, cmd.GetString("output"))
		},
	}
}

func render(results []probe.Result, format string) error {
	switch format {
	case "text", "":
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "DEVICE\tADDRESS\tSTATUS\tLATENCY\tIDENTITY")
		reachable := 0
		for _, r := range results {
			status, latency, identity := "unreachable", "-", "-"
			if r.Reachable {
				reachable++
				status = "ok"
				latency = fmt.Sprintf("%dms", r.LatencyMS)
			}
			if r.SysName != "" {
				identity = r.SysName
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Device, r.Address, status, latency, identity)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d devices, %d reachable\n", len(results), reachable)
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		data, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
