package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/confsnap/confsnap/internal/diff"
	"github.com/confsnap/confsnap/internal/gateway"
	"github.com/confsnap/confsnap/internal/inventory"
	"github.com/confsnap/confsnap/internal/log"
	"github.com/confsnap/confsnap/internal/snapshot"
	"github.com/confsnap/confsnap/internal/testbed"
	"github.com/confsnap/confsnap/internal/vcs"
)

// CommitTimeFormat is the human readable timestamp used in commit
// messages.
const CommitTimeFormat = "2006-01-02 15:04:05"

// Options controls a backup run.
type Options struct {
	InventoryPath string
	BackupDir     string
	NoCommit      bool
	NoCompare     bool
	Output        string
	Timeout       time.Duration
}

// Runner executes the backup pipeline: build a testbed from the
// inventory, snapshot every device, commit the backup directory and
// compare the two most recent snapshots per device.
type Runner struct {
	opts    Options
	out     io.Writer
	gateway func(*testbed.Testbed) gateway.Gateway
	commit  func(dir, message string) (string, error)
	now     func() time.Time
}

// New returns a Runner wired to the SSH gateway and the backup
// repository.
func New(opts Options) *Runner {
	return &Runner{
		opts: opts,
		out:  os.Stdout,
		gateway: func(tb *testbed.Testbed) gateway.Gateway {
			var gwOpts []gateway.Option
			if opts.Timeout > 0 {
				gwOpts = append(gwOpts, gateway.WithTimeout(opts.Timeout))
			}
			return gateway.NewSSH(tb, gwOpts...)
		},
		commit: vcs.CommitAll,
		now:    time.Now,
	}
}

// Run executes one backup run. Inventory and testbed problems abort the
// run; device failures are skipped inside the snapshot writer and a
// failed commit is reported without failing the run.
func (r *Runner) Run(ctx context.Context) error {
	records, err := inventory.Read(r.opts.InventoryPath)
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}

	tb, err := testbed.Build(records)
	if err != nil {
		return fmt.Errorf("build testbed: %w", err)
	}
	log.Info("Testbed ready", "devices", len(tb.DeviceNames()))

	written, err := snapshot.NewWriter(r.gateway(tb), r.opts.BackupDir).Run(ctx, tb)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		log.Warn("No snapshots were written, skipping commit and comparison")
		return nil
	}
	log.Info("Backup complete", "devices", len(tb.DeviceNames()), "snapshots", len(written))

	if !r.opts.NoCommit {
		message := "Backup on " + r.now().Format(CommitTimeFormat)
		hash, err := r.commit(r.opts.BackupDir, message)
		if err != nil {
			log.Error("Snapshot commit failed", "dir", r.opts.BackupDir, "error", err)
		} else {
			log.Info("Snapshots committed", "hash", hash, "message", message)
		}
	}

	if !r.opts.NoCompare {
		if r.opts.Output == diff.OutputText || r.opts.Output == "" {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, "Running configuration comparison...")
		}
		reports := CompareDevices(r.opts.BackupDir, tb.DeviceNames())
		if err := diff.Render(r.out, r.opts.Output, reports); err != nil {
			return err
		}
	}
	return nil
}

// CompareDevices compares the two most recent snapshots of every named
// device and returns one report per device, in the given order.
func CompareDevices(dir string, devices []string) []diff.Report {
	reports := make([]diff.Report, 0, len(devices))
	for _, name := range devices {
		reports = append(reports, compareDevice(dir, name))
	}
	return reports
}

func compareDevice(dir, name string) diff.Report {
	report := diff.Report{Device: name}

	latest, previous, err := snapshot.Latest(dir, name)
	if err != nil {
		log.Error("Snapshot lookup failed", "device", name, "error", err)
		report.Error = err.Error()
		return report
	}
	if latest == "" || previous == "" {
		report.Skipped = true
		return report
	}

	newSnap, err := snapshot.Load(latest)
	if err != nil {
		log.Error("Snapshot unreadable", "device", name, "path", latest, "error", err)
		report.Error = err.Error()
		return report
	}
	oldSnap, err := snapshot.Load(previous)
	if err != nil {
		log.Error("Snapshot unreadable", "device", name, "path", previous, "error", err)
		report.Error = err.Error()
		return report
	}

	report.Entries = diff.Compare(oldSnap.Config, newSnap.Config)
	return report
}
