package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/confsnap/confsnap/internal/gateway"
	"github.com/confsnap/confsnap/internal/log"
	"github.com/confsnap/confsnap/internal/model"
	"github.com/confsnap/confsnap/internal/testbed"
)

// Writer fetches the running configuration of every testbed device and
// stores one snapshot file per device in a backup directory.
type Writer struct {
	gateway gateway.Gateway
	dir     string
	now     func() time.Time
}

// NewWriter returns a Writer that stores snapshots under dir.
func NewWriter(gw gateway.Gateway, dir string) *Writer {
	return &Writer{
		gateway: gw,
		dir:     dir,
		now:     time.Now,
	}
}

// Run backs up every device in the testbed. All snapshots of one run share
// a single timestamp taken at the start. A device that fails to respond is
// logged and skipped; the remaining devices are still processed. Run
// returns the paths of the snapshots it wrote.
func (w *Writer) Run(ctx context.Context, tb *testbed.Testbed) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	timestamp := w.now().Format(TimestampFormat)

	var written []string
	for _, name := range tb.DeviceNames() {
		log.Info("Backing up device", "device", name)

		cfg, err := w.gateway.FetchConfig(ctx, name)
		if err != nil {
			log.Error("Device backup failed, skipping", "device", name, "error", err)
			continue
		}

		path := filepath.Join(w.dir, FileName(name, timestamp))
		snap := &model.Snapshot{
			Device:    name,
			Timestamp: timestamp,
			Config:    cfg,
		}
		if err := Write(path, snap); err != nil {
			return written, fmt.Errorf("write snapshot for %s: %w", name, err)
		}

		written = append(written, path)
		log.Info("Snapshot saved", "device", name, "path", path)
	}

	return written, nil
}
