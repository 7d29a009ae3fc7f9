package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/confsnap/confsnap/internal/model"
)

// TimestampFormat is the run-wide snapshot timestamp layout, second
// resolution, filesystem safe.
const TimestampFormat = "20060102_150405"

// snapshotName matches "{device}_{timestamp}.json" and captures the device
// name, which may itself contain underscores.
var snapshotName = regexp.MustCompile(`^(.+)_(\d{8}_\d{6})\.json$`)

// FileName returns the snapshot filename for a device and timestamp.
func FileName(device, timestamp string) string {
	return device + "_" + timestamp + ".json"
}

// Write persists a snapshot as indented JSON. The file is written to a
// temp name and renamed so readers never observe a partial snapshot.
func Write(path string, snap *model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Load reads a snapshot file.
func Load(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// Devices lists every device that has at least one snapshot in dir, sorted
// lexicographically. A missing directory yields an empty list.
func Devices(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if m := snapshotName.FindStringSubmatch(entry.Name()); m != nil {
			seen[m[1]] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ParseName splits a snapshot filename into device name and timestamp.
func ParseName(filename string) (device, timestamp string, ok bool) {
	m := snapshotName.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
