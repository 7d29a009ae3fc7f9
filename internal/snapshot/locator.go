package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type candidate struct {
	path  string
	name  string
	mtime time.Time
}

// Latest returns the paths of the two most recent snapshots of a device,
// newest first. Recency is decided by file modification time; equal times
// fall back to the filename, which embeds the timestamp. If fewer than two
// snapshots exist both paths are empty and err is nil.
func Latest(dir, device string) (latest, previous string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", err
	}

	prefix := device + "_"
	var cands []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", "", err
		}
		cands = append(cands, candidate{
			path:  filepath.Join(dir, name),
			name:  name,
			mtime: info.ModTime(),
		})
	}

	if len(cands) < 2 {
		return "", "", nil
	}

	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].mtime.Equal(cands[j].mtime) {
			return cands[i].mtime.After(cands[j].mtime)
		}
		return cands[i].name > cands[j].name
	})

	return cands[0].path, cands[1].path, nil
}
