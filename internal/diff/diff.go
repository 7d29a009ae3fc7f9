package diff

import (
	"reflect"
	"sort"

	"github.com/confsnap/confsnap/internal/model"
)

// Kind classifies a configuration difference.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Entry is a single difference between two parsed configurations. Path is
// the chain of configuration lines leading to the change, joined with
// " / ".
type Entry struct {
	Path string `json:"path" yaml:"path"`
	Kind Kind   `json:"kind" yaml:"kind"`
	Old  any    `json:"old,omitempty" yaml:"old,omitempty"`
	New  any    `json:"new,omitempty" yaml:"new,omitempty"`
}

// Compare walks two parsed configurations together and returns every
// difference, sorted by path. Blocks present on both sides are descended
// into; a whole block that appears or disappears yields a single entry
// carrying the subtree.
func Compare(old, new model.ParsedConfig) []Entry {
	entries := walk("", old, new)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

func walk(prefix string, old, new map[string]any) []Entry {
	var entries []Entry
	for _, key := range unionKeys(old, new) {
		path := key
		if prefix != "" {
			path = prefix + " / " + key
		}

		oldVal, inOld := old[key]
		newVal, inNew := new[key]
		switch {
		case !inOld:
			entries = append(entries, Entry{Path: path, Kind: Added, New: newVal})
		case !inNew:
			entries = append(entries, Entry{Path: path, Kind: Removed, Old: oldVal})
		default:
			oldMap, oldIsMap := asMap(oldVal)
			newMap, newIsMap := asMap(newVal)
			if oldIsMap && newIsMap {
				entries = append(entries, walk(path, oldMap, newMap)...)
			} else if !reflect.DeepEqual(oldVal, newVal) {
				entries = append(entries, Entry{Path: path, Kind: Changed, Old: oldVal, New: newVal})
			}
		}
	}
	return entries
}

func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// asMap accepts both freshly parsed blocks and the generic maps that come
// back from a JSON round trip.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case model.ParsedConfig:
		return m, true
	}
	return nil, false
}
