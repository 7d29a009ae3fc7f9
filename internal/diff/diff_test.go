package diff

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"
	"pgregory.net/rapid"

	"github.com/confsnap/confsnap/internal/model"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		old  model.ParsedConfig
		new  model.ParsedConfig
		want []Entry
	}{
		{
			name: "identical",
			old: model.ParsedConfig{
				"hostname R1": map[string]any{},
				"interface GigabitEthernet1": map[string]any{
					"description uplink": map[string]any{},
				},
			},
			new: model.ParsedConfig{
				"hostname R1": map[string]any{},
				"interface GigabitEthernet1": map[string]any{
					"description uplink": map[string]any{},
				},
			},
			want: nil,
		},
		{
			name: "added line",
			old:  model.ParsedConfig{"hostname R1": map[string]any{}},
			new: model.ParsedConfig{
				"hostname R1":           map[string]any{},
				"ntp server 10.0.0.250": map[string]any{},
			},
			want: []Entry{
				{Path: "ntp server 10.0.0.250", Kind: Added, New: map[string]any{}},
			},
		},
		{
			name: "removed line",
			old: model.ParsedConfig{
				"hostname R1":           map[string]any{},
				"ntp server 10.0.0.250": map[string]any{},
			},
			new: model.ParsedConfig{"hostname R1": map[string]any{}},
			want: []Entry{
				{Path: "ntp server 10.0.0.250", Kind: Removed, Old: map[string]any{}},
			},
		},
		{
			name: "nested change",
			old: model.ParsedConfig{
				"interface GigabitEthernet1": map[string]any{
					"description uplink": map[string]any{},
					"no shutdown":        map[string]any{},
				},
			},
			new: model.ParsedConfig{
				"interface GigabitEthernet1": map[string]any{
					"description core uplink": map[string]any{},
					"no shutdown":             map[string]any{},
				},
			},
			want: []Entry{
				{Path: "interface GigabitEthernet1 / description core uplink", Kind: Added, New: map[string]any{}},
				{Path: "interface GigabitEthernet1 / description uplink", Kind: Removed, Old: map[string]any{}},
			},
		},
		{
			name: "whole block removed",
			old: model.ParsedConfig{
				"router ospf 1": map[string]any{
					"network 10.0.0.0 0.0.0.255 area 0": map[string]any{},
				},
			},
			new: model.ParsedConfig{},
			want: []Entry{
				{
					Path: "router ospf 1",
					Kind: Removed,
					Old: map[string]any{
						"network 10.0.0.0 0.0.0.255 area 0": map[string]any{},
					},
				},
			},
		},
		{
			name: "banner text changed",
			old:  model.ParsedConfig{"banner motd": "welcome"},
			new:  model.ParsedConfig{"banner motd": "authorized access only"},
			want: []Entry{
				{Path: "banner motd", Kind: Changed, Old: "welcome", New: "authorized access only"},
			},
		},
		{
			name: "leaf became block",
			old:  model.ParsedConfig{"banner motd": "welcome"},
			new:  model.ParsedConfig{"banner motd": map[string]any{}},
			want: []Entry{
				{Path: "banner motd", Kind: Changed, Old: "welcome", New: map[string]any{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compare() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompare_SortedByPath(t *testing.T) {
	old := model.ParsedConfig{
		"router ospf 1": map[string]any{},
		"hostname R1":   map[string]any{},
	}
	new := model.ParsedConfig{
		"hostname R2": map[string]any{},
		"aaa new-model": map[string]any{
			"aaa authentication login default local": map[string]any{},
		},
	}

	entries := Compare(old, new)
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Path >= entries[i].Path {
			t.Fatalf("entries not sorted: %q before %q", entries[i-1].Path, entries[i].Path)
		}
	}
}

func TestCompare_JSONRoundTrip(t *testing.T) {
	cfg := model.ParsedConfig{
		"hostname R1": map[string]any{},
		"interface GigabitEthernet1": map[string]any{
			"ip address 10.0.0.1 255.255.255.0": map[string]any{},
		},
		"banner motd": "maintenance window",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var loaded model.ParsedConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatal(err)
	}

	if entries := Compare(cfg, loaded); len(entries) != 0 {
		t.Errorf("Compare() after JSON round trip = %v, want no entries", entries)
	}
}

func TestCompare_StructurallyEqual(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := model.ParsedConfig(configTree(rt, 0))
		if entries := Compare(cfg, copyTree(cfg)); len(entries) != 0 {
			rt.Fatalf("Compare() on equal trees = %v, want no entries", entries)
		}
	})
}

// configTree draws a nested config of bounded depth with map and string leaves.
func configTree(rt *rapid.T, depth int) map[string]any {
	keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z ]{1,16}`), 0, 6, rapid.ID[string]).Draw(rt, "keys")
	node := map[string]any{}
	for _, k := range keys {
		switch {
		case depth < 2 && rapid.Bool().Draw(rt, "nest"):
			node[k] = configTree(rt, depth+1)
		case rapid.Bool().Draw(rt, "text"):
			node[k] = rapid.StringMatching(`[a-z ]{1,8}`).Draw(rt, "leaf")
		default:
			node[k] = map[string]any{}
		}
	}
	return node
}

// copyTree rebuilds the tree with fresh maps so Compare cannot rely on
// shared references.
func copyTree(node map[string]any) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		if child, ok := v.(map[string]any); ok {
			out[k] = copyTree(child)
		} else {
			out[k] = v
		}
	}
	return out
}

func TestCompare_FlatConfigs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		oldKeys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z ]{1,12}`), 0, 10, rapid.ID[string]).Draw(rt, "old")
		newKeys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z ]{1,12}`), 0, 10, rapid.ID[string]).Draw(rt, "new")

		old := model.ParsedConfig{}
		for _, k := range oldKeys {
			old[k] = map[string]any{}
		}
		new := model.ParsedConfig{}
		for _, k := range newKeys {
			new[k] = map[string]any{}
		}

		wantKinds := map[string]Kind{}
		for _, k := range oldKeys {
			if _, ok := new[k]; !ok {
				wantKinds[k] = Removed
			}
		}
		for _, k := range newKeys {
			if _, ok := old[k]; !ok {
				wantKinds[k] = Added
			}
		}

		entries := Compare(old, new)
		if len(entries) != len(wantKinds) {
			rt.Fatalf("Compare() returned %d entries, want %d", len(entries), len(wantKinds))
		}
		for _, e := range entries {
			if wantKinds[e.Path] != e.Kind {
				rt.Fatalf("entry %q has kind %q, want %q", e.Path, e.Kind, wantKinds[e.Path])
			}
		}
	})
}

func TestRender_Text(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	reports := []Report{
		{Device: "R1", Skipped: true},
		{Device: "R2"},
		{Device: "R3", Entries: []Entry{
			{Path: "ntp server 10.0.0.250", Kind: Added, New: map[string]any{}},
			{Path: "banner motd", Kind: Changed, Old: "a", New: "b"},
		}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, OutputText, reports); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := strings.Join([]string{
		"Not enough backups to compare for R1",
		"No configuration changes detected for R2",
		"Differences found for R3:",
		"  + ntp server 10.0.0.250",
		`  ~ banner motd: "a" -> "b"`,
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("Render() output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRender_JSON(t *testing.T) {
	reports := []Report{
		{Device: "R1", Entries: []Entry{
			{Path: "hostname R1", Kind: Removed, Old: map[string]any{}},
		}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, OutputJSON, reports); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var decoded []Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Render() produced invalid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Device != "R1" || len(decoded[0].Entries) != 1 {
		t.Errorf("decoded reports = %+v", decoded)
	}
}

func TestRender_YAML(t *testing.T) {
	reports := []Report{{Device: "R1", Skipped: true}}

	var buf bytes.Buffer
	if err := Render(&buf, OutputYAML, reports); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "device: R1") || !strings.Contains(buf.String(), "skipped: true") {
		t.Errorf("Render() output:\n%s", buf.String())
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if err := Render(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Fatal("Render() with unknown format did not fail")
	}
}
