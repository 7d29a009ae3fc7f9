package diff

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	yaml "gopkg.in/yaml.v2"
)

// Output formats understood by Render.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Report holds the comparison result for one device. Skipped is set when
// the device does not have two snapshots to compare; Error carries a
// comparison failure, for example an unreadable snapshot.
type Report struct {
	Device  string  `json:"device" yaml:"device"`
	Skipped bool    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
	Entries []Entry `json:"changes" yaml:"changes"`
}

// Empty reports whether the comparison found no differences.
func (r Report) Empty() bool {
	return len(r.Entries) == 0
}

// Summarise writes a human readable report for one device. Added lines are
// green, removed lines red and changed lines yellow; the color package
// drops the escape codes when colors are disabled.
func (r Report) Summarise(w io.Writer) {
	if r.Skipped {
		fmt.Fprintf(w, "Not enough backups to compare for %s\n", r.Device)
		return
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Comparison failed for %s: %s\n", r.Device, r.Error)
		return
	}
	if r.Empty() {
		fmt.Fprintf(w, "No configuration changes detected for %s\n", r.Device)
		return
	}

	fmt.Fprintf(w, "Differences found for %s:\n", r.Device)
	for _, e := range r.Entries {
		switch e.Kind {
		case Added:
			fmt.Fprintf(w, "  %s\n", color.GreenString("+ %s%s", e.Path, valueSuffix(e.New)))
		case Removed:
			fmt.Fprintf(w, "  %s\n", color.RedString("- %s%s", e.Path, valueSuffix(e.Old)))
		case Changed:
			fmt.Fprintf(w, "  %s\n", color.YellowString("~ %s: %s -> %s", e.Path, renderValue(e.Old), renderValue(e.New)))
		}
	}
}

// Render writes reports in the requested output format.
func Render(w io.Writer, format string, reports []Report) error {
	switch format {
	case OutputText, "":
		for _, r := range reports {
			r.Summarise(w)
		}
		return nil
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case OutputYAML:
		data, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func valueSuffix(v any) string {
	if v == nil {
		return ""
	}
	if m, ok := asMap(v); ok && len(m) == 0 {
		return ""
	}
	return ": " + renderValue(v)
}

// renderValue keeps every value on one report line. JSON encoding sorts
// map keys, so the rendering is deterministic.
func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
