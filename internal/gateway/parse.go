package gateway

import (
	"strings"

	"github.com/confsnap/confsnap/internal/model"
)

// Lines the device prints around the configuration body. They change on
// every capture (byte counts, timestamps) and are not configuration.
var outputNoise = []string{
	"Building configuration",
	"Current configuration",
}

// ParseConfig turns show-command output into a nested mapping: every
// configuration line becomes a key whose value is the mapping of its
// indented children, an empty mapping for leaves. Blank lines and "!"
// separators are dropped. Banner blocks keep their free text verbatim as a
// string value under the opening line.
func ParseConfig(text string) model.ParsedConfig {
	root := map[string]any{}

	type frame struct {
		indent int
		node   map[string]any
	}
	stack := []frame{{indent: -1, node: root}}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		raw := strings.TrimRight(lines[i], " \t\r")
		content := strings.TrimLeft(raw, " \t")
		if content == "" || strings.HasPrefix(content, "!") || isNoise(content) {
			continue
		}
		indent := len(raw) - len(content)

		for stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		if delim, ok := bannerDelimiter(content); ok {
			body, next := collectBanner(lines, i+1, delim)
			parent.node[content] = body
			i = next
			continue
		}

		node := map[string]any{}
		parent.node[content] = node
		stack = append(stack, frame{indent: indent, node: node})
	}

	return model.ParsedConfig(root)
}

func isNoise(content string) bool {
	for _, prefix := range outputNoise {
		if strings.HasPrefix(content, prefix) {
			return true
		}
	}
	return false
}

// bannerDelimiter reports the delimiter token of a banner command, e.g.
// "^C" in "banner motd ^C".
func bannerDelimiter(content string) (string, bool) {
	if !strings.HasPrefix(content, "banner ") {
		return "", false
	}
	fields := strings.Fields(content)
	if len(fields) < 3 {
		return "", false
	}
	return fields[2], true
}

// collectBanner gathers the free-text body up to the line carrying the
// closing delimiter. Returns the body and the index of the closing line so
// the caller can resume after it. An unterminated banner swallows the rest
// of the output.
func collectBanner(lines []string, start int, delim string) (string, int) {
	var body []string
	for i := start; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t\r")
		if strings.TrimSpace(line) == delim || strings.HasSuffix(line, delim) {
			if trimmed := strings.TrimSuffix(line, delim); strings.TrimSpace(trimmed) != "" {
				body = append(body, trimmed)
			}
			return strings.Join(body, "\n"), i
		}
		body = append(body, line)
	}
	return strings.Join(body, "\n"), len(lines) - 1
}
