// Package parser extracts header metadata from component Markdown files.
package parser

import "strings"

// Delimiter opens and closes the header block.
const Delimiter = "---"

// Metadata is the flat key/value view of a header block.
type Metadata map[string]string

// Get returns the value for key, or def when the key is absent.
func (m Metadata) Get(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// Parse extracts the header block of content into a Metadata mapping.
//
// Only single-level "key: value" lines are understood. The key is the text
// before the first colon and the value everything after it, both trimmed, with
// one layer of matching single or double quotes removed from the value. Lines
// without a colon are ignored. A repeated key keeps its last value.
//
// Parse never fails: content that does not start with the delimiter, or whose
// closing delimiter is missing, yields an empty (non-nil) mapping.
func Parse(content string) Metadata {
	out := Metadata{}
	if !strings.HasPrefix(content, Delimiter) {
		return out
	}

	parts := strings.SplitN(content, Delimiter, 3)
	if len(parts) < 3 {
		return out
	}

	block := strings.TrimSpace(parts[1])
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	return out
}

// ParseBytes is Parse for raw file contents.
func ParseBytes(data []byte) Metadata {
	return Parse(string(data))
}

// unquote strips one layer of surrounding quotes when both ends match.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
