package categorizer

import (
	"regexp"
	"strings"
)

// extractor pulls a JSON candidate out of free text. ok is false when the
// strategy does not apply, so the next one is tried.
type extractor struct {
	name string
	fn   func(raw string) (string, bool)
}

var fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")

var extractors = []extractor{
	{name: "fenced_block", fn: extractFenced},
	{name: "brace_span", fn: extractBraceSpan},
	{name: "raw", fn: extractRaw},
}

// ExtractJSON returns the most likely JSON payload in raw: the content of the
// first fenced code block, else the text from the first '{' to the last '}',
// else raw itself.
func ExtractJSON(raw string) string {
	s, _ := extractWith(raw)
	return s
}

func extractWith(raw string) (string, string) {
	for _, e := range extractors {
		if s, ok := e.fn(raw); ok {
			return s, e.name
		}
	}
	return raw, "raw"
}

func extractFenced(raw string) (string, bool) {
	m := fencePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func extractBraceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func extractRaw(raw string) (string, bool) {
	return strings.TrimSpace(raw), true
}
