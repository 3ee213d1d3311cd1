// Package normalize turns free-form natural language into a canonical psalm
// reference string via an external text-generation service.
package normalize

import (
	"context"
	"regexp"
	"strings"
)

// Normalizer rewrites arbitrary text into a reference string the extractor
// can parse. Implementations may be slow and may fail; callers treat failure
// and empty output as reportable errors, never retrying.
type Normalizer interface {
	Normalize(ctx context.Context, text string) (string, error)
}

// Identity passes text through unchanged. Used when no normalizer is
// configured: user input is fed directly to the extractor.
type Identity struct{}

// Normalize returns text as-is.
func (Identity) Normalize(_ context.Context, text string) (string, error) {
	return text, nil
}

var commaRegex = regexp.MustCompile(`,\s*`)

// Postprocess canonicalizes normalizer output: lowercase, trailing periods
// stripped, newline-separated items collapsed into a comma-separated list,
// comma items re-joined comma-space, edge whitespace trimmed.
func Postprocess(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ".")

	if strings.ContainsRune(s, '\n') {
		var items []string
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimSuffix(line, ",")
			if line != "" {
				items = append(items, line)
			}
		}
		s = strings.Join(items, ", ")
	}

	s = commaRegex.ReplaceAllString(s, ", ")
	return strings.TrimSpace(s)
}
