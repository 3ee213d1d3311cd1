// Package refparse extracts psalm references from free-form text and parses
// verse-range strings into inclusive bounds.
package refparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unbounded marks a range with no upper limit ("whole chapter").
const Unbounded = math.MaxInt

// Query is a single extracted reference: a chapter number and an optional
// verse-range string ("4", "1-6", or "" meaning the whole chapter).
type Query struct {
	Chapter int    `json:"chapter"`
	Range   string `json:"range,omitempty"`
}

// referenceRegex matches "psalm 23", "Psalms 23:1", "psalm 23:1-6",
// "psalm 23:1 to 6", "psalm 23:1 through 6". Word-boundary delimited,
// case-insensitive, any whitespace placement around the separator.
var referenceRegex = regexp.MustCompile(`(?i)\bpsalms?\s+(\d+)(?::\s*(\d+(?:\s*(?:-|to|through)\s*\d+)?))?`)

// rangeSeparatorRegex rewrites "to"/"through" (with surrounding whitespace)
// and spaced hyphens to a bare "-".
var rangeSeparatorRegex = regexp.MustCompile(`(?i)\s*(?:-|to|through)\s*`)

// ParseAll scans text for psalm references and returns one Query per mention,
// in left-to-right order of occurrence. Text with no references yields an
// empty slice; deciding whether that is an error belongs to the caller.
func ParseAll(text string) []Query {
	matches := referenceRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	queries := make([]Query, 0, len(matches))
	for _, m := range matches {
		chapter, err := strconv.Atoi(m[1])
		if err != nil {
			// Cannot happen with a digit-only group; skip rather than fail.
			continue
		}
		queries = append(queries, Query{
			Chapter: chapter,
			Range:   normalizeRange(m[2]),
		})
	}
	return queries
}

// normalizeRange canonicalizes a matched verse specifier: whitespace removed,
// "to"/"through" replaced with "-". "1 to 6" and "1through6" both become "1-6".
func normalizeRange(spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ""
	}
	return rangeSeparatorRegex.ReplaceAllString(spec, "-")
}

// ParseRange resolves a range string into inclusive [start, end] bounds:
//
//	""     → (1, Unbounded)  whole chapter
//	"4"    → (4, 4)          single verse
//	"1-6"  → (1, 6)
//	"6-1"  → (6, 1)          kept as given; filters to nothing downstream
//
// Non-numeric fragments around "-" are dropped by the numeric parse, so
// "a-6" behaves as the single verse "6".
func ParseRange(s string) (start, end int) {
	var nums []int
	for _, part := range strings.Split(s, "-") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}

	switch {
	case len(nums) >= 2:
		return nums[0], nums[1]
	case len(nums) == 1:
		return nums[0], nums[0]
	default:
		return 1, Unbounded
	}
}
