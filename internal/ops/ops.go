// Package ops implements the application operations behind the CLI, MCP,
// and web surfaces. Each operation takes an Input struct and returns an
// Output struct so the surfaces stay thin.
package ops

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Input limits
const (
	MaxPromptChars     = 2000
	MaxQueryChars      = 200
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// VerseResult is a single resolved verse.
type VerseResult struct {
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
	Display string `json:"display"`
}

// FormatDisplay renders the canonical citation line for a verse.
func FormatDisplay(chapter, verse int, text string) string {
	return fmt.Sprintf("Psalm %d:%d %s", chapter, verse, text)
}

// NewRequestID generates a ULID used to correlate log lines for one request.
func NewRequestID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
