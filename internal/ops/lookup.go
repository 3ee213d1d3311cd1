package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/errors"
	"github.com/hpungsan/psalter/internal/normalize"
	"github.com/hpungsan/psalter/internal/refparse"
)

// LookupInput contains parameters for the Lookup operation.
type LookupInput struct {
	// Prompt is free-form user text that mentions one or more psalm references.
	Prompt string
	// Normalize runs the prompt through the normalizer before extraction.
	// When false the raw prompt is fed to the extractor directly.
	Normalize bool
}

// LookupOutput contains the result of the Lookup operation.
type LookupOutput struct {
	RequestID  string           `json:"request_id"`
	Normalized string           `json:"normalized,omitempty"`
	References []refparse.Query `json:"references"`
	Verses     []VerseResult    `json:"verses"`
	Count      int              `json:"count"`
}

// Lookup resolves psalm references in a prompt to verse text.
//
// The pipeline is: optional normalization, reference extraction, then
// range resolution against the corpus. A reference that resolves to no
// verses (unknown chapter, out-of-range or reversed range) is dropped
// silently; the operation fails only when nothing at all resolves.
func Lookup(ctx context.Context, c *corpus.Corpus, n normalize.Normalizer, input LookupInput) (*LookupOutput, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, errors.NewInvalidRequest("prompt must not be empty")
	}
	if len(prompt) > MaxPromptChars {
		return nil, errors.NewInvalidRequest("prompt exceeds maximum length")
	}
	if c == nil {
		return nil, errors.NewCorpusUnavailable(nil)
	}

	output := &LookupOutput{
		RequestID: NewRequestID(),
	}

	text := prompt
	if input.Normalize && n != nil {
		normalized, err := n.Normalize(ctx, prompt)
		if err != nil {
			return nil, errors.NewNormalizerFailed(err)
		}
		if strings.TrimSpace(normalized) == "" {
			return nil, errors.NewNormalizerEmpty()
		}
		text = normalized
		output.Normalized = normalized
	}

	queries := refparse.ParseAll(text)
	if len(queries) == 0 {
		return nil, errors.NewNoReference(text)
	}
	output.References = queries

	verses := []VerseResult{}
	for _, q := range queries {
		for _, v := range c.Verses(q.Chapter, q.Range) {
			verses = append(verses, VerseResult{
				Chapter: q.Chapter,
				Verse:   v.Number,
				Text:    v.Text,
				Display: FormatDisplay(q.Chapter, v.Number, v.Text),
			})
		}
	}
	if len(verses) == 0 {
		return nil, errors.NewNoVerses()
	}

	output.Verses = verses
	output.Count = len(verses)
	return output, nil
}
