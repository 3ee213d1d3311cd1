package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/psalter/internal/errors"
	"github.com/hpungsan/psalter/internal/index"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	// Query is free-form keyword text matched against verse text.
	Query string
	// Limit caps the number of results. 0 means DefaultSearchLimit.
	Limit int
}

// SearchResult is a single search hit with its citation line.
type SearchResult struct {
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
	Display string `json:"display"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	RequestID string         `json:"request_id"`
	Query     string         `json:"query"`
	Results   []SearchResult `json:"results"`
	Count     int            `json:"count"`
}

// Search runs a keyword query over indexed verse text.
// An empty result set is not an error; callers render "no matches".
func Search(ctx context.Context, ix *index.Index, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query must not be empty")
	}
	if len(query) > MaxQueryChars {
		return nil, errors.NewInvalidRequest("query exceeds maximum length")
	}
	if ix == nil {
		return nil, errors.NewCorpusUnavailable(nil)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	hits, err := ix.Search(ctx, query, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, SearchResult{
			Chapter: h.Chapter,
			Verse:   h.Verse,
			Text:    h.Text,
			Snippet: h.Snippet,
			Display: FormatDisplay(h.Chapter, h.Verse, h.Text),
		})
	}

	return &SearchOutput{
		RequestID: NewRequestID(),
		Query:     query,
		Results:   results,
		Count:     len(results),
	}, nil
}
