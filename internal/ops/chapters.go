package ops

import (
	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/errors"
)

// ChapterSummary describes one available chapter without its verse text.
type ChapterSummary struct {
	Chapter        int    `json:"chapter"`
	VerseCount     int    `json:"verse_count"`
	Superscription string `json:"superscription,omitempty"`
}

// ChaptersOutput contains the result of the Chapters operation.
type ChaptersOutput struct {
	Title    string           `json:"title"`
	Chapters []ChapterSummary `json:"chapters"`
	Count    int              `json:"count"`
}

// Chapters lists the chapters available in the corpus, in corpus order.
func Chapters(c *corpus.Corpus) (*ChaptersOutput, error) {
	if c == nil {
		return nil, errors.NewCorpusUnavailable(nil)
	}

	summaries := make([]ChapterSummary, 0, len(c.Book.Chapters))
	for i := range c.Book.Chapters {
		ch := &c.Book.Chapters[i]
		summaries = append(summaries, ChapterSummary{
			Chapter:        ch.Number,
			VerseCount:     ch.VerseCount(),
			Superscription: ch.Superscription(),
		})
	}

	return &ChaptersOutput{
		Title:    c.Book.Title,
		Chapters: summaries,
		Count:    len(summaries),
	}, nil
}
