// Package corpus holds the read-only verse corpus and resolves chapter/range
// queries against it.
package corpus

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/hpungsan/psalter/internal/refparse"
)

//go:embed psalms.json
var bundledCorpus []byte

// Verse is a single verse. Number 0 is a sentinel used for chapter
// superscriptions and is never returned from Verses.
type Verse struct {
	Number int    `json:"verse"`
	Text   string `json:"text"`
}

// Chapter is a numbered chapter with its verses, in stored (not necessarily
// sorted) order.
type Chapter struct {
	Number int     `json:"chapter"`
	Verses []Verse `json:"verses"`
}

// Book is a titled, ordered list of chapters.
type Book struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// Corpus is the immutable verse corpus for one book. Construct it with Parse
// or Load; never mutate it afterwards.
type Corpus struct {
	Book Book `json:"book"`
}

var (
	loadOnce sync.Once
	loaded   *Corpus
	loadErr  error
)

// Load returns the process-wide corpus, parsing it exactly once. With an
// empty path the bundled psalms.json is used; otherwise the file at path is
// read. Concurrent first calls block on the same parse. The path chosen by
// the first caller wins for the process lifetime.
func Load(path string) (*Corpus, error) {
	loadOnce.Do(func() {
		data := bundledCorpus
		if path != "" {
			data, loadErr = os.ReadFile(path)
			if loadErr != nil {
				loadErr = fmt.Errorf("read corpus %s: %w", path, loadErr)
				return
			}
		}
		loaded, loadErr = Parse(data)
	})
	return loaded, loadErr
}

// Parse decodes corpus JSON of the shape
// {"book": {"title": ..., "chapters": [{"chapter": N, "verses": [...]}]}}
// and validates its structure.
func Parse(data []byte) (*Corpus, error) {
	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if c.Book.Title == "" {
		return nil, fmt.Errorf("parse corpus: missing book title")
	}
	if len(c.Book.Chapters) == 0 {
		return nil, fmt.Errorf("parse corpus: book has no chapters")
	}
	for _, ch := range c.Book.Chapters {
		if ch.Number <= 0 {
			return nil, fmt.Errorf("parse corpus: invalid chapter number %d", ch.Number)
		}
		for _, v := range ch.Verses {
			if v.Number < 0 {
				return nil, fmt.Errorf("parse corpus: chapter %d has negative verse number %d", ch.Number, v.Number)
			}
		}
	}
	return &c, nil
}

// Chapter returns the first chapter whose number equals n, or nil if absent.
func (c *Corpus) Chapter(n int) *Chapter {
	for i := range c.Book.Chapters {
		if c.Book.Chapters[i].Number == n {
			return &c.Book.Chapters[i]
		}
	}
	return nil
}

// Verses resolves rangeStr against chapter and returns the matching verses
// sorted ascending by number. The superscription sentinel (verse 0) is always
// excluded. An unknown chapter yields an empty slice, not an error.
func (c *Corpus) Verses(chapter int, rangeStr string) []Verse {
	ch := c.Chapter(chapter)
	if ch == nil {
		return nil
	}

	start, end := refparse.ParseRange(rangeStr)

	var verses []Verse
	for _, v := range ch.Verses {
		if v.Number == 0 {
			continue
		}
		if v.Number >= start && v.Number <= end {
			verses = append(verses, v)
		}
	}

	sort.Slice(verses, func(i, j int) bool {
		return verses[i].Number < verses[j].Number
	})
	return verses
}

// Superscription returns the chapter's verse-0 text, or "" if it has none.
func (ch *Chapter) Superscription() string {
	for _, v := range ch.Verses {
		if v.Number == 0 {
			return v.Text
		}
	}
	return ""
}

// VerseCount returns the number of real verses in the chapter, excluding the
// superscription sentinel.
func (ch *Chapter) VerseCount() int {
	n := 0
	for _, v := range ch.Verses {
		if v.Number != 0 {
			n++
		}
	}
	return n
}
