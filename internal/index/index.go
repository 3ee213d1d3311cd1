// Package index builds an in-memory full-text index over the psalm corpus.
// The index is derived state: it is rebuilt from the corpus at startup and
// never persisted.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/psalter/internal/corpus"
	_ "modernc.org/sqlite"
)

// Hit is a single full-text search result.
type Hit struct {
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
}

// Index wraps an in-memory SQLite database with an FTS5 table of verses.
type Index struct {
	db *sql.DB
}

// Build creates the in-memory index and populates it from the corpus.
// Superscriptions (verse 0) are excluded; they are headings, not verse text.
func Build(c *corpus.Corpus) (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// A :memory: database exists per connection; the pool must not open more.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE VIRTUAL TABLE verses USING fts5(
	  chapter UNINDEXED,
	  verse UNINDEXED,
	  text
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create verses table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO verses (chapter, verse, text) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	for _, ch := range c.Book.Chapters {
		for _, v := range ch.Verses {
			if v.Number == 0 {
				continue
			}
			if _, err := stmt.Exec(ch.Number, v.Number, v.Text); err != nil {
				stmt.Close()
				tx.Rollback()
				db.Close()
				return nil, fmt.Errorf("failed to index chapter %d verse %d: %w", ch.Number, v.Number, err)
			}
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to commit index: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Search runs a keyword query against the indexed verse text, ranked by bm25.
// Results include a snippet with match markers. Returns an empty slice when
// nothing matches or the query contains no searchable terms.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	match := buildMatchExpr(query)
	if match == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT chapter, verse, text,
		       snippet(verses, 2, '[', ']', '...', 12)
		FROM verses
		WHERE verses MATCH ?
		ORDER BY bm25(verses), chapter, verse
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Chapter, &h.Verse, &h.Text, &h.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search iteration failed: %w", err)
	}
	return hits, nil
}

// buildMatchExpr converts free-form user input into a safe FTS5 MATCH
// expression. Each whitespace-separated term is quoted so FTS5 operators
// and punctuation in the input cannot change the query semantics.
func buildMatchExpr(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " ")
}
