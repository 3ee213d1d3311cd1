package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/psalter/internal/corpus"
	"github.com/hpungsan/psalter/internal/index"
	"github.com/hpungsan/psalter/internal/normalize"
	"github.com/stretchr/testify/require"
)

// TestFullWorkflow exercises the read path end to end against the bundled
// corpus: chapters → lookup single verse → lookup range with trailing
// punctuation → search → lookup by searched chapter.
func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()

	c, err := corpus.Load("")
	require.NoError(t, err)

	ix, err := index.Build(c)
	require.NoError(t, err)
	defer ix.Close()

	// 1. Chapters inventory includes the shepherd psalm
	chaptersOut, err := Chapters(c)
	require.NoError(t, err)
	require.NotEmpty(t, chaptersOut.Chapters)
	var found *ChapterSummary
	for i := range chaptersOut.Chapters {
		if chaptersOut.Chapters[i].Chapter == 23 {
			found = &chaptersOut.Chapters[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, 6, found.VerseCount)
	require.Equal(t, "A Psalm of David.", found.Superscription)

	// 2. Lookup a single verse
	lookupOut, err := Lookup(ctx, c, normalize.Identity{}, LookupInput{
		Prompt: "please read psalm 23:1",
	})
	require.NoError(t, err)
	require.Equal(t, 1, lookupOut.Count)
	require.Equal(t, "Psalm 23:1 The LORD is my shepherd; I shall not want.", lookupOut.Verses[0].Display)

	// 3. Lookup a range written with "to" and trailing punctuation
	lookupOut, err = Lookup(ctx, c, nil, LookupInput{
		Prompt: "What does Psalm 23:4 to 6 say?",
	})
	require.NoError(t, err)
	require.Equal(t, 3, lookupOut.Count)
	require.Equal(t, []int{4, 5, 6}, []int{
		lookupOut.Verses[0].Verse,
		lookupOut.Verses[1].Verse,
		lookupOut.Verses[2].Verse,
	})

	// 4. Search finds the verse by keyword
	searchOut, err := Search(ctx, ix, SearchInput{Query: "shepherd"})
	require.NoError(t, err)
	require.Equal(t, 1, searchOut.Count)
	require.Equal(t, 23, searchOut.Results[0].Chapter)

	// 5. Lookup the whole chapter the search pointed at
	lookupOut, err = Lookup(ctx, c, nil, LookupInput{
		Prompt: "psalm 23",
	})
	require.NoError(t, err)
	require.Equal(t, 6, lookupOut.Count)
}
