package anilist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangalearn-api/domain/catalog"
)

func TestHiddenGemScore(t *testing.T) {
	// (80/10)*3 - 10000/5000 = 24 - 2
	m := catalog.Media{AverageScore: 80, Popularity: 10000}
	assert.InDelta(t, 22.0, hiddenGemScore(m), 1e-9)

	// Popularity drags an equally rated title below a niche one.
	niche := catalog.Media{AverageScore: 80, Popularity: 500}
	mainstream := catalog.Media{AverageScore: 80, Popularity: 200000}
	assert.Greater(t, hiddenGemScore(niche), hiddenGemScore(mainstream))
}

func TestSelectSuggestedDropsOldTitles(t *testing.T) {
	media := []catalog.Media{
		{ID: 1, AverageScore: 99, Popularity: 0, StartDate: catalog.FuzzyDate{Year: 2014}},
		{ID: 2, AverageScore: 50, Popularity: 0, StartDate: catalog.FuzzyDate{Year: 2015}},
		{ID: 3, AverageScore: 60, Popularity: 0, StartDate: catalog.FuzzyDate{Year: 2020}},
	}

	got := selectSuggested(media, 10)

	require.Len(t, got, 2)
	for _, m := range got {
		assert.NotEqual(t, 1, m.ID, "pre-2015 titles are excluded regardless of score")
	}
}

func TestSelectSuggestedDrawsFromTopPool(t *testing.T) {
	// Scores descend with ID, so the top pool is exactly IDs 1..15.
	media := make([]catalog.Media, 0, 20)
	for id := 1; id <= 20; id++ {
		media = append(media, catalog.Media{
			ID:           id,
			AverageScore: 100 - id,
			Popularity:   0,
			StartDate:    catalog.FuzzyDate{Year: 2020},
		})
	}

	got := selectSuggested(media, 4)

	require.Len(t, got, 4)
	seen := make(map[int]bool)
	for _, m := range got {
		assert.LessOrEqual(t, m.ID, 15, "picks must come from the top-scored pool")
		assert.False(t, seen[m.ID], "picks must be distinct")
		seen[m.ID] = true
	}
}

func TestSelectSuggestedShortPool(t *testing.T) {
	media := []catalog.Media{
		{ID: 1, AverageScore: 70, StartDate: catalog.FuzzyDate{Year: 2019}},
		{ID: 2, AverageScore: 75, StartDate: catalog.FuzzyDate{Year: 2021}},
	}

	got := selectSuggested(media, 4)
	assert.Len(t, got, 2, "a pool smaller than the limit is returned whole")

	assert.Empty(t, selectSuggested(nil, 4))
}

func TestPickRandomPrefersQualifiedTitles(t *testing.T) {
	qualified := catalog.Media{ID: 7, AverageScore: 75, Popularity: 2000}
	media := []catalog.Media{
		{ID: 1, AverageScore: 40, Popularity: 500},
		qualified,
		{ID: 3, AverageScore: 90, Popularity: 900000},
	}

	for i := 0; i < 20; i++ {
		pick := pickRandom(media)
		require.NotNil(t, pick)
		assert.Equal(t, qualified.ID, pick.ID, "the only qualified title must always win")
	}
}

func TestPickRandomFallsBackToFullPool(t *testing.T) {
	media := []catalog.Media{
		{ID: 1, AverageScore: 40, Popularity: 500},
		{ID: 2, AverageScore: 30, Popularity: 100},
	}

	pick := pickRandom(media)
	require.NotNil(t, pick)
	assert.Contains(t, []int{1, 2}, pick.ID)

	assert.Nil(t, pickRandom(nil))
}
