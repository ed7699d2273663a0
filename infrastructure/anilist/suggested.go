package anilist

import (
	"math/rand"
	"sort"

	"mangalearn-api/domain/catalog"
)

const (
	// minStartYear excludes back-catalog titles from suggestions
	minStartYear = 2015

	// suggestedTopPool is how many top-scored titles the shuffle draws from
	suggestedTopPool = 15
)

// hiddenGemScore rewards high ratings and penalizes popularity, surfacing
// well-reviewed titles most users have not seen yet
func hiddenGemScore(m catalog.Media) float64 {
	return (float64(m.AverageScore)/10)*3 - float64(m.Popularity)/5000
}

// selectSuggested applies the recommendation pipeline: drop pre-2015
// titles, rank by hidden-gem score, keep the top pool, shuffle, truncate
func selectSuggested(media []catalog.Media, limit int) []catalog.Media {
	recent := make([]catalog.Media, 0, len(media))
	for _, m := range media {
		if m.StartDate.Year >= minStartYear {
			recent = append(recent, m)
		}
	}

	sort.Slice(recent, func(i, j int) bool {
		return hiddenGemScore(recent[i]) > hiddenGemScore(recent[j])
	})

	if len(recent) > suggestedTopPool {
		recent = recent[:suggestedTopPool]
	}

	rand.Shuffle(len(recent), func(i, j int) {
		recent[i], recent[j] = recent[j], recent[i]
	})

	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}
