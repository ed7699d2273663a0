package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKeyDefaults(t *testing.T) {
	tests := []struct {
		name      string
		queryType string
		params    Params
		want      string
	}{
		{"trending default limit", QueryTrending, Params{}, "trending:10"},
		{"trending explicit limit", QueryTrending, Params{Limit: 25}, "trending:25"},
		{"monthly default limit", QueryMonthly, Params{}, "monthly:15"},
		{"suggested no genres", QuerySuggested, Params{}, "suggested:4::"},
		{"search default limit", QuerySearch, Params{Query: "berserk"}, "search:berserk:10"},
		{"browse default page no filters", QueryBrowse, Params{}, "browse:1:{}"},
		{"manga by id", QueryManga, Params{MangaID: 42}, "manga:42"},
		{"unknown type fallback", "genres", Params{}, "cache:genres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildKey(tt.queryType, tt.params))
		})
	}
}

func TestBuildKeySortsGenreLists(t *testing.T) {
	a := BuildKey(QuerySuggested, Params{
		Genres:        []string{"Drama", "Action"},
		ExcludeGenres: []string{"Horror", "Ecchi"},
	})
	b := BuildKey(QuerySuggested, Params{
		Genres:        []string{"Action", "Drama"},
		ExcludeGenres: []string{"Ecchi", "Horror"},
	})

	assert.Equal(t, a, b, "genre order must not change the key")
	assert.Equal(t, "suggested:4:Action,Drama:Ecchi,Horror", a)
}

func TestBuildKeyBrowseFiltersDeterministic(t *testing.T) {
	a := BuildKey(QueryBrowse, Params{Page: 2, Filters: map[string]string{
		"genre":  "Action",
		"format": "MANGA",
	}})
	b := BuildKey(QueryBrowse, Params{Page: 2, Filters: map[string]string{
		"format": "MANGA",
		"genre":  "Action",
	}})

	assert.Equal(t, a, b)
	assert.Equal(t, `browse:2:{"format":"MANGA","genre":"Action"}`, a)
}

func TestBuildKeySortsGenresDoesNotMutateInput(t *testing.T) {
	genres := []string{"Drama", "Action"}
	BuildKey(QuerySuggested, Params{Genres: genres})

	assert.Equal(t, []string{"Drama", "Action"}, genres)
}
