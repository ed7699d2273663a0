package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "mangalearn-api/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, zap.NewNop())
}

func pageResponse(media string) string {
	return `{"data":{"Page":{"media":` + media + `}}}`
}

func TestTrendingParsesPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "TRENDING_DESC")
		assert.Equal(t, float64(10), req.Variables["perPage"])

		w.Write([]byte(pageResponse(`[{"id":1,"title":{"romaji":"One"}},{"id":2}]`)))
	})

	media, err := client.Trending(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, 1, media[0].ID)
	assert.Equal(t, "One", media[0].Title.Romaji)
}

func TestSearchSendsVariables(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "one piece", req.Variables["search"])
		assert.Equal(t, float64(5), req.Variables["perPage"])

		w.Write([]byte(pageResponse(`[]`)))
	})

	_, err := client.Search(context.Background(), "one piece", 5)
	require.NoError(t, err)
}

func TestNon200IsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Trending(context.Background(), 10)

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestGraphQLErrorsAreUpstreamErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"rate limited"},{"message":"try later"}]}`))
	})

	_, err := client.Trending(context.Background(), 10)

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Contains(t, err.Error(), "rate limited")
}

func TestMangaByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req graphQLRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, float64(30002), req.Variables["id"])

			w.Write([]byte(`{"data":{"Media":{"id":30002,"title":{"english":"Berserk"}}}}`))
		})

		media, err := client.MangaByID(context.Background(), 30002)

		require.NoError(t, err)
		assert.Equal(t, 30002, media.ID)
		assert.Equal(t, "Berserk", media.Title.English)
	})

	t.Run("missing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"Media":null}}`))
		})

		_, err := client.MangaByID(context.Background(), 999999999)

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBrowseForwardsFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(3), req.Variables["page"])
		assert.Equal(t, "Action", req.Variables["genre"])
		assert.Equal(t, []interface{}{"SCORE_DESC"}, req.Variables["sort"])

		w.Write([]byte(pageResponse(`[]`)))
	})

	_, err := client.Browse(context.Background(), 3, map[string]string{
		"genre": "Action",
		"sort":  "SCORE_DESC",
	})
	require.NoError(t, err)
}

func TestRandomByGenreEmptyPool(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageResponse(`[]`)))
	})

	_, err := client.RandomByGenre(context.Background(), "Mecha")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMissingPageDataIsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := client.Trending(context.Background(), 10)

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}
