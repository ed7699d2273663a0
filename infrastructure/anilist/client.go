// Package anilist is the only component allowed to call the upstream
// catalog GraphQL API. It never retries and never caches; callers decide
// what to do with a failure.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mangalearn-api/domain/catalog"
	apperrors "mangalearn-api/pkg/errors"
)

const (
	suggestedPoolSize = 50
	browsePageSize    = 20
	genrePoolSize     = 50
)

// Client calls the AniList GraphQL endpoint
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

// NewClient creates an AniList client with a network-level timeout
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data struct {
		Page *struct {
			Media []catalog.Media `json:"media"`
		} `json:"Page"`
		Media *catalog.Media `json:"Media"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// Trending returns the current trending manga list
func (c *Client) Trending(ctx context.Context, limit int) ([]catalog.Media, error) {
	return c.pageQuery(ctx, trendingQuery, map[string]interface{}{"perPage": limit})
}

// Monthly returns the most popular manga this month
func (c *Client) Monthly(ctx context.Context, limit int) ([]catalog.Media, error) {
	return c.pageQuery(ctx, monthlyQuery, map[string]interface{}{"perPage": limit})
}

// Suggested returns hidden-gem recommendations: recent, well-scored,
// not-yet-popular titles, shuffled so repeat visitors see variety
func (c *Client) Suggested(ctx context.Context, limit int, genres, excludeGenres []string) ([]catalog.Media, error) {
	variables := map[string]interface{}{"perPage": suggestedPoolSize}
	if len(genres) > 0 {
		variables["genres"] = genres
	}
	if len(excludeGenres) > 0 {
		variables["excludeGenres"] = excludeGenres
	}

	media, err := c.pageQuery(ctx, suggestedQuery, variables)
	if err != nil {
		return nil, err
	}

	return selectSuggested(media, limit), nil
}

// Search performs a full-text title search
func (c *Client) Search(ctx context.Context, query string, limit int) ([]catalog.Media, error) {
	return c.pageQuery(ctx, searchQuery, map[string]interface{}{
		"search":  query,
		"perPage": limit,
	})
}

// Browse returns one page of the filtered catalog listing. Recognized
// filters: genre, format, status, sort.
func (c *Client) Browse(ctx context.Context, page int, filters map[string]string) ([]catalog.Media, error) {
	variables := map[string]interface{}{
		"page":    page,
		"perPage": browsePageSize,
		"sort":    []string{"POPULARITY_DESC"},
	}
	if genre := filters["genre"]; genre != "" {
		variables["genre"] = genre
	}
	if format := filters["format"]; format != "" {
		variables["format"] = format
	}
	if status := filters["status"]; status != "" {
		variables["status"] = status
	}
	if sort := filters["sort"]; sort != "" {
		variables["sort"] = []string{sort}
	}

	return c.pageQuery(ctx, browseQuery, variables)
}

// MangaByID looks up a single manga
func (c *Client) MangaByID(ctx context.Context, id int) (*catalog.Media, error) {
	resp, err := c.post(ctx, mangaQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if resp.Data.Media == nil {
		return nil, apperrors.NewNotFoundError("manga")
	}
	return resp.Data.Media, nil
}

// RandomByGenre picks one manga at random for a genre, preferring
// mid-popularity, well-scored titles. Not cached; every call is a fresh
// upstream query and a fresh pick.
func (c *Client) RandomByGenre(ctx context.Context, genre string) (*catalog.Media, error) {
	media, err := c.pageQuery(ctx, genreQuery, map[string]interface{}{
		"genre":   genre,
		"perPage": genrePoolSize,
	})
	if err != nil {
		return nil, err
	}

	pick := pickRandom(media)
	if pick == nil {
		return nil, apperrors.NewNotFoundError("manga")
	}
	return pick, nil
}

// pickRandom prefers titles with 1000 < popularity < 50000 and score > 60,
// falling back to the whole pool when nothing qualifies
func pickRandom(media []catalog.Media) *catalog.Media {
	if len(media) == 0 {
		return nil
	}

	filtered := make([]catalog.Media, 0, len(media))
	for _, m := range media {
		if m.Popularity > 1000 && m.Popularity < 50000 && m.AverageScore > 60 {
			filtered = append(filtered, m)
		}
	}

	pool := filtered
	if len(pool) == 0 {
		pool = media
	}

	pick := pool[rand.Intn(len(pool))]
	return &pick
}

func (c *Client) pageQuery(ctx context.Context, query string, variables map[string]interface{}) ([]catalog.Media, error) {
	resp, err := c.post(ctx, query, variables)
	if err != nil {
		return nil, err
	}
	if resp.Data.Page == nil {
		return nil, apperrors.NewUpstreamError("catalog response missing page data", nil)
	}
	return resp.Data.Page.Media, nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]interface{}) (*graphQLResponse, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("catalog request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, httpResp.Body)
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("catalog returned status %d", httpResp.StatusCode), nil)
	}

	var resp graphQLResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, apperrors.NewUpstreamError("catalog response decode failed", err)
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Warn("catalog returned graphql errors", zap.Strings("errors", messages))
		return nil, apperrors.NewUpstreamError("catalog query failed: "+strings.Join(messages, "; "), nil)
	}

	return &resp, nil
}
