package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mangalearn-api/application/cache"
	"mangalearn-api/application/ports"
	"mangalearn-api/infrastructure/config"
	"mangalearn-api/pkg/common"
	apperrors "mangalearn-api/pkg/errors"
)

// CatalogHandler serves manga catalog queries through the cache
// orchestrator, plus the uncached random pick
type CatalogHandler struct {
	orchestrator *cache.Orchestrator
	catalog      ports.CatalogClient
	cfg          *config.Config
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(
	orchestrator *cache.Orchestrator,
	catalog ports.CatalogClient,
	cfg *config.Config,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		orchestrator: orchestrator,
		catalog:      catalog,
		cfg:          cfg,
		validate:     validator.New(),
		logger:       logger,
	}
}

type listRequest struct {
	Limit int `validate:"min=0,max=50"`
}

type searchRequest struct {
	Query string `validate:"required,max=200"`
	Limit int    `validate:"min=0,max=50"`
}

type suggestedRequest struct {
	Limit         int      `validate:"min=0,max=50"`
	Genres        []string `validate:"max=10,dive,max=50"`
	ExcludeGenres []string `validate:"max=10,dive,max=50"`
}

// Trending handles GET /api/manga/trending
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	req := listRequest{Limit: common.QueryInt(r, "limit", 0)}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Invalid limit")
		return
	}

	h.resolve(w, r, cache.QueryTrending, cache.Params{Limit: req.Limit}, h.cfg.CacheTTLList)
}

// Monthly handles GET /api/manga/monthly
func (h *CatalogHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	req := listRequest{Limit: common.QueryInt(r, "limit", 0)}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Invalid limit")
		return
	}

	h.resolve(w, r, cache.QueryMonthly, cache.Params{Limit: req.Limit}, h.cfg.CacheTTLList)
}

// Suggested handles GET /api/manga/suggested
func (h *CatalogHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	req := suggestedRequest{
		Limit:         common.QueryInt(r, "limit", 0),
		Genres:        common.QueryList(r, "genres"),
		ExcludeGenres: common.QueryList(r, "excludeGenres"),
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Invalid suggested parameters")
		return
	}

	// Absent genre lists fall back to the configured defaults so these
	// requests hit the entries the refresh scheduler warms.
	genres := req.Genres
	if len(genres) == 0 {
		genres = h.cfg.SuggestedGenres
	}
	excludeGenres := req.ExcludeGenres
	if len(excludeGenres) == 0 {
		excludeGenres = h.cfg.SuggestedExcludeGenres
	}

	params := cache.Params{
		Limit:         req.Limit,
		Genres:        genres,
		ExcludeGenres: excludeGenres,
	}
	h.resolve(w, r, cache.QuerySuggested, params, h.cfg.CacheTTLList)
}

// Search handles GET /api/manga/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{
		Query: r.URL.Query().Get("q"),
		Limit: common.QueryInt(r, "limit", 0),
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Search query is required")
		return
	}

	h.resolve(w, r, cache.QuerySearch, cache.Params{Query: req.Query, Limit: req.Limit}, h.cfg.CacheTTLSearch)
}

// Browse handles GET /api/manga/browse
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for _, name := range []string{"genre", "format", "status", "sort"} {
		if value := r.URL.Query().Get(name); value != "" {
			filters[name] = value
		}
	}

	params := cache.Params{
		Page:    common.QueryInt(r, "page", 0),
		Filters: filters,
	}
	h.resolve(w, r, cache.QueryBrowse, params, h.cfg.CacheTTLSearch)
}

// MangaByID handles GET /api/manga/{mangaID}
func (h *CatalogHandler) MangaByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "mangaID"))
	if err != nil || id <= 0 {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid manga id")
		return
	}

	h.resolve(w, r, cache.QueryManga, cache.Params{MangaID: id}, h.cfg.CacheTTLManga)
}

// Random handles GET /api/manga/random. Always a fresh upstream call.
func (h *CatalogHandler) Random(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")
	if genre == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Genre is required")
		return
	}

	media, err := h.catalog.RandomByGenre(r.Context(), genre)
	if err != nil {
		h.respondResolveError(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, media)
}

func (h *CatalogHandler) resolve(w http.ResponseWriter, r *http.Request, queryType string, params cache.Params, ttlSeconds int) {
	payload, cached, err := h.orchestrator.Resolve(r.Context(), queryType, params, ttlSeconds)
	if err != nil {
		h.respondResolveError(w, r, err)
		return
	}

	common.RespondCached(w, http.StatusOK, json.RawMessage(payload), cached)
}

// respondResolveError maps failures to generic client-facing responses.
// Upstream detail never leaks to the user.
func (h *CatalogHandler) respondResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.IsNotFound(err):
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "Manga not found")
	case apperrors.IsUpstream(err):
		h.logger.Error("catalog request failed", zap.String("path", r.URL.Path), zap.Error(err))
		common.RespondError(w, http.StatusBadGateway, common.StandardErrorCodes.BadGateway, "Catalog temporarily unavailable")
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Internal server error")
	}
}
