package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mangalearn-api/application/ports"
	"mangalearn-api/application/ratelimit"
	"mangalearn-api/pkg/common"
)

// CacheAdminHandler exposes cache diagnostics and housekeeping
type CacheAdminHandler struct {
	store   ports.CacheStore
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewCacheAdminHandler creates a cache admin handler
func NewCacheAdminHandler(store ports.CacheStore, limiter *ratelimit.Limiter, logger *zap.Logger) *CacheAdminHandler {
	return &CacheAdminHandler{
		store:   store,
		limiter: limiter,
		logger:  logger,
	}
}

// Stats handles GET /api/cache/stats
func (h *CacheAdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.logger.Error("cache stats failed", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Failed to collect cache stats")
		return
	}

	common.RespondJSON(w, http.StatusOK, stats)
}

// SweepResponse reports what a sweep removed
type SweepResponse struct {
	CacheRemoved     int `json:"cacheRemoved"`
	RateLimitRemoved int `json:"rateLimitRemoved"`
}

// Sweep handles POST /api/cache/sweep. Removes expired cache entries and
// lapsed rate limit windows; correctness never depends on it running.
func (h *CacheAdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	cacheRemoved, err := h.store.SweepExpired(r.Context())
	if err != nil {
		h.logger.Error("cache sweep failed", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Cache sweep failed")
		return
	}

	rateLimitRemoved, err := h.limiter.CleanupExpired(r.Context())
	if err != nil {
		h.logger.Error("rate limit cleanup failed", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Rate limit cleanup failed")
		return
	}

	common.RespondJSON(w, http.StatusOK, SweepResponse{
		CacheRemoved:     cacheRemoved,
		RateLimitRemoved: rateLimitRemoved,
	})
}
