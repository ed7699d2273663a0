package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mangalearn-api/application/ratelimit"
	"mangalearn-api/pkg/common"
)

// RateLimitHandler exposes the limiter to companion services (auth and
// translation run outside this process but share its limit windows)
type RateLimitHandler struct {
	limiter  *ratelimit.Limiter
	policies map[string]ratelimit.Policy
	logger   *zap.Logger
}

// NewRateLimitHandler creates a rate limit handler with the named policy
// table. translationLimit resolves the 20-vs-100 per hour ambiguity from
// deployment configuration.
func NewRateLimitHandler(limiter *ratelimit.Limiter, translationLimit int, logger *zap.Logger) *RateLimitHandler {
	policies := map[string]ratelimit.Policy{}
	for _, p := range []ratelimit.Policy{
		ratelimit.Registration,
		ratelimit.Login,
		ratelimit.PasswordReset,
		ratelimit.API,
		ratelimit.Search,
		ratelimit.Translation(translationLimit),
	} {
		policies[p.Name] = p
	}

	return &RateLimitHandler{
		limiter:  limiter,
		policies: policies,
		logger:   logger,
	}
}

type checkRequest struct {
	Identifier string `json:"identifier"`
}

// Check handles POST /api/ratelimit/{policy}/check: consumes one request
// for the identifier under the named policy and returns the window state
func (h *RateLimitHandler) Check(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.policies[chi.URLParam(r, "policy")]
	if !ok {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "Unknown rate limit policy")
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identifier == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Identifier is required")
		return
	}

	result := h.limiter.Check(r.Context(), req.Identifier, policy)
	common.RespondJSON(w, http.StatusOK, result)
}

// Reset handles DELETE /api/ratelimit/{policy}/{identifier}: clears the
// window unconditionally
func (h *RateLimitHandler) Reset(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.policies[chi.URLParam(r, "policy")]
	if !ok {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "Unknown rate limit policy")
		return
	}

	identifier := chi.URLParam(r, "identifier")
	if err := h.limiter.ResetLimit(r.Context(), identifier, policy.Strategy); err != nil {
		h.logger.Error("rate limit reset failed",
			zap.String("policy", policy.Name),
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Rate limit reset failed")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
