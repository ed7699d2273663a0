package middleware

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"mangalearn-api/application/ratelimit"
	"mangalearn-api/pkg/common"
)

// RateLimit enforces a named policy before the wrapped handler runs.
// User-strategy policies fall back to the client IP for anonymous traffic.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := common.ClientIP(r)
			if policy.Strategy == ratelimit.StrategyUser {
				if userID, ok := UserID(r.Context()); ok {
					identifier = userID
				}
			}

			result := limiter.Check(r.Context(), identifier, policy)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime/1000, 10))

			if !result.Allowed {
				logger.Warn("rate limit exceeded",
					zap.String("policy", policy.Name),
					zap.String("identifier", identifier),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				common.RespondError(w, http.StatusTooManyRequests,
					common.StandardErrorCodes.TooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
