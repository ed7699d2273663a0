package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mangalearn-api/application/cache"
	"mangalearn-api/application/ports"
	"mangalearn-api/application/ratelimit"
	"mangalearn-api/infrastructure/config"
	"mangalearn-api/interfaces/http/rest/handlers"
	"mangalearn-api/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg          *config.Config
	orchestrator *cache.Orchestrator
	limiter      *ratelimit.Limiter
	catalog      ports.CatalogClient
	cacheStore   ports.CacheStore
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	orchestrator *cache.Orchestrator,
	limiter *ratelimit.Limiter,
	catalog ports.CatalogClient,
	cacheStore ports.CacheStore,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:          cfg,
		orchestrator: orchestrator,
		limiter:      limiter,
		catalog:      catalog,
		cacheStore:   cacheStore,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.mangalearn.app"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identity())

		catalogHandler := handlers.NewCatalogHandler(rt.orchestrator, rt.catalog, rt.cfg, rt.logger)
		r.Route("/manga", func(r chi.Router) {
			r.Get("/trending", catalogHandler.Trending)
			r.Get("/monthly", catalogHandler.Monthly)
			r.Get("/suggested", catalogHandler.Suggested)
			r.Get("/browse", catalogHandler.Browse)
			r.Get("/random", catalogHandler.Random)

			// Search is the one catalog endpoint cheap to abuse per-user.
			r.With(middleware.RateLimit(rt.limiter, ratelimit.Search, rt.logger)).
				Get("/search", catalogHandler.Search)

			r.Get("/{mangaID}", catalogHandler.MangaByID)
		})

		adminHandler := handlers.NewCacheAdminHandler(rt.cacheStore, rt.limiter, rt.logger)
		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", adminHandler.Stats)
			r.Post("/sweep", adminHandler.Sweep)
		})

		// Companion services (auth, translation) consult the shared limit
		// windows through these endpoints.
		rateLimitHandler := handlers.NewRateLimitHandler(rt.limiter, rt.cfg.TranslationRateLimit, rt.logger)
		r.Route("/ratelimit", func(r chi.Router) {
			r.Post("/{policy}/check", rateLimitHandler.Check)
			r.Delete("/{policy}/{identifier}", rateLimitHandler.Reset)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
