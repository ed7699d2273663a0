//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"mangalearn-api/application/cache"
	"mangalearn-api/application/ports"
	"mangalearn-api/application/ratelimit"
	"mangalearn-api/infrastructure/config"
	"mangalearn-api/infrastructure/persistence/memory"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ProcessCache   *memory.ProcessCache
	CacheStore     ports.CacheStore
	RateLimitStore ports.RateLimitStore
	Catalog        ports.CatalogClient
	Orchestrator   *cache.Orchestrator
	RateLimiter    *ratelimit.Limiter
	Scheduler      *cache.Scheduler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideProcessCache,
	ProvideCacheStore,
	ProvideRateLimitStore,
	ProvideCatalogClient,
	ProvideOrchestrator,
	ProvideRateLimiter,
	ProvideScheduler,
	wire.Bind(new(ports.MemoryCache), new(*memory.ProcessCache)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
