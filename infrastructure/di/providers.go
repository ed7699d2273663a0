package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"mangalearn-api/application/cache"
	"mangalearn-api/application/ports"
	"mangalearn-api/application/ratelimit"
	"mangalearn-api/infrastructure/anilist"
	"mangalearn-api/infrastructure/config"
	"mangalearn-api/infrastructure/persistence/dynamodb"
	"mangalearn-api/infrastructure/persistence/memory"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideProcessCache creates the process-local cache tier shared by the
// orchestrator and the rate limiter
func ProvideProcessCache() *memory.ProcessCache {
	return memory.NewProcessCache()
}

// ProvideCacheStore creates the durable cache tier
func ProvideCacheStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CacheStore {
	return dynamodb.NewCacheStore(client, cfg.CacheTable, logger)
}

// ProvideRateLimitStore creates the durable rate limit backing
func ProvideRateLimitStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RateLimitStore {
	return dynamodb.NewRateLimitStore(client, cfg.RateLimitTable, logger)
}

// ProvideCatalogClient creates the upstream AniList client
func ProvideCatalogClient(cfg *config.Config, logger *zap.Logger) ports.CatalogClient {
	return anilist.NewClient(cfg.AniListURL, cfg.AniListTimeout, logger)
}

// ProvideOrchestrator creates the cache orchestrator
func ProvideOrchestrator(
	memoryCache ports.MemoryCache,
	store ports.CacheStore,
	client ports.CatalogClient,
	logger *zap.Logger,
) *cache.Orchestrator {
	return cache.NewOrchestrator(memoryCache, store, client, logger)
}

// ProvideRateLimiter creates the rate limiter
func ProvideRateLimiter(
	memoryCache ports.MemoryCache,
	store ports.RateLimitStore,
	logger *zap.Logger,
) *ratelimit.Limiter {
	return ratelimit.NewLimiter(memoryCache, store, logger)
}

// ProvideScheduler creates the background refresh scheduler
func ProvideScheduler(
	store ports.CacheStore,
	client ports.CatalogClient,
	cfg *config.Config,
	logger *zap.Logger,
) *cache.Scheduler {
	return cache.NewScheduler(store, client, cache.SchedulerConfig{
		TrendingInterval:       cfg.TrendingInterval,
		MonthlyInterval:        cfg.MonthlyInterval,
		SuggestedInterval:      cfg.SuggestedInterval,
		TTLSeconds:             cfg.SchedulerTTL,
		SuggestedGenres:        cfg.SuggestedGenres,
		SuggestedExcludeGenres: cfg.SuggestedExcludeGenres,
	}, logger)
}
