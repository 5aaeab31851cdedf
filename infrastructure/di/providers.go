package di

import (
	"go.uber.org/zap"

	"stayhub-backend/application/ports"
	"stayhub-backend/application/services"
	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/infrastructure/config"
	"stayhub-backend/infrastructure/persistence/memory"
	"stayhub-backend/pkg/observability"
	"stayhub-backend/pkg/ratelimit"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideStore creates the cache store client. Without a configured
// Redis address the in-memory store backs the cache, which keeps local
// development self-contained.
func ProvideStore(cfg *config.Config, logger *zap.Logger) cache.Store {
	if cfg.RedisAddr == "" && cfg.IsDevelopment() {
		logger.Info("using in-memory cache store")
		return cache.NewMemoryStore()
	}

	return cache.NewRedisStore(cache.RedisOptions{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		OpTimeout: cfg.RedisOpTimeout,
	}, logger)
}

// ProvideMetrics creates the Prometheus instruments
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics("stayhub")
}

// ProvideListingStore creates the in-memory query layer
func ProvideListingStore() *memory.ListingStore {
	return memory.NewListingStore()
}

// ProvideListingSearcher exposes the listing store as the search port
func ProvideListingSearcher(store *memory.ListingStore) ports.ListingSearcher {
	return store
}

// ProvideListingRepository exposes the listing store as the mutation port
func ProvideListingRepository(store *memory.ListingStore) ports.ListingRepository {
	return store
}

// ProvideReferenceLists exposes the listing store as the reference port
func ProvideReferenceLists(store *memory.ListingStore) ports.ReferenceLists {
	return store
}

// ProvideSearchCacheService creates the search result cache service
func ProvideSearchCacheService(store cache.Store, cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) *services.SearchCacheService {
	return services.NewSearchCacheService(store, cfg.SearchCacheTTL, metrics, logger)
}

// ProvideSearchService creates the cached search orchestrator
func ProvideSearchService(cacheService *services.SearchCacheService, searcher ports.ListingSearcher, metrics *observability.Metrics, logger *zap.Logger) *services.SearchService {
	return services.NewSearchService(cacheService, searcher, metrics, logger)
}

// ProvideListingService creates the listing mutation service
func ProvideListingService(repo ports.ListingRepository, cacheService *services.SearchCacheService, logger *zap.Logger) *services.ListingService {
	return services.NewListingService(repo, cacheService, logger)
}

// ProvideReferenceService creates the reference list service
func ProvideReferenceService(store cache.Store, source ports.ReferenceLists, logger *zap.Logger) *services.ReferenceService {
	return services.NewReferenceService(store, source, logger)
}

// ProvideRateLimiter creates the distributed rate limiter
func ProvideRateLimiter(store cache.Store, metrics *observability.Metrics, logger *zap.Logger) *ratelimit.Limiter {
	return ratelimit.NewLimiter(store, metrics, logger)
}

// ProvideMonitor creates the cache monitor with thresholds from config
func ProvideMonitor(store cache.Store, cfg *config.Config, logger *zap.Logger) *cache.Monitor {
	return cache.NewMonitor(store, cache.Thresholds{
		MemoryPercent:      cfg.AlertMemoryPercent,
		HitRatePercent:     cfg.AlertHitRatePercent,
		ErrorRatePercent:   cfg.AlertErrorRatePercent,
		ResponseTimeMs:     cfg.AlertResponseTimeMs,
		MaxClients:         int64(cfg.AlertMaxClients),
		EvictionsPerMinute: cfg.AlertEvictionsPerMinute,
	}, logger)
}
