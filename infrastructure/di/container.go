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

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Store          cache.Store
	Metrics        *observability.Metrics
	ListingStore   *memory.ListingStore
	Searcher       ports.ListingSearcher
	ListingRepo    ports.ListingRepository
	ReferenceLists ports.ReferenceLists
	SearchCache    *services.SearchCacheService
	SearchService  *services.SearchService
	ListingService *services.ListingService
	RefService     *services.ReferenceService
	RateLimiter    *ratelimit.Limiter
	Monitor        *cache.Monitor
}

// Close releases the container's long-lived resources.
func (c *Container) Close() error {
	return c.Store.Close()
}
