package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"stayhub-backend/domain/listing"
	"stayhub-backend/domain/search"
	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/pkg/common"
	"stayhub-backend/pkg/observability"
)

// DefaultSearchTTL is the freshness window for cached search pages. The
// short TTL is the primary consistency guarantee: after a listing
// changes, no page older than this can still be served.
const DefaultSearchTTL = 300 * time.Second

const tagKeyPrefix = "search:tag:"

// CachedSearchResult is the value stored under a search cache key: one
// ordered result page plus its pagination metadata.
type CachedSearchResult struct {
	Results    []listing.Listing     `json:"results"`
	Pagination common.PaginationInfo `json:"pagination"`
}

// SearchCacheService orchestrates cache reads and writes for paginated
// search results. Every failure path degrades to a miss or a no-op;
// callers never see an error originating here.
type SearchCacheService struct {
	store   cache.Store
	ttl     time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewSearchCacheService creates the cache service. A non-positive ttl
// falls back to DefaultSearchTTL.
func NewSearchCacheService(store cache.Store, ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger) *SearchCacheService {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &SearchCacheService{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// GetCachedSearch returns the cached page for the specification, or
// (nil, false) on a miss. Malformed cached data is treated the same as
// a miss; the entry is overwritten by the next write or expires on its
// own.
func (s *SearchCacheService) GetCachedSearch(ctx context.Context, spec search.FilterSpecification) (*CachedSearchResult, bool) {
	key := spec.CacheKey()

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		s.metrics.CacheMisses.Inc()
		return nil, false
	}

	var result CachedSearchResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("malformed cache entry treated as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		s.metrics.CacheMisses.Inc()
		return nil, false
	}

	s.metrics.CacheHits.Inc()
	return &result, true
}

// CacheSearch writes one result page under the specification's key with
// the configured TTL, and tags the key into each contained listing's
// invalidation set. Failures are logged and swallowed; caching is
// best-effort.
func (s *SearchCacheService) CacheSearch(ctx context.Context, spec search.FilterSpecification, results []listing.Listing, pagination common.PaginationInfo) {
	key := spec.CacheKey()

	payload, err := json.Marshal(CachedSearchResult{Results: results, Pagination: pagination})
	if err != nil {
		s.metrics.CacheWriteFailures.Inc()
		s.logger.Warn("failed to serialize search results for caching",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	if err := s.store.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.metrics.CacheWriteFailures.Inc()
		s.logger.Warn("failed to cache search results",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	// Tag sets live twice as long as the pages they index, so a tag
	// never outlives its last referenced entry by much while still
	// covering every unexpired page.
	for _, l := range results {
		s.store.SAdd(ctx, tagKeyPrefix+l.ID, 2*s.ttl, key)
	}
}

// InvalidateListing drops every cached page known to contain the given
// listing. Best-effort: the TTL bounds staleness regardless of whether
// this succeeds.
func (s *SearchCacheService) InvalidateListing(ctx context.Context, listingID string) {
	tagKey := tagKeyPrefix + listingID

	keys, err := s.store.SMembers(ctx, tagKey)
	if err != nil || len(keys) == 0 {
		s.store.Delete(ctx, tagKey)
		return
	}

	s.store.Delete(ctx, append(keys, tagKey)...)
	s.metrics.CacheInvalidations.Inc()

	s.logger.Debug("invalidated cached search pages",
		zap.String("listing_id", listingID),
		zap.Int("pages", len(keys)),
	)
}

// TTL returns the configured freshness window.
func (s *SearchCacheService) TTL() time.Duration {
	return s.ttl
}
