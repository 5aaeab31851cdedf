package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stayhub-backend/application/ports"
	"stayhub-backend/domain/search"
	"stayhub-backend/pkg/common"
	"stayhub-backend/pkg/observability"
)

// SearchService runs a search through the cache: derive the key, try
// the store, and on a miss delegate to the query layer and write the
// page back. Concurrent misses for the same key may both compute and
// write; last write wins, which is safe because entries are idempotently
// derived from the same specification.
type SearchService struct {
	cache    *SearchCacheService
	searcher ports.ListingSearcher
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSearchService creates the search orchestrator.
func NewSearchService(cache *SearchCacheService, searcher ports.ListingSearcher, metrics *observability.Metrics, logger *zap.Logger) *SearchService {
	return &SearchService{
		cache:    cache,
		searcher: searcher,
		metrics:  metrics,
		logger:   logger,
	}
}

// Search validates and normalizes the specification, then returns the
// cached page or computes and caches a fresh one. The second return
// value reports whether the page came from the cache.
func (s *SearchService) Search(ctx context.Context, spec search.FilterSpecification) (*CachedSearchResult, bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, false, err
	}

	if cached, ok := s.cache.GetCachedSearch(ctx, spec); ok {
		return cached, true, nil
	}

	results, total, err := s.searcher.Search(ctx, spec)
	if err != nil {
		return nil, false, err
	}

	pagination := common.BuildPaginationMeta(spec.Page, spec.PageSize, total)
	result := &CachedSearchResult{Results: results, Pagination: pagination}

	s.cache.CacheSearch(ctx, spec, results, pagination)

	return result, false, nil
}
