package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stayhub-backend/domain/listing"
	"stayhub-backend/domain/search"
	apperrors "stayhub-backend/pkg/errors"
	"stayhub-backend/pkg/observability"
)

// stubSearcher returns canned pages and counts how often it ran.
type stubSearcher struct {
	results []listing.Listing
	total   int
	err     error
	calls   int
}

func (s *stubSearcher) Search(ctx context.Context, spec search.FilterSpecification) ([]listing.Listing, int, error) {
	s.calls++
	return s.results, s.total, s.err
}

func newSearchService(t *testing.T, searcher *stubSearcher) *SearchService {
	t.Helper()
	cacheSvc, _, _ := newCacheService(t, time.Minute)
	return NewSearchService(cacheSvc, searcher, observability.NewMetrics("test"), zap.NewNop())
}

func TestSearchMissThenHit(t *testing.T) {
	searcher := &stubSearcher{results: testListings("l1", "l2"), total: 2}
	svc := newSearchService(t, searcher)
	ctx := context.Background()
	spec := search.FilterSpecification{Query: "villa"}

	result, cached, err := svc.Search(ctx, spec)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 1, searcher.calls)

	// The second identical search is served from the cache.
	result, cached, err = svc.Search(ctx, spec)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 1, searcher.calls)
}

func TestSearchEquivalentSpecsShareEntry(t *testing.T) {
	searcher := &stubSearcher{results: testListings("l1"), total: 1}
	svc := newSearchService(t, searcher)
	ctx := context.Background()

	_, _, err := svc.Search(ctx, search.FilterSpecification{
		Query:        "villa",
		EquipmentIDs: []string{"wifi", "pool"},
	})
	require.NoError(t, err)

	_, cached, err := svc.Search(ctx, search.FilterSpecification{
		Query:        " villa ",
		EquipmentIDs: []string{"pool", "wifi", "pool"},
	})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, searcher.calls)
}

func TestSearchRejectsInvalidSpec(t *testing.T) {
	searcher := &stubSearcher{}
	svc := newSearchService(t, searcher)

	minPrice, maxPrice := 200.0, 50.0
	_, _, err := svc.Search(context.Background(), search.FilterSpecification{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, searcher.calls)
}

func TestSearchPropagatesQueryError(t *testing.T) {
	searcher := &stubSearcher{err: apperrors.NewInternalError("query layer down")}
	svc := newSearchService(t, searcher)
	ctx := context.Background()
	spec := search.FilterSpecification{Query: "villa"}

	_, _, err := svc.Search(ctx, spec)
	require.Error(t, err)

	// The failure was not cached.
	searcher.err = nil
	searcher.results = testListings("l1")
	searcher.total = 1

	_, cached, err := svc.Search(ctx, spec)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestSearchBuildsPaginationMeta(t *testing.T) {
	searcher := &stubSearcher{results: testListings("l1"), total: 45}
	svc := newSearchService(t, searcher)

	result, _, err := svc.Search(context.Background(), search.FilterSpecification{Page: 2, PageSize: 20})
	require.NoError(t, err)

	p := result.Pagination
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
