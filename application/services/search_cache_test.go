package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stayhub-backend/domain/listing"
	"stayhub-backend/domain/search"
	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/pkg/common"
	"stayhub-backend/pkg/observability"
)

func newCacheService(t *testing.T, ttl time.Duration) (*SearchCacheService, cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := cache.NewRedisStore(cache.RedisOptions{Addr: mr.Addr(), OpTimeout: time.Second}, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	svc := NewSearchCacheService(store, ttl, observability.NewMetrics("test"), zap.NewNop())
	return svc, store, mr
}

func testListings(ids ...string) []listing.Listing {
	out := make([]listing.Listing, len(ids))
	for i, id := range ids {
		out[i] = listing.Listing{ID: id, Title: "Listing " + id, PricePerNight: 120}
	}
	return out
}

func TestSearchCacheRoundTrip(t *testing.T) {
	svc, _, _ := newCacheService(t, time.Minute)
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	results := testListings("l1", "l2")
	pagination := common.BuildPaginationMeta(1, 20, 2)

	svc.CacheSearch(ctx, spec, results, pagination)

	cached, ok := svc.GetCachedSearch(ctx, spec)
	require.True(t, ok)
	assert.Equal(t, results, cached.Results)
	assert.Equal(t, pagination, cached.Pagination)
}

func TestSearchCacheMissOnAbsent(t *testing.T) {
	svc, _, _ := newCacheService(t, time.Minute)

	cached, ok := svc.GetCachedSearch(context.Background(), search.FilterSpecification{Query: "nothing"})
	assert.False(t, ok)
	assert.Nil(t, cached)
}

func TestSearchCacheMalformedEntryIsMiss(t *testing.T) {
	svc, store, _ := newCacheService(t, time.Minute)
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	require.NoError(t, store.Set(ctx, spec.CacheKey(), "{not json", time.Minute))

	_, ok := svc.GetCachedSearch(ctx, spec)
	assert.False(t, ok)
}

func TestSearchCacheEntryExpires(t *testing.T) {
	svc, _, mr := newCacheService(t, time.Second)
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	svc.CacheSearch(ctx, spec, testListings("l1"), common.BuildPaginationMeta(1, 20, 1))

	mr.FastForward(2 * time.Second)

	_, ok := svc.GetCachedSearch(ctx, spec)
	assert.False(t, ok)
}

func TestInvalidateListingDropsTaggedPages(t *testing.T) {
	svc, _, _ := newCacheService(t, time.Minute)
	ctx := context.Background()

	// Two distinct pages contain l1; a third page does not.
	withL1A := search.FilterSpecification{Query: "villa"}
	withL1B := search.FilterSpecification{Query: "villa", Page: 2}
	without := search.FilterSpecification{Query: "cabin"}

	svc.CacheSearch(ctx, withL1A, testListings("l1", "l2"), common.BuildPaginationMeta(1, 20, 2))
	svc.CacheSearch(ctx, withL1B, testListings("l1"), common.BuildPaginationMeta(2, 20, 21))
	svc.CacheSearch(ctx, without, testListings("l3"), common.BuildPaginationMeta(1, 20, 1))

	svc.InvalidateListing(ctx, "l1")

	_, ok := svc.GetCachedSearch(ctx, withL1A)
	assert.False(t, ok)
	_, ok = svc.GetCachedSearch(ctx, withL1B)
	assert.False(t, ok)

	// Pages not containing the listing survive.
	_, ok = svc.GetCachedSearch(ctx, without)
	assert.True(t, ok)
}

func TestInvalidateUnknownListingIsNoOp(t *testing.T) {
	svc, _, _ := newCacheService(t, time.Minute)
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	svc.CacheSearch(ctx, spec, testListings("l1"), common.BuildPaginationMeta(1, 20, 1))

	svc.InvalidateListing(ctx, "never-cached")

	_, ok := svc.GetCachedSearch(ctx, spec)
	assert.True(t, ok)
}

func TestSearchCacheFailsOpenWhenStoreDown(t *testing.T) {
	svc, _, mr := newCacheService(t, time.Minute)
	ctx := context.Background()

	mr.Close()

	spec := search.FilterSpecification{Query: "villa"}
	svc.CacheSearch(ctx, spec, testListings("l1"), common.BuildPaginationMeta(1, 20, 1))

	_, ok := svc.GetCachedSearch(ctx, spec)
	assert.False(t, ok)

	svc.InvalidateListing(ctx, "l1")
}

func TestSearchCacheDefaultTTL(t *testing.T) {
	svc, _, _ := newCacheService(t, 0)
	assert.Equal(t, DefaultSearchTTL, svc.TTL())
}
