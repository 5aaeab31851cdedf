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
	"stayhub-backend/pkg/common"
	apperrors "stayhub-backend/pkg/errors"
)

// stubRepository is an always-succeeding listing repository.
type stubRepository struct {
	failing bool
}

func (r *stubRepository) Create(ctx context.Context, l listing.Listing) error { return r.err() }
func (r *stubRepository) Update(ctx context.Context, l listing.Listing) error { return r.err() }
func (r *stubRepository) Delete(ctx context.Context, id string) error         { return r.err() }
func (r *stubRepository) Get(ctx context.Context, id string) (*listing.Listing, error) {
	if r.failing {
		return nil, apperrors.NewNotFoundError("listing")
	}
	return &listing.Listing{ID: id}, nil
}

func (r *stubRepository) err() error {
	if r.failing {
		return apperrors.NewInternalError("repository down")
	}
	return nil
}

func TestListingMutationsInvalidateCachedPages(t *testing.T) {
	cacheSvc, _, _ := newCacheService(t, time.Minute)
	svc := NewListingService(&stubRepository{}, cacheSvc, zap.NewNop())
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	cacheSvc.CacheSearch(ctx, spec, testListings("l1"), common.BuildPaginationMeta(1, 20, 1))

	require.NoError(t, svc.Update(ctx, listing.Listing{ID: "l1"}))

	_, ok := cacheSvc.GetCachedSearch(ctx, spec)
	assert.False(t, ok)
}

func TestListingDeleteInvalidates(t *testing.T) {
	cacheSvc, _, _ := newCacheService(t, time.Minute)
	svc := NewListingService(&stubRepository{}, cacheSvc, zap.NewNop())
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	cacheSvc.CacheSearch(ctx, spec, testListings("l1"), common.BuildPaginationMeta(1, 20, 1))

	require.NoError(t, svc.Delete(ctx, "l1"))

	_, ok := cacheSvc.GetCachedSearch(ctx, spec)
	assert.False(t, ok)
}

func TestListingFailedMutationSkipsInvalidation(t *testing.T) {
	cacheSvc, _, _ := newCacheService(t, time.Minute)
	svc := NewListingService(&stubRepository{failing: true}, cacheSvc, zap.NewNop())
	ctx := context.Background()

	spec := search.FilterSpecification{Query: "villa"}
	cacheSvc.CacheSearch(ctx, spec, testListings("l1"), common.BuildPaginationMeta(1, 20, 1))

	require.Error(t, svc.Update(ctx, listing.Listing{ID: "l1"}))

	// The cached page is untouched; the repository rejected the change.
	_, ok := cacheSvc.GetCachedSearch(ctx, spec)
	assert.True(t, ok)
}
