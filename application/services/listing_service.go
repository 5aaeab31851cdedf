package services

import (
	"context"

	"go.uber.org/zap"

	"stayhub-backend/application/ports"
	"stayhub-backend/domain/listing"
)

// ListingService wraps the listing repository and notifies the search
// cache after every mutation, so stale pages are dropped ahead of their
// TTL. Invalidation is a freshness improvement, not a correctness
// requirement; a failed invalidation only means the TTL bounds the
// staleness instead.
type ListingService struct {
	repo   ports.ListingRepository
	cache  *SearchCacheService
	logger *zap.Logger
}

// NewListingService creates the listing mutation service.
func NewListingService(repo ports.ListingRepository, cache *SearchCacheService, logger *zap.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Get returns a single listing.
func (s *ListingService) Get(ctx context.Context, id string) (*listing.Listing, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new listing and invalidates affected search pages.
func (s *ListingService) Create(ctx context.Context, l listing.Listing) error {
	if err := s.repo.Create(ctx, l); err != nil {
		return err
	}
	s.cache.InvalidateListing(ctx, l.ID)
	return nil
}

// Update modifies a listing and invalidates affected search pages.
func (s *ListingService) Update(ctx context.Context, l listing.Listing) error {
	if err := s.repo.Update(ctx, l); err != nil {
		return err
	}
	s.cache.InvalidateListing(ctx, l.ID)
	return nil
}

// Delete removes a listing and invalidates affected search pages.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateListing(ctx, id)
	return nil
}
