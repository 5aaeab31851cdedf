package ports

import (
	"context"

	"stayhub-backend/domain/listing"
	"stayhub-backend/domain/search"
)

// ListingSearcher is the query layer the cache fronts. Given a filter
// specification it returns the requested result page and the total
// match count; the cache layer never computes results itself.
type ListingSearcher interface {
	Search(ctx context.Context, spec search.FilterSpecification) ([]listing.Listing, int, error)
}

// ListingRepository is the product mutation collaborator. The cache
// service is notified after every mutation so affected search pages can
// be dropped ahead of their TTL.
type ListingRepository interface {
	Create(ctx context.Context, l listing.Listing) error
	Update(ctx context.Context, l listing.Listing) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*listing.Listing, error)
}

// ReferenceLists provides the static id lists (equipments, services,
// meals, securities, room types) that search filters draw from.
type ReferenceLists interface {
	List(ctx context.Context, kind string) ([]string, error)
}
