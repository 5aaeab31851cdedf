package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stayhub-backend/domain/listing"
	"stayhub-backend/domain/search"
	apperrors "stayhub-backend/pkg/errors"
)

// ListingStore is an in-process implementation of the query layer and
// the listing repository, used in development and tests. Filtering is a
// single-phase predicate over numeric fields; prices are float64
// throughout, never strings post-filtered on the client side.
type ListingStore struct {
	mu       sync.RWMutex
	listings map[string]listing.Listing
	refs     map[string][]string
}

// NewListingStore creates an empty store.
func NewListingStore() *ListingStore {
	return &ListingStore{
		listings: make(map[string]listing.Listing),
		refs:     make(map[string][]string),
	}
}

// Seed replaces the stored listings; test and dev bootstrap helper.
func (s *ListingStore) Seed(listings []listing.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings = make(map[string]listing.Listing, len(listings))
	for _, l := range listings {
		s.listings[l.ID] = l
	}
}

// SeedReferences replaces the reference id lists.
func (s *ListingStore) SeedReferences(refs map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs = refs
}

// Search applies the specification as a predicate, orders by the active
// sort toggle and returns the requested page plus the total match count.
func (s *ListingStore) Search(ctx context.Context, spec search.FilterSpecification) ([]listing.Listing, int, error) {
	spec = spec.Normalize()

	s.mu.RLock()
	matched := make([]listing.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if matches(l, spec) {
			matched = append(matched, l)
		}
	}
	s.mu.RUnlock()

	orderResults(matched, spec)

	total := len(matched)
	start := (spec.Page - 1) * spec.PageSize
	if start >= total {
		return []listing.Listing{}, total, nil
	}
	end := start + spec.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Get returns a listing by id.
func (s *ListingStore) Get(ctx context.Context, id string) (*listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("listing")
	}
	return &l, nil
}

// Create stores a new listing.
func (s *ListingStore) Create(ctx context.Context, l listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[l.ID]; exists {
		return apperrors.NewValidationError("listing id already exists")
	}
	s.listings[l.ID] = l
	return nil
}

// Update replaces an existing listing.
func (s *ListingStore) Update(ctx context.Context, l listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[l.ID]; !exists {
		return apperrors.NewNotFoundError("listing")
	}
	s.listings[l.ID] = l
	return nil
}

// Delete removes a listing.
func (s *ListingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[id]; !exists {
		return apperrors.NewNotFoundError("listing")
	}
	delete(s.listings, id)
	return nil
}

// List returns a reference id list by kind.
func (s *ListingStore) List(ctx context.Context, kind string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.refs[kind]
	if !ok {
		return []string{}, nil
	}
	return ids, nil
}

func matches(l listing.Listing, spec search.FilterSpecification) bool {
	if spec.Query != "" {
		q := strings.ToLower(spec.Query)
		if !strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	if spec.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(spec.Location)) {
		return false
	}
	if spec.CategoryID != "" && l.CategoryID != spec.CategoryID {
		return false
	}

	if spec.MinPrice != nil && l.PricePerNight < *spec.MinPrice {
		return false
	}
	if spec.MaxPrice != nil && l.PricePerNight > *spec.MaxPrice {
		return false
	}
	if spec.MinGuests != nil && l.MaxGuests < *spec.MinGuests {
		return false
	}
	if spec.MaxGuests != nil && l.MaxGuests > *spec.MaxGuests {
		return false
	}
	if spec.MinRooms != nil && l.Rooms < *spec.MinRooms {
		return false
	}
	if spec.MaxRooms != nil && l.Rooms > *spec.MaxRooms {
		return false
	}
	if spec.MinBathrooms != nil && l.Bathrooms < *spec.MinBathrooms {
		return false
	}
	if spec.MaxBathrooms != nil && l.Bathrooms > *spec.MaxBathrooms {
		return false
	}
	if spec.MinFloorSize != nil && l.FloorSize < *spec.MinFloorSize {
		return false
	}
	if spec.MaxFloorSize != nil && l.FloorSize > *spec.MaxFloorSize {
		return false
	}

	if spec.CertifiedOnly && !l.Certified {
		return false
	}
	if spec.AutoAcceptOnly && !l.AutoAccept {
		return false
	}
	if spec.ContractRequired && !l.Contract {
		return false
	}

	if !listing.HasAll(l.EquipmentIDs, spec.EquipmentIDs) {
		return false
	}
	if !listing.HasAll(l.ServiceIDs, spec.ServiceIDs) {
		return false
	}
	if !listing.HasAll(l.MealIDs, spec.MealIDs) {
		return false
	}
	if !listing.HasAll(l.SecurityIDs, spec.SecurityIDs) {
		return false
	}
	if !listing.HasAll(l.RoomTypeIDs, spec.RoomTypeIDs) {
		return false
	}

	return true
}

// orderResults sorts deterministically: the active sort toggle first
// (featured > promo > popular > recent), id as the final tiebreaker so
// equal pages always serialize identically.
func orderResults(results []listing.Listing, spec search.FilterSpecification) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch {
		case spec.SortFeatured && a.Featured != b.Featured:
			return a.Featured
		case spec.SortPromo && a.Promoted != b.Promoted:
			return a.Promoted
		case spec.SortPopular && a.BookingCount != b.BookingCount:
			return a.BookingCount > b.BookingCount
		case spec.SortRecent && !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.After(b.CreatedAt)
		case !a.UpdatedAt.Equal(b.UpdatedAt):
			return a.UpdatedAt.After(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	})
}
