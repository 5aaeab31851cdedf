package search

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "stayhub-backend/pkg/errors"
)

// FilterSpecification is the canonical description of one search request.
// It is a closed, validated type: every recognized filter dimension is a
// declared field, so a typo can never silently produce a distinct cache key.
// Pagination is part of the specification because result pages are cached
// independently.
type FilterSpecification struct {
	Query      string `json:"query,omitempty" validate:"max=200"`
	Location   string `json:"location,omitempty" validate:"max=200"`
	CategoryID string `json:"category_id,omitempty" validate:"max=64"`

	MinPrice     *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	MinGuests    *int     `json:"min_guests,omitempty" validate:"omitempty,gte=0"`
	MaxGuests    *int     `json:"max_guests,omitempty" validate:"omitempty,gte=0"`
	MinRooms     *int     `json:"min_rooms,omitempty" validate:"omitempty,gte=0"`
	MaxRooms     *int     `json:"max_rooms,omitempty" validate:"omitempty,gte=0"`
	MinBathrooms *int     `json:"min_bathrooms,omitempty" validate:"omitempty,gte=0"`
	MaxBathrooms *int     `json:"max_bathrooms,omitempty" validate:"omitempty,gte=0"`
	MinFloorSize *float64 `json:"min_floor_size,omitempty" validate:"omitempty,gte=0"`
	MaxFloorSize *float64 `json:"max_floor_size,omitempty" validate:"omitempty,gte=0"`

	CertifiedOnly    bool `json:"certified_only,omitempty"`
	AutoAcceptOnly   bool `json:"auto_accept_only,omitempty"`
	ContractRequired bool `json:"contract_required,omitempty"`
	SortFeatured     bool `json:"sort_featured,omitempty"`
	SortPopular      bool `json:"sort_popular,omitempty"`
	SortRecent       bool `json:"sort_recent,omitempty"`
	SortPromo        bool `json:"sort_promo,omitempty"`

	EquipmentIDs []string `json:"equipment_ids,omitempty" validate:"dive,max=64"`
	ServiceIDs   []string `json:"service_ids,omitempty" validate:"dive,max=64"`
	MealIDs      []string `json:"meal_ids,omitempty" validate:"dive,max=64"`
	SecurityIDs  []string `json:"security_ids,omitempty" validate:"dive,max=64"`
	RoomTypeIDs  []string `json:"room_type_ids,omitempty" validate:"dive,max=64"`

	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"page_size" validate:"gte=0,lte=100"`
}

var validate = validator.New()

// Normalize returns a copy with every field in canonical form: trimmed
// strings, deduplicated and sorted id sets (empty sets become nil, the
// same as absent), and pagination defaults applied. Two specifications
// that describe the same search normalize to the same value.
func (f FilterSpecification) Normalize() FilterSpecification {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	f.CategoryID = strings.TrimSpace(f.CategoryID)

	f.EquipmentIDs = normalizeSet(f.EquipmentIDs)
	f.ServiceIDs = normalizeSet(f.ServiceIDs)
	f.MealIDs = normalizeSet(f.MealIDs)
	f.SecurityIDs = normalizeSet(f.SecurityIDs)
	f.RoomTypeIDs = normalizeSet(f.RoomTypeIDs)

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	return f
}

// Validate checks the specification at the boundary, before key
// derivation. Range fields must individually be non-negative and each
// (min, max) pair must be ordered when both ends are present.
func (f FilterSpecification) Validate() error {
	if err := validate.Struct(f); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if err := checkFloatRange("price", f.MinPrice, f.MaxPrice); err != nil {
		return err
	}
	if err := checkFloatRange("floor_size", f.MinFloorSize, f.MaxFloorSize); err != nil {
		return err
	}
	if err := checkIntRange("guests", f.MinGuests, f.MaxGuests); err != nil {
		return err
	}
	if err := checkIntRange("rooms", f.MinRooms, f.MaxRooms); err != nil {
		return err
	}
	if err := checkIntRange("bathrooms", f.MinBathrooms, f.MaxBathrooms); err != nil {
		return err
	}

	return nil
}

func checkFloatRange(name string, min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return apperrors.NewValidationError("min_" + name + " exceeds max_" + name)
	}
	return nil
}

func checkIntRange(name string, min, max *int) error {
	if min != nil && max != nil && *min > *max {
		return apperrors.NewValidationError("min_" + name + " exceeds max_" + name)
	}
	return nil
}

func normalizeSet(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
