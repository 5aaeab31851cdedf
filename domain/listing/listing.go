package listing

import (
	"time"
)

// Listing represents a rental property as returned by the search layer.
// Prices are numeric throughout; range filters are applied in a single
// phase at the query layer, never as a client-side post-filter.
type Listing struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location"`
	CategoryID    string    `json:"category_id,omitempty"`
	PricePerNight float64   `json:"price_per_night"`
	MaxGuests     int       `json:"max_guests"`
	Rooms         int       `json:"rooms"`
	Bathrooms     int       `json:"bathrooms"`
	FloorSize     float64   `json:"floor_size,omitempty"`
	Certified     bool      `json:"certified"`
	AutoAccept    bool      `json:"auto_accept"`
	Contract      bool      `json:"contract"`
	Featured      bool      `json:"featured"`
	Promoted      bool      `json:"promoted"`
	BookingCount  int       `json:"booking_count"`
	EquipmentIDs  []string  `json:"equipment_ids,omitempty"`
	ServiceIDs    []string  `json:"service_ids,omitempty"`
	MealIDs       []string  `json:"meal_ids,omitempty"`
	SecurityIDs   []string  `json:"security_ids,omitempty"`
	RoomTypeIDs   []string  `json:"room_type_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasAll reports whether the listing carries every id in want within have.
func HasAll(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
