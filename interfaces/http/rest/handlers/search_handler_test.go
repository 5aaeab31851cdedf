package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecFromQueryMapsFilters(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/search?q=villa&location=nice&category=house"+
			"&min_price=50&max_price=200.5&min_guests=2&max_rooms=4"+
			"&certified=true&auto_accept=1&contract=no"+
			"&equipments=wifi,pool&room_types=suite"+
			"&sort=featured&page=2&limit=30", nil)

	spec := specFromQuery(r)

	assert.Equal(t, "villa", spec.Query)
	assert.Equal(t, "nice", spec.Location)
	assert.Equal(t, "house", spec.CategoryID)

	require.NotNil(t, spec.MinPrice)
	assert.Equal(t, 50.0, *spec.MinPrice)
	require.NotNil(t, spec.MaxPrice)
	assert.Equal(t, 200.5, *spec.MaxPrice)
	require.NotNil(t, spec.MinGuests)
	assert.Equal(t, 2, *spec.MinGuests)
	require.NotNil(t, spec.MaxRooms)
	assert.Equal(t, 4, *spec.MaxRooms)
	assert.Nil(t, spec.MaxGuests)

	assert.True(t, spec.CertifiedOnly)
	assert.True(t, spec.AutoAcceptOnly)
	assert.False(t, spec.ContractRequired)

	assert.Equal(t, []string{"wifi", "pool"}, spec.EquipmentIDs)
	assert.Equal(t, []string{"suite"}, spec.RoomTypeIDs)
	assert.Nil(t, spec.ServiceIDs)

	assert.True(t, spec.SortFeatured)
	assert.False(t, spec.SortPopular)

	assert.Equal(t, 2, spec.Page)
	assert.Equal(t, 30, spec.PageSize)
}

func TestSpecFromQueryIgnoresMalformedNumbers(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?min_price=cheap&max_guests=many&page=zero", nil)

	spec := specFromQuery(r)

	assert.Nil(t, spec.MinPrice)
	assert.Nil(t, spec.MaxGuests)
	// Pagination falls back to its defaults.
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 20, spec.PageSize)
}

func TestSpecFromQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/search", nil)

	spec := specFromQuery(r)

	assert.Empty(t, spec.Query)
	assert.Nil(t, spec.MinPrice)
	assert.False(t, spec.SortFeatured)
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 20, spec.PageSize)
}
