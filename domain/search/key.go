package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// KeyPrefix namespaces every search cache key in the shared store.
const KeyPrefix = "search:"

// CacheKey derives the cache key for this specification. The key is a
// fixed-width content hash of a canonical rendering: fields in
// alphabetical order, id sets sorted and comma-joined, numbers in their
// shortest decimal form, boolean flags present only when true (a false
// flag and an absent one describe the same search).
// Specifications that are equal after Normalize always produce the same
// key; any differing field changes the hash.
//
// CacheKey is pure and safe for concurrent use.
func (f FilterSpecification) CacheKey() string {
	f = f.Normalize()

	var b strings.Builder

	writeInt(&b, "bathrooms_max", f.MaxBathrooms)
	writeInt(&b, "bathrooms_min", f.MinBathrooms)
	writeString(&b, "category", f.CategoryID)
	writeSet(&b, "equipments", f.EquipmentIDs)
	writeFlag(&b, "flag_auto_accept", f.AutoAcceptOnly)
	writeFlag(&b, "flag_certified", f.CertifiedOnly)
	writeFlag(&b, "flag_contract", f.ContractRequired)
	writeFloat(&b, "floor_max", f.MaxFloorSize)
	writeFloat(&b, "floor_min", f.MinFloorSize)
	writeInt(&b, "guests_max", f.MaxGuests)
	writeInt(&b, "guests_min", f.MinGuests)
	writeString(&b, "location", f.Location)
	writeSet(&b, "meals", f.MealIDs)
	writeField(&b, "page", strconv.Itoa(f.Page))
	writeField(&b, "page_size", strconv.Itoa(f.PageSize))
	writeFloat(&b, "price_max", f.MaxPrice)
	writeFloat(&b, "price_min", f.MinPrice)
	writeString(&b, "query", f.Query)
	writeSet(&b, "room_types", f.RoomTypeIDs)
	writeInt(&b, "rooms_max", f.MaxRooms)
	writeInt(&b, "rooms_min", f.MinRooms)
	writeSet(&b, "securities", f.SecurityIDs)
	writeSet(&b, "services", f.ServiceIDs)
	writeFlag(&b, "sort_featured", f.SortFeatured)
	writeFlag(&b, "sort_popular", f.SortPopular)
	writeFlag(&b, "sort_promo", f.SortPromo)
	writeFlag(&b, "sort_recent", f.SortRecent)

	sum := sha256.Sum256([]byte(b.String()))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

func writeField(b *strings.Builder, name, value string) {
	if b.Len() > 0 {
		b.WriteByte('|')
	}
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)
}

func writeString(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	writeField(b, name, value)
}

// writeFloat renders through FormatFloat with the shortest precision so
// that 10 and 10.0 contribute identical key material.
func writeFloat(b *strings.Builder, name string, value *float64) {
	if value == nil {
		return
	}
	writeField(b, name, strconv.FormatFloat(*value, 'f', -1, 64))
}

func writeInt(b *strings.Builder, name string, value *int) {
	if value == nil {
		return
	}
	writeField(b, name, strconv.Itoa(*value))
}

func writeFlag(b *strings.Builder, name string, value bool) {
	if !value {
		return
	}
	writeField(b, name, "1")
}

func writeSet(b *strings.Builder, name string, ids []string) {
	if len(ids) == 0 {
		return
	}
	writeField(b, name, strings.Join(ids, ","))
}
