package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"stayhub-backend/application/services"
	"stayhub-backend/domain/search"
	"stayhub-backend/pkg/common"
)

// SearchHandler serves the listing search endpoint through the cache.
type SearchHandler struct {
	service *services.SearchService
	logger  *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// Search handles GET /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	spec := specFromQuery(r)

	result, cached, err := h.service.Search(r.Context(), spec)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Results, &common.MetaInfo{
		Cached:     cached,
		Pagination: &result.Pagination,
	})
}

// specFromQuery maps URL query parameters onto the closed filter type.
// Unknown parameters are ignored; malformed numbers fall back to absent
// rather than failing the request.
func specFromQuery(r *http.Request) search.FilterSpecification {
	q := r.URL.Query()
	pagination := common.ExtractPaginationParams(r)

	spec := search.FilterSpecification{
		Query:      q.Get("q"),
		Location:   q.Get("location"),
		CategoryID: q.Get("category"),

		MinPrice:     queryFloat(q.Get("min_price")),
		MaxPrice:     queryFloat(q.Get("max_price")),
		MinGuests:    queryInt(q.Get("min_guests")),
		MaxGuests:    queryInt(q.Get("max_guests")),
		MinRooms:     queryInt(q.Get("min_rooms")),
		MaxRooms:     queryInt(q.Get("max_rooms")),
		MinBathrooms: queryInt(q.Get("min_bathrooms")),
		MaxBathrooms: queryInt(q.Get("max_bathrooms")),
		MinFloorSize: queryFloat(q.Get("min_floor_size")),
		MaxFloorSize: queryFloat(q.Get("max_floor_size")),

		CertifiedOnly:    queryBool(q.Get("certified")),
		AutoAcceptOnly:   queryBool(q.Get("auto_accept")),
		ContractRequired: queryBool(q.Get("contract")),

		EquipmentIDs: queryCSV(q.Get("equipments")),
		ServiceIDs:   queryCSV(q.Get("services")),
		MealIDs:      queryCSV(q.Get("meals")),
		SecurityIDs:  queryCSV(q.Get("securities")),
		RoomTypeIDs:  queryCSV(q.Get("room_types")),

		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}

	switch q.Get("sort") {
	case "featured":
		spec.SortFeatured = true
	case "popular":
		spec.SortPopular = true
	case "recent":
		spec.SortRecent = true
	case "promo":
		spec.SortPromo = true
	}

	return spec
}

func queryFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}

func queryCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
