package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stayhub-backend/application/services"
	"stayhub-backend/domain/listing"
	"stayhub-backend/pkg/common"
)

// ListingHandler serves the listing mutation endpoints. Every mutation
// flows through the listing service, which invalidates affected search
// cache pages.
type ListingHandler struct {
	service *services.ListingService
	logger  *zap.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service *services.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		logger:  logger,
	}
}

// GetListing handles GET /listings/{listingID}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")

	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, l)
}

// CreateListing handles POST /listings
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var l listing.Listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if l.ID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "listing id is required")
		return
	}

	if err := h.service.Create(r.Context(), l); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("listing created", zap.String("listing_id", l.ID))
	common.RespondJSON(w, http.StatusCreated, l)
}

// UpdateListing handles PUT /listings/{listingID}
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")

	var l listing.Listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	l.ID = id

	if err := h.service.Update(r.Context(), l); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("listing updated", zap.String("listing_id", id))
	common.RespondJSON(w, http.StatusOK, l)
}

// DeleteListing handles DELETE /listings/{listingID}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")

	if err := h.service.Delete(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("listing deleted", zap.String("listing_id", id))
	w.WriteHeader(http.StatusNoContent)
}
