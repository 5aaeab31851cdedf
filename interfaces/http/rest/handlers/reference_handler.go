package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stayhub-backend/application/services"
	"stayhub-backend/pkg/common"
)

// ReferenceHandler serves the static filter reference lists.
type ReferenceHandler struct {
	service *services.ReferenceService
	logger  *zap.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(service *services.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		service: service,
		logger:  logger,
	}
}

// ListReferences handles GET /references
func (h *ReferenceHandler) ListReferences(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.GetAll(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, lists)
}
