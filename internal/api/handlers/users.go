package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/validation"
)

// UserHandler handles HTTP requests for investor-facing distribution views.
type UserHandler struct {
	distributionService *service.DistributionService
}

// NewUserHandler creates a new UserHandler with the provided service dependency.
func NewUserHandler(distributionService *service.DistributionService) *UserHandler {
	return &UserHandler{
		distributionService: distributionService,
	}
}

// MonthlyDistributions handles GET requests to retrieve a user's declared
// payout income grouped by declaration month.
//
// Endpoint: GET /api/user/{uuid}/distributions/monthly
// Response: 200 OK with array of MonthlyDistribution
// Error: 500 Internal Server Error if retrieval fails
func (h *UserHandler) MonthlyDistributions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	months, err := h.distributionService.GetUserMonthlyDistributions(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDistributions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, months)
}

// PropertyDistributions handles GET requests to retrieve a user's declared
// payouts for one property, newest first.
//
// Endpoint: GET /api/user/{uuid}/property/{propertyUuid}/distributions
// Response: 200 OK with array of UserPropertyDistribution
// Error: 400 Bad Request if the property ID is invalid
// Error: 404 Not Found if the property does not exist
func (h *UserHandler) PropertyDistributions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")
	propertyID := chi.URLParam(r, "propertyUuid")

	if err := validation.ValidateUUID(propertyID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
		return
	}

	distributions, err := h.distributionService.GetUserDistributionsByProperty(r.Context(), userID, propertyID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDistributions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, distributions)
}
