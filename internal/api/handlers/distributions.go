package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/middleware"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/validation"
)

// DistributionHandler handles HTTP requests for distribution lifecycle
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the distributionService.
type DistributionHandler struct {
	distributionService *service.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler with the provided service dependency.
func NewDistributionHandler(distributionService *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{
		distributionService: distributionService,
	}
}

// GetDistribution handles GET requests to retrieve a distribution with its
// payouts. A declared distribution whose payouts are all paid reports the
// aggregate status PAID.
//
// Endpoint: GET /api/distribution/{uuid}
// Response: 200 OK with Distribution including payouts
// Error: 404 Not Found if the distribution does not exist
func (h *DistributionHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	dist, err := h.distributionService.GetDistribution(r.Context(), distributionID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDistributions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dist)
}

// CreateDistribution handles POST requests to create a draft distribution for
// a rental statement, allocating the initial payout set.
//
// Endpoint: POST /api/distribution
// Request Body: CreateDistributionRequest (rentalStatementId)
// Response: 201 Created with Distribution including payouts
// Error: 400 Bad Request if the statement ID is invalid
// Error: 404 Not Found if the statement does not exist
// Error: 409 Conflict if the statement already has a distribution
func (h *DistributionHandler) CreateDistribution(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDistributionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUUID(req.RentalStatementID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
		return
	}

	dist, payouts, err := h.distributionService.CreateDistribution(r.Context(), req.RentalStatementID, middleware.ActorID(r))
	if err != nil {
		respondServiceError(w, err, "failed to create distribution")
		return
	}

	resp := dist.ToResponse()
	for _, p := range payouts {
		resp.Payouts = append(resp.Payouts, p.ToResponse())
	}
	response.RespondJSON(w, http.StatusCreated, resp)
}

// Submit handles POST requests to move a draft distribution into
// PENDING_APPROVAL.
//
// Endpoint: POST /api/distribution/{uuid}/submit
// Response: 204 No Content
// Error: 404 Not Found if the distribution does not exist
// Error: 409 Conflict if the distribution is not in DRAFT
func (h *DistributionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	if err := h.distributionService.Submit(r.Context(), distributionID, middleware.ActorID(r)); err != nil {
		respondServiceError(w, err, "failed to submit distribution")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Approve handles POST requests to approve a pending distribution.
//
// Endpoint: POST /api/distribution/{uuid}/approve
// Request Body: ApproveDistributionRequest (optional notes)
// Response: 204 No Content
// Error: 404 Not Found if the distribution does not exist
// Error: 409 Conflict if the distribution is not in PENDING_APPROVAL
func (h *DistributionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ApproveDistributionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.distributionService.Approve(r.Context(), distributionID, middleware.ActorID(r), req.Notes); err != nil {
		respondServiceError(w, err, "failed to approve distribution")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Reject handles POST requests to return a pending distribution to DRAFT.
//
// Endpoint: POST /api/distribution/{uuid}/reject
// Request Body: RejectDistributionRequest (notes)
// Response: 204 No Content
// Error: 400 Bad Request if notes are missing
// Error: 404 Not Found if the distribution does not exist
// Error: 409 Conflict if the distribution is not in PENDING_APPROVAL
func (h *DistributionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.RejectDistributionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Notes) == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "notes are required when rejecting")
		return
	}

	if err := h.distributionService.Reject(r.Context(), distributionID, middleware.ActorID(r), req.Notes); err != nil {
		respondServiceError(w, err, "failed to reject distribution")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Declare handles POST requests to declare an approved distribution, freezing
// its total and emitting one ledger transaction per payout.
//
// Endpoint: POST /api/distribution/{uuid}/declare
// Response: 204 No Content
// Error: 404 Not Found if the distribution does not exist
// Error: 409 Conflict if the distribution is not in APPROVED
// Error: 500 Internal Server Error if the payout sum diverges from the total (nothing is persisted)
func (h *DistributionHandler) Declare(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	if err := h.distributionService.Declare(r.Context(), distributionID, middleware.ActorID(r)); err != nil {
		respondServiceError(w, err, "failed to declare distribution")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Delete handles DELETE requests to remove a declared distribution before any
// payout is paid. The reason is recorded in the audit log.
//
// Endpoint: DELETE /api/distribution/{uuid}
// Request Body: DeleteDistributionRequest (reason)
// Response: 204 No Content
// Error: 400 Bad Request if the reason is missing
// Error: 404 Not Found if the distribution does not exist
// Error: 409 Conflict if the distribution is not declared or has paid payouts
func (h *DistributionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.DeleteDistributionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "reason is required when deleting a distribution")
		return
	}

	if err := h.distributionService.Delete(r.Context(), distributionID, middleware.ActorID(r), req.Reason); err != nil {
		respondServiceError(w, err, "failed to delete distribution")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// FixUnsoldShares handles POST requests to recompute the unsold inventory
// payout's share snapshot from current confirmed investments.
//
// Endpoint: POST /api/distribution/{uuid}/fix-unsold-shares
// Response: 204 No Content
// Error: 404 Not Found if the distribution does not exist
func (h *DistributionHandler) FixUnsoldShares(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	if err := h.distributionService.FixUnsoldInventoryShares(r.Context(), distributionID, middleware.ActorID(r)); err != nil {
		respondServiceError(w, err, "failed to fix unsold inventory shares")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
