package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/middleware"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/validation"
)

// InvestmentHandler handles HTTP requests for investment endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the investmentService.
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler with the provided service dependency.
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// GetInvestment handles GET requests to retrieve a single investment.
//
// Endpoint: GET /api/investment/{uuid}
// Response: 200 OK with Investment
// Error: 404 Not Found if the investment does not exist
func (h *InvestmentHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	inv, err := h.investmentService.GetInvestment(r.Context(), investmentID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestments.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, inv.ToResponse())
}

// GetPropertyInvestments handles GET requests to retrieve all investments for
// a property.
//
// Endpoint: GET /api/property/{uuid}/investments
// Response: 200 OK with array of Investment
// Error: 404 Not Found if the property does not exist
func (h *InvestmentHandler) GetPropertyInvestments(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "uuid")

	investments, err := h.investmentService.GetPropertyInvestments(r.Context(), propertyID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestments.Error())
		return
	}

	resp := make([]model.InvestmentResponse, 0, len(investments))
	for _, inv := range investments {
		resp = append(resp, inv.ToResponse())
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// CreateInvestment handles POST requests to record a pending share purchase.
//
// Endpoint: POST /api/investment
// Request Body: CreateInvestmentRequest (propertyId, userId, shares, and optionally purchaseDate)
// Response: 201 Created with Investment
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the property or user does not exist
// Error: 409 Conflict if fewer shares remain than requested
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInvestmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInvestment(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	inv, err := h.investmentService.CreateInvestment(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create investment")
		return
	}

	response.RespondJSON(w, http.StatusCreated, inv.ToResponse())
}

// Confirm handles POST requests to confirm a pending investment, writing the
// purchase to the ledger.
//
// Endpoint: POST /api/investment/{uuid}/confirm
// Response: 204 No Content
// Error: 404 Not Found if the investment does not exist
// Error: 409 Conflict if the investment is not pending
func (h *InvestmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	if err := h.investmentService.ConfirmInvestment(r.Context(), investmentID); err != nil {
		respondServiceError(w, err, "failed to confirm investment")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Cancel handles POST requests to cancel a pending investment.
//
// Endpoint: POST /api/investment/{uuid}/cancel
// Response: 204 No Content
// Error: 404 Not Found if the investment does not exist
// Error: 409 Conflict if the investment is not pending
func (h *InvestmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	if err := h.investmentService.CancelInvestment(r.Context(), investmentID); err != nil {
		respondServiceError(w, err, "failed to cancel investment")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Delete handles DELETE requests to remove an investment that has not yet
// received paid payouts.
//
// Endpoint: DELETE /api/investment/{uuid}
// Request Body: DeleteInvestmentRequest (optional reason)
// Response: 204 No Content
// Error: 404 Not Found if the investment does not exist
// Error: 409 Conflict if the investor already has paid payouts for the property
func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	req, _ := parseJSON[request.DeleteInvestmentRequest](r)

	if err := h.investmentService.DeleteInvestment(r.Context(), investmentID, middleware.ActorID(r), req.Reason); err != nil {
		respondServiceError(w, err, "failed to delete investment")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
