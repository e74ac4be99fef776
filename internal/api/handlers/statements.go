package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/validation"
)

// StatementHandler handles HTTP requests for rental statement endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the statementService.
type StatementHandler struct {
	statementService *service.StatementService
}

// NewStatementHandler creates a new StatementHandler with the provided service dependency.
func NewStatementHandler(statementService *service.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
	}
}

// GetStatement handles GET requests to retrieve a single rental statement.
//
// Endpoint: GET /api/statement/{uuid}
// Response: 200 OK with RentalStatement
// Error: 404 Not Found if the statement does not exist
func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	statementID := chi.URLParam(r, "uuid")

	statement, err := h.statementService.GetStatement(r.Context(), statementID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStatements.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, statement.ToResponse())
}

// CreateStatement handles POST requests to create a rental statement.
// netDistributable is derived server-side; a value in the request body is ignored.
//
// Endpoint: POST /api/statement
// Request Body: CreateStatementRequest (propertyId, periodStart, periodEnd, grossRevenue, operatingCosts, managementFee, incomeAdjustment, and optionally operatingCostItems)
// Response: 201 Created with RentalStatement
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the property does not exist
// Error: 409 Conflict if the property already has a statement for the period
func (h *StatementHandler) CreateStatement(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateStatementRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateStatement(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	statement, err := h.statementService.CreateStatement(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create statement")
		return
	}

	response.RespondJSON(w, http.StatusCreated, statement.ToResponse())
}

// UpdateStatement handles PUT requests to edit a rental statement.
// While the statement's distribution is draft the edit cascades into a payout
// reallocation; past draft the edit is refused.
//
// Endpoint: PUT /api/statement/{uuid}
// Request Body: UpdateStatementRequest (all fields optional)
// Response: 200 OK with updated RentalStatement
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the statement does not exist
// Error: 409 Conflict if the distribution has moved past draft
func (h *StatementHandler) UpdateStatement(w http.ResponseWriter, r *http.Request) {
	statementID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateStatementRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateStatement(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	statement, err := h.statementService.UpdateStatement(r.Context(), statementID, req)
	if err != nil {
		respondServiceError(w, err, "failed to update statement")
		return
	}

	response.RespondJSON(w, http.StatusOK, statement.ToResponse())
}
