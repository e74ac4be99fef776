package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/validation"
)

// PropertyHandler handles HTTP requests for property endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the propertyService.
type PropertyHandler struct {
	propertyService  *service.PropertyService
	statementService *service.StatementService
}

// NewPropertyHandler creates a new PropertyHandler with the provided service dependencies.
func NewPropertyHandler(propertyService *service.PropertyService, statementService *service.StatementService) *PropertyHandler {
	return &PropertyHandler{
		propertyService:  propertyService,
		statementService: statementService,
	}
}

// GetAllProperties handles GET requests to retrieve all properties.
//
// Endpoint: GET /api/property
// Response: 200 OK with array of Property
// Error: 500 Internal Server Error if retrieval fails
func (h *PropertyHandler) GetAllProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.propertyService.GetAllProperties(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveProperties.Error(), err.Error())
		return
	}

	resp := make([]model.PropertyResponse, 0, len(properties))
	for _, p := range properties {
		resp = append(resp, p.ToResponse())
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// GetProperty handles GET requests to retrieve a single property.
//
// Endpoint: GET /api/property/{uuid}
// Response: 200 OK with Property
// Error: 404 Not Found if the property does not exist
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "uuid")

	property, err := h.propertyService.GetProperty(r.Context(), propertyID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveProperties.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, property.ToResponse())
}

// CreateProperty handles POST requests to issue a new property.
//
// Endpoint: POST /api/property
// Request Body: CreatePropertyRequest (name, address, totalShares, pricePerShare)
// Response: 201 Created with Property
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePropertyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateProperty(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	property, err := h.propertyService.CreateProperty(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create property")
		return
	}

	response.RespondJSON(w, http.StatusCreated, property.ToResponse())
}

// GetPropertyStatements handles GET requests to retrieve a property's rental
// statements, newest period first.
//
// Endpoint: GET /api/property/{uuid}/statements
// Response: 200 OK with array of RentalStatement
// Error: 404 Not Found if the property does not exist
func (h *PropertyHandler) GetPropertyStatements(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "uuid")

	statements, err := h.statementService.GetPropertyRentalStatements(r.Context(), propertyID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStatements.Error())
		return
	}

	resp := make([]model.StatementResponse, 0, len(statements))
	for _, st := range statements {
		resp = append(resp, st.ToResponse())
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// RefreshAvailableShares handles POST requests to recompute the cached
// available-share counts outside the scheduled refresh.
//
// Endpoint: POST /api/property/refresh-available-shares
// Response: 200 OK with refresh count
// Error: 500 Internal Server Error if the refresh fails
func (h *PropertyHandler) RefreshAvailableShares(w http.ResponseWriter, r *http.Request) {
	refreshed, err := h.propertyService.RefreshAvailableShares(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh available shares", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int64{"refreshed": refreshed})
}
