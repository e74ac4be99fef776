package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// parseJSON decodes the request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// badRequestErrors are caller mistakes in the request payload itself.
var badRequestErrors = []error{
	apperrors.ErrInvalidDateRange,
	apperrors.ErrNegativeShares,
	apperrors.ErrNegativeAmount,
}

// notFoundErrors map to 404.
var notFoundErrors = []error{
	apperrors.ErrPropertyNotFound,
	apperrors.ErrUserNotFound,
	apperrors.ErrInvestmentNotFound,
	apperrors.ErrStatementNotFound,
	apperrors.ErrDistributionNotFound,
	apperrors.ErrPayoutNotFound,
}

// conflictErrors are requests that are well-formed but collide with current
// state; retrying without a state change will fail again.
var conflictErrors = []error{
	apperrors.ErrStatementLocked,
	apperrors.ErrInvalidTransition,
	apperrors.ErrDistributionNotDeletable,
	apperrors.ErrDistributionHasPaidPayouts,
	apperrors.ErrPayoutAlreadyPaid,
	apperrors.ErrInvestmentNotPending,
	apperrors.ErrInvestmentInUse,
	apperrors.ErrInsufficientShares,
	apperrors.ErrDuplicateStatement,
	apperrors.ErrDuplicateDistribution,
}

// respondServiceError translates a service error into the matching HTTP status.
// Unrecognized errors (storage failures, integrity aborts) become 500; the
// mutation has already rolled back, so a retry after the cause clears is safe.
func respondServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			response.RespondError(w, http.StatusBadRequest, sentinel.Error(), err.Error())
			return
		}
	}
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			response.RespondError(w, http.StatusNotFound, sentinel.Error(), err.Error())
			return
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			response.RespondError(w, http.StatusConflict, sentinel.Error(), err.Error())
			return
		}
	}
	response.RespondError(w, http.StatusInternalServerError, fallbackMessage, err.Error())
}
