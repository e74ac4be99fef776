package validation

import (
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
)

// ValidatePayoutUpdate validates one row of a bulk payout status update.
//
// Required fields:
//   - payoutId: Must be a valid UUID
//   - status: Must be PAID (the only supported target status)
//
// Optional fields (validated if provided):
//   - amount: Must be positive
//   - paidAt: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidatePayoutUpdate(req request.PayoutUpdateRequest) error {
	if err := ValidateUUID(req.PayoutID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if req.Status != "PAID" {
		errors["status"] = "status must be PAID"
	}

	if req.Amount != nil && *req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}

	if req.PaidAt != "" {
		if _, err := time.Parse("2006-01-02", req.PaidAt); err != nil {
			errors["paidAt"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidatePayoutImport checks the batch envelope; individual rows are
// validated one by one so a bad row does not reject the whole batch.
func ValidatePayoutImport(req request.PayoutImportRequest) error {
	if len(req.Rows) == 0 {
		return &Error{Fields: map[string]string{"rows": "at least one row is required"}}
	}
	return nil
}
