package validation

import (
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
)

// ValidateCreateInvestment validates a share purchase request.
//
// Required fields:
//   - propertyId: Must be a valid UUID
//   - userId: Must be a valid UUID
//   - shares: Must be positive
//
// Optional fields (validated if provided):
//   - purchaseDate: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateInvestment(req request.CreateInvestmentRequest) error {
	if err := ValidateUUID(req.PropertyID); err != nil {
		return err
	}
	if err := ValidateUUID(req.UserID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}

	if req.PurchaseDate != "" {
		if _, err := time.Parse("2006-01-02", req.PurchaseDate); err != nil {
			errors["purchaseDate"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
