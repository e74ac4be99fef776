package validation

import (
	"strings"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
)

// ValidateCreateProperty validates a property creation request.
//
// Required fields:
//   - name: Must not be blank
//   - totalShares: Must be positive
//   - pricePerShare: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateProperty(req request.CreatePropertyRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}
	if req.TotalShares <= 0 {
		errors["totalShares"] = "totalShares must be positive"
	}
	if req.PricePerShare <= 0.0 {
		errors["pricePerShare"] = "pricePerShare must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
