package validation

import (
	"strings"
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
)

// ValidateCreateStatement validates a rental statement creation request.
//
// Required fields:
//   - propertyId: Must be a valid UUID
//   - periodStart: Must be in YYYY-MM-DD format
//   - periodEnd: Must be in YYYY-MM-DD format, on or after periodStart
//   - grossRevenue: Must not be negative
//
// operatingCosts and managementFee must not be negative; incomeAdjustment may
// carry either sign. Itemized cost lines need a description and a non-negative
// amount.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateStatement(req request.CreateStatementRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.PropertyID); err != nil {
		return err
	}

	start, startErr := parseRequiredDate(req.PeriodStart, "periodStart", errors)
	end, endErr := parseRequiredDate(req.PeriodEnd, "periodEnd", errors)
	if startErr == nil && endErr == nil && end.Before(start) {
		errors["periodEnd"] = "periodEnd must be on or after periodStart"
	}

	if req.GrossRevenue < 0.0 {
		errors["grossRevenue"] = "grossRevenue must not be negative"
	}
	if req.OperatingCosts < 0.0 {
		errors["operatingCosts"] = "operatingCosts must not be negative"
	}
	if req.ManagementFee < 0.0 {
		errors["managementFee"] = "managementFee must not be negative"
	}

	validateCostItems(req.OperatingCostItems, errors)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateStatement validates a rental statement update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpdateStatement(req request.UpdateStatementRequest) error {
	errors := make(map[string]string)

	if req.PeriodStart != nil {
		parseRequiredDate(*req.PeriodStart, "periodStart", errors) //nolint:errcheck // recorded in errors
	}
	if req.PeriodEnd != nil {
		parseRequiredDate(*req.PeriodEnd, "periodEnd", errors) //nolint:errcheck // recorded in errors
	}

	if req.GrossRevenue != nil && *req.GrossRevenue < 0.0 {
		errors["grossRevenue"] = "grossRevenue must not be negative"
	}
	if req.OperatingCosts != nil && *req.OperatingCosts < 0.0 {
		errors["operatingCosts"] = "operatingCosts must not be negative"
	}
	if req.ManagementFee != nil && *req.ManagementFee < 0.0 {
		errors["managementFee"] = "managementFee must not be negative"
	}

	if req.OperatingCostItems != nil {
		validateCostItems(*req.OperatingCostItems, errors)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func parseRequiredDate(value, field string, errors map[string]string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		errors[field] = "date is required"
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		errors[field] = err.Error()
	}
	return t, err
}

func validateCostItems(items []request.CostItemInput, errors map[string]string) {
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			errors["operatingCostItems"] = "each cost item needs a description"
		}
		if item.Amount < 0.0 {
			errors["operatingCostItems"] = "cost item amounts must not be negative"
		}
	}
}
