package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPropertyNotFound indicates that a property with the given ID does not exist.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrStatementNotFound indicates that a rental statement with the given ID does not exist.
	ErrStatementNotFound = errors.New("rental statement not found")

	// ErrDistributionNotFound indicates that a distribution with the given ID does not exist.
	ErrDistributionNotFound = errors.New("distribution not found")

	// ErrPayoutNotFound indicates that a payout with the given ID does not exist.
	ErrPayoutNotFound = errors.New("payout not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a purchase cannot be completed because
	// the property does not have enough unsold shares left.
	ErrInsufficientShares = errors.New("insufficient shares available for purchase")

	// ErrNegativeShares indicates that a share count field has an invalid negative value.
	ErrNegativeShares = errors.New("shares cannot be negative")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidDateRange indicates that the provided period is invalid
	// (e.g., period start is after period end).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrDuplicateStatement indicates a statement already exists for the property and period.
	ErrDuplicateStatement = errors.New("statement already exists for period")

	// ErrDuplicateDistribution indicates the statement already has a distribution.
	ErrDuplicateDistribution = errors.New("distribution already exists for statement")

	// ErrInvestmentInUse indicates that an investment cannot be removed because
	// paid payouts reference the same property and user.
	ErrInvestmentInUse = errors.New("investment is referenced by paid payouts")
)

// State conflict errors represent operations that are illegal in the entity's
// current lifecycle state. They are terminal and require a different admin action.
var (
	// ErrStatementLocked indicates that a rental statement cannot be edited because
	// its distribution has moved past DRAFT. Editing financials after approval would
	// desynchronize already-approved payout amounts.
	ErrStatementLocked = errors.New("statement is locked by a non-draft distribution")

	// ErrInvalidTransition indicates an illegal distribution status transition.
	ErrInvalidTransition = errors.New("invalid distribution status transition")

	// ErrDistributionNotDeletable indicates a distribution delete was attempted
	// outside the DECLARED status.
	ErrDistributionNotDeletable = errors.New("distribution can only be deleted while declared")

	// ErrDistributionHasPaidPayouts indicates a distribution delete was attempted
	// while at least one payout has already been paid out.
	ErrDistributionHasPaidPayouts = errors.New("distribution has paid payouts")

	// ErrPayoutAlreadyPaid indicates a payout status update targeted a payout
	// that was already marked paid.
	ErrPayoutAlreadyPaid = errors.New("payout is already paid")

	// ErrInvestmentNotPending indicates a confirm/cancel was attempted on an
	// investment that is no longer pending.
	ErrInvestmentNotPending = errors.New("investment is not pending")
)

// Integrity errors represent internal invariant violations. They abort the
// enclosing transaction and are never persisted.
var (
	// ErrAllocationMismatch indicates the allocated payout amounts diverge from the
	// distribution total beyond the bounded rounding tolerance.
	ErrAllocationMismatch = errors.New("allocated payout sum diverges from distribution total")

	// ErrShareCountMismatch indicates that per-holder shares, including the unsold
	// inventory holder, do not sum to the property's total shares.
	ErrShareCountMismatch = errors.New("holder shares do not sum to total shares")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. The caller may retry the whole operation; allocation replaces
// rather than appends, so re-submission is safe.
var (
	ErrFailedToRetrieveProperties    = errors.New("failed to retrieve properties")
	ErrFailedToRetrieveInvestments   = errors.New("failed to retrieve investments")
	ErrFailedToRetrieveStatements    = errors.New("failed to retrieve rental statements")
	ErrFailedToRetrieveDistributions = errors.New("failed to retrieve distributions")
)
