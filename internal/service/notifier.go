package service

import (
	"context"
	"log"
)

// Notifier is the outbound notification port. Hooks are invoked after a state
// transition has committed; a failing hook is logged and never rolls the
// transition back.
type Notifier interface {
	// DistributionPendingApproval fires when a draft is submitted for approval.
	DistributionPendingApproval(ctx context.Context, distributionID string) error

	// DistributionDeclared fires once per investor payout when a distribution
	// is declared and its payouts become ledger-visible.
	DistributionDeclared(ctx context.Context, distributionID, userID string, amount float64) error

	// PayoutPaid fires when an individual payout is marked paid.
	PayoutPaid(ctx context.Context, payoutID, userID string, amount float64) error
}

// LogNotifier is the default Notifier; it only writes to the application log.
// Deployments plug in mail/push implementations behind the same interface.
type LogNotifier struct{}

// DistributionPendingApproval logs the submission.
func (LogNotifier) DistributionPendingApproval(_ context.Context, distributionID string) error {
	log.Printf("notify: distribution %s pending approval", distributionID)
	return nil
}

// DistributionDeclared logs the declaration for one investor.
func (LogNotifier) DistributionDeclared(_ context.Context, distributionID, userID string, amount float64) error {
	log.Printf("notify: distribution %s declared, user %s receives %.2f", distributionID, userID, amount)
	return nil
}

// PayoutPaid logs the payment.
func (LogNotifier) PayoutPaid(_ context.Context, payoutID, userID string, amount float64) error {
	log.Printf("notify: payout %s paid to user %s (%.2f)", payoutID, userID, amount)
	return nil
}
