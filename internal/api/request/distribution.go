package request

// CreateDistributionRequest names the rental statement to build a draft
// distribution for.
type CreateDistributionRequest struct {
	RentalStatementID string `json:"rentalStatementId"`
}

// ApproveDistributionRequest carries optional approval notes.
type ApproveDistributionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// RejectDistributionRequest carries the rejection notes recorded on the way
// back to draft.
type RejectDistributionRequest struct {
	Notes string `json:"notes"`
}

// DeleteDistributionRequest carries the mandatory reason logged with an
// audited distribution delete.
type DeleteDistributionRequest struct {
	Reason string `json:"reason"`
}
