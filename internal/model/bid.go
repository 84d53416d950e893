package model

import "time"

const (
	BidStatusPending   = "pending"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusWithdrawn = "withdrawn"
)

const (
	MinProposalLength = 50
	MaxProposalLength = 1000
)

// Bid is a contractor's priced proposal against a work request
type Bid struct {
	ID                      string          `json:"id"`
	RequestID               string          `json:"request_id"`
	ContractorID            string          `json:"contractor_id"`
	Amount                  float64         `json:"amount"`
	Proposal                string          `json:"proposal"`
	EstimatedCompletionDays *int            `json:"estimated_completion_days,omitempty"`
	Status                  string          `json:"status"`
	RejectionReason         *string         `json:"rejection_reason,omitempty"`
	Contractor              *UserSummary    `json:"contractor,omitempty"`
	Request                 *RequestSummary `json:"request,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// SubmitBidInput is used for placing a bid on an open request
type SubmitBidInput struct {
	RequestID               string  `json:"request_id" binding:"required,uuid"`
	Amount                  float64 `json:"amount" binding:"required,gt=0"`
	Proposal                string  `json:"proposal" binding:"required,min=50,max=1000"`
	EstimatedCompletionDays *int    `json:"estimated_completion_days,omitempty" binding:"omitempty,gt=0"`
}

// UpdateBidInput is used for partial updates of a pending bid
type UpdateBidInput struct {
	Amount                  *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Proposal                *string  `json:"proposal,omitempty" binding:"omitempty,min=50,max=1000"`
	EstimatedCompletionDays *int     `json:"estimated_completion_days,omitempty" binding:"omitempty,gt=0"`
}

// RejectBidInput carries an optional rejection reason
type RejectBidInput struct {
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// BidStatistics aggregates the bids placed on one request
type BidStatistics struct {
	TotalBids     int      `json:"total_bids"`
	PendingBids   int      `json:"pending_bids"`
	AcceptedBids  int      `json:"accepted_bids"`
	RejectedBids  int      `json:"rejected_bids"`
	WithdrawnBids int      `json:"withdrawn_bids"`
	AverageAmount *float64 `json:"average_amount"`
	MinAmount     *float64 `json:"min_amount"`
	MaxAmount     *float64 `json:"max_amount"`
}

// IsTerminalBidStatus reports whether no further transition is allowed from status
func IsTerminalBidStatus(status string) bool {
	return status == BidStatusAccepted || status == BidStatusRejected || status == BidStatusWithdrawn
}
