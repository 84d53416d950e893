package model

import "time"

const (
	RequestStatusOpen       = "open"
	RequestStatusInProgress = "in_progress"
	RequestStatusCompleted  = "completed"
	RequestStatusCancelled  = "cancelled"
	RequestStatusOnHold     = "on_hold"
)

// Categories accepted for work requests
var RequestCategories = []string{
	"construction",
	"renovation",
	"plumbing",
	"electrical",
	"painting",
	"flooring",
	"roofing",
	"landscaping",
	"interior_design",
	"other",
}

// WorkRequest is a unit of work posted by a society and open for bidding
type WorkRequest struct {
	ID                   string       `json:"id"`
	SocietyID            string       `json:"society_id"`
	AssignedContractorID *string      `json:"assigned_contractor_id,omitempty"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Category             string       `json:"category"`
	Status               string       `json:"status"`
	Location             *string      `json:"location,omitempty"`
	City                 string       `json:"city"`
	State                string       `json:"state"`
	Pincode              *string      `json:"pincode,omitempty"`
	BudgetMin            *float64     `json:"budget_min,omitempty"`
	BudgetMax            *float64     `json:"budget_max,omitempty"`
	Images               []string     `json:"images"`
	BidsCount            int          `json:"bids_count"`
	Society              *UserSummary `json:"society,omitempty"`
	AssignedContractor   *UserSummary `json:"assigned_contractor,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
	StartedAt            *time.Time   `json:"started_at,omitempty"`
	CompletedAt          *time.Time   `json:"completed_at,omitempty"`
}

// RequestSummary is the nested request shape embedded in bids
type RequestSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	City   string `json:"city"`
}

// CreateRequestInput is used for posting a new work request
type CreateRequestInput struct {
	Title       string   `json:"title" binding:"required,min=5,max=255"`
	Description string   `json:"description" binding:"required,min=50"`
	Category    string   `json:"category" binding:"required,oneof=construction renovation plumbing electrical painting flooring roofing landscaping interior_design other"`
	Location    *string  `json:"location,omitempty"`
	City        string   `json:"city" binding:"required,max=100"`
	State       string   `json:"state" binding:"required,max=100"`
	Pincode     *string  `json:"pincode,omitempty" binding:"omitempty,max=10"`
	BudgetMin   *float64 `json:"budget_min,omitempty" binding:"omitempty,gte=0"`
	BudgetMax   *float64 `json:"budget_max,omitempty" binding:"omitempty,gte=0"`
}

// UpdateRequestInput is used for partial updates of a work request
type UpdateRequestInput struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=5,max=255"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=50"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,oneof=construction renovation plumbing electrical painting flooring roofing landscaping interior_design other"`
	Location    *string  `json:"location,omitempty"`
	City        *string  `json:"city,omitempty" binding:"omitempty,max=100"`
	State       *string  `json:"state,omitempty" binding:"omitempty,max=100"`
	Pincode     *string  `json:"pincode,omitempty" binding:"omitempty,max=10"`
	BudgetMin   *float64 `json:"budget_min,omitempty" binding:"omitempty,gte=0"`
	BudgetMax   *float64 `json:"budget_max,omitempty" binding:"omitempty,gte=0"`
}

// RequestFilters narrows request listings
type RequestFilters struct {
	SocietyID            *string
	AssignedContractorID *string
	Status               *string
	Category             *string
	City                 *string
	State                *string
	Skip                 int
	Limit                int
}

// IsValidCategory reports whether c is one of RequestCategories
func IsValidCategory(c string) bool {
	for _, known := range RequestCategories {
		if c == known {
			return true
		}
	}
	return false
}
