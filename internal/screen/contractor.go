package screen

import (
	"context"

	"contractor_connect/internal/api"
	"contractor_connect/internal/model"
)

// BrowseFilter narrows the browse screen
type BrowseFilter struct {
	Category string
	City     string
	State    string
}

// Contractor drives the contractor tree: browse, bid, my bids
type Contractor struct {
	requests RequestsAPI
	bids     BidsAPI
}

func NewContractor(requests RequestsAPI, bids BidsAPI) *Contractor {
	return &Contractor{requests: requests, bids: bids}
}

// Browse lists open requests
func (c *Contractor) Browse(ctx context.Context, page int, filter BrowseFilter) (model.Page[model.WorkRequest], error) {
	return c.requests.ListBrowse(ctx, api.RequestQuery{
		PageQuery: api.PageQuery{Page: page},
		Category:  filter.Category,
		City:      filter.City,
		State:     filter.State,
	})
}

func (c *Contractor) Assigned(ctx context.Context, page int) (model.Page[model.WorkRequest], error) {
	return c.requests.ListAssigned(ctx, api.RequestQuery{PageQuery: api.PageQuery{Page: page}})
}

func (c *Contractor) Request(ctx context.Context, requestID string) (*model.WorkRequest, error) {
	return c.requests.Get(ctx, requestID)
}

func (c *Contractor) SubmitBid(ctx context.Context, form BidForm) (*model.Bid, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	return c.bids.Submit(ctx, form.input())
}

func (c *Contractor) MyBids(ctx context.Context, page int, status string) (model.Page[model.Bid], error) {
	return c.bids.ListMine(ctx, api.BidQuery{PageQuery: api.PageQuery{Page: page}, Status: status})
}

// Withdraw pulls back a pending bid. A refusal comes back with the server's
// message intact.
func (c *Contractor) Withdraw(ctx context.Context, bidID string) (*model.Bid, error) {
	return c.bids.Withdraw(ctx, bidID)
}
