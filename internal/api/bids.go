package api

import (
	"context"
	"net/url"

	"contractor_connect/internal/model"
)

// BidQuery narrows a bid listing
type BidQuery struct {
	PageQuery
	Status string
}

func (q BidQuery) values() url.Values {
	v := q.PageQuery.values()
	setIfNotEmpty(v, "status", q.Status)
	return v
}

// StatisticsResult separates "the request has no bids" from "the fetch
// failed". Exactly one of Stats and Err is set.
type StatisticsResult struct {
	Stats *model.BidStatistics
	Err   error
}

// Available reports whether statistics were fetched
func (r StatisticsResult) Available() bool {
	return r.Err == nil && r.Stats != nil
}

func (r StatisticsResult) Failed() bool {
	return r.Err != nil
}

// BidsAPI wraps the /bids endpoints and the bid views of /requests
type BidsAPI struct {
	gw Gateway
}

// ListMine lists the calling contractor's bids
func (b *BidsAPI) ListMine(ctx context.Context, q BidQuery) (model.Page[model.Bid], error) {
	return listPage(ctx, b.gw, "/bids/my-bids", q.PageQuery, q.values(), bidItems)
}

// ListForRequest lists the bids placed on a request
func (b *BidsAPI) ListForRequest(ctx context.Context, requestID string, q BidQuery) (model.Page[model.Bid], error) {
	return listPage(ctx, b.gw, "/requests/"+url.PathEscape(requestID)+"/bids", q.PageQuery, q.values(), bidItems)
}

func (b *BidsAPI) Get(ctx context.Context, id string) (*model.Bid, error) {
	var bid model.Bid
	if err := b.gw.Get(ctx, bidPath(id, ""), nil, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

func (b *BidsAPI) Submit(ctx context.Context, input model.SubmitBidInput) (*model.Bid, error) {
	var bid model.Bid
	if err := b.gw.Post(ctx, "/bids", input, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

func (b *BidsAPI) Update(ctx context.Context, id string, input model.UpdateBidInput) (*model.Bid, error) {
	var bid model.Bid
	if err := b.gw.Put(ctx, bidPath(id, ""), input, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

func (b *BidsAPI) Withdraw(ctx context.Context, id string) (*model.Bid, error) {
	return b.transition(ctx, id, "withdraw", nil)
}

func (b *BidsAPI) Accept(ctx context.Context, id string) (*model.Bid, error) {
	return b.transition(ctx, id, "accept", nil)
}

// Reject declines a bid; reason may be empty
func (b *BidsAPI) Reject(ctx context.Context, id, reason string) (*model.Bid, error) {
	input := model.RejectBidInput{}
	if reason != "" {
		input.Reason = &reason
	}
	return b.transition(ctx, id, "reject", input)
}

func (b *BidsAPI) Delete(ctx context.Context, id string) error {
	return b.gw.Delete(ctx, bidPath(id, ""))
}

// Statistics fetches the bid aggregates of a request. It never fails the
// caller; the outcome is carried in the result.
func (b *BidsAPI) Statistics(ctx context.Context, requestID string) StatisticsResult {
	var stats model.BidStatistics
	if err := b.gw.Get(ctx, "/requests/"+url.PathEscape(requestID)+"/bid-statistics", nil, &stats); err != nil {
		return StatisticsResult{Err: err}
	}
	return StatisticsResult{Stats: &stats}
}

func (b *BidsAPI) transition(ctx context.Context, id, action string, body any) (*model.Bid, error) {
	var bid model.Bid
	if err := b.gw.Post(ctx, bidPath(id, action), body, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

func bidPath(id, action string) string {
	p := "/bids/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}
