package screen

import (
	"context"

	"contractor_connect/internal/api"
	"contractor_connect/internal/model"

	"github.com/sirupsen/logrus"
)

// RequestDetails is everything the request-details screen shows
type RequestDetails struct {
	Request *model.WorkRequest
	Bids    model.Page[model.Bid]
	Stats   api.StatisticsResult
}

// Society drives the society tree: home, create, details
type Society struct {
	requests RequestsAPI
	bids     BidsAPI
}

func NewSociety(requests RequestsAPI, bids BidsAPI) *Society {
	return &Society{requests: requests, bids: bids}
}

// Home lists the society's own requests, optionally by status
func (s *Society) Home(ctx context.Context, page int, status string) (model.Page[model.WorkRequest], error) {
	return s.requests.ListMine(ctx, api.RequestQuery{PageQuery: api.PageQuery{Page: page}, Status: status})
}

func (s *Society) CreateRequest(ctx context.Context, form RequestForm) (*model.WorkRequest, error) {
	form = form.trimmed()
	if err := form.validate(); err != nil {
		return nil, err
	}
	return s.requests.Create(ctx, form.input())
}

// Details loads a request and its bids. Statistics are fetched alongside and
// never fail the screen.
func (s *Society) Details(ctx context.Context, requestID string) (*RequestDetails, error) {
	statsCh := make(chan api.StatisticsResult, 1)
	go func() {
		statsCh <- s.bids.Statistics(ctx, requestID)
	}()

	wr, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	bids, err := s.bids.ListForRequest(ctx, requestID, api.BidQuery{})
	if err != nil {
		return nil, err
	}

	stats := <-statsCh
	if stats.Failed() {
		logrus.WithError(stats.Err).WithField("request_id", requestID).Debug("Bid statistics unavailable")
	}
	return &RequestDetails{Request: wr, Bids: bids, Stats: stats}, nil
}

func (s *Society) AcceptBid(ctx context.Context, bidID string) (*model.Bid, error) {
	return s.bids.Accept(ctx, bidID)
}

func (s *Society) RejectBid(ctx context.Context, bidID, reason string) (*model.Bid, error) {
	return s.bids.Reject(ctx, bidID, reason)
}

func (s *Society) CancelRequest(ctx context.Context, requestID string) (*model.WorkRequest, error) {
	return s.requests.Cancel(ctx, requestID)
}

func (s *Society) DeleteRequest(ctx context.Context, requestID string) error {
	return s.requests.Delete(ctx, requestID)
}
