package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contractor_connect/internal/metrics"
	"contractor_connect/internal/model"
	"contractor_connect/internal/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrBidNotFound  = errors.New("bid not found")
	ErrOwnRequest   = errors.New("you cannot bid on your own request")
	ErrDuplicateBid = errors.New("you have already submitted a bid for this request")
)

// BidService defines operations for bids
type BidService interface {
	Submit(ctx context.Context, contractorID string, in model.SubmitBidInput) (*model.Bid, error)
	Get(ctx context.Context, id, userID, role string) (*model.Bid, error)
	ListMine(ctx context.Context, contractorID string, status *string, skip, limit int) ([]model.Bid, int, error)
	ListForRequest(ctx context.Context, requestID, userID, role string, skip, limit int) ([]model.Bid, int, error)
	Update(ctx context.Context, id, contractorID string, in model.UpdateBidInput) (*model.Bid, error)
	Accept(ctx context.Context, id, userID, role string) (*model.Bid, error)
	Reject(ctx context.Context, id, userID, role string, reason *string) (*model.Bid, error)
	Withdraw(ctx context.Context, id, contractorID string) (*model.Bid, error)
	Delete(ctx context.Context, id, contractorID string) error
	Statistics(ctx context.Context, requestID, userID, role string) (*model.BidStatistics, error)
}

type bidService struct {
	bids     repository.BidRepository
	requests repository.RequestRepository
}

// NewBidService creates a new BidService
func NewBidService(bids repository.BidRepository, requests repository.RequestRepository) BidService {
	return &bidService{bids: bids, requests: requests}
}

func (s *bidService) findRequest(ctx context.Context, id string) (*model.WorkRequest, error) {
	wr, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	if wr == nil {
		return nil, ErrRequestNotFound
	}
	return wr, nil
}

func (s *bidService) findBid(ctx context.Context, id string) (*model.Bid, error) {
	bid, err := s.bids.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find bid by ID: %w", err)
	}
	if bid == nil {
		return nil, ErrBidNotFound
	}
	return bid, nil
}

// Submit places a pending bid on an open request owned by someone else
func (s *bidService) Submit(ctx context.Context, contractorID string, in model.SubmitBidInput) (*model.Bid, error) {
	wr, err := s.findRequest(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if wr.Status != model.RequestStatusOpen {
		return nil, &StateError{Action: "bid on", Entity: "request", Status: wr.Status}
	}
	if wr.SocietyID == contractorID {
		return nil, ErrOwnRequest
	}

	exists, err := s.bids.HasActiveBid(ctx, in.RequestID, contractorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBid
	}

	bid := &model.Bid{
		RequestID:               in.RequestID,
		ContractorID:            contractorID,
		Amount:                  in.Amount,
		Proposal:                strings.TrimSpace(in.Proposal),
		EstimatedCompletionDays: in.EstimatedCompletionDays,
		Status:                  model.BidStatusPending,
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateBid
		}
		return nil, fmt.Errorf("failed to create bid in repo: %w", err)
	}

	logrus.WithFields(logrus.Fields{"bid_id": bid.ID, "request_id": bid.RequestID, "contractor_id": contractorID}).Info("Bid submitted")
	return s.reload(ctx, bid), nil
}

// reload returns the joined view of bid, or bid itself if the read fails
func (s *bidService) reload(ctx context.Context, bid *model.Bid) *model.Bid {
	fresh, err := s.bids.FindByID(ctx, bid.ID)
	if err != nil || fresh == nil {
		return bid
	}
	return fresh
}

// Get is allowed for the bidding contractor, the request's society and admins
func (s *bidService) Get(ctx context.Context, id, userID, role string) (*model.Bid, error) {
	bid, err := s.findBid(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == model.RoleAdmin || bid.ContractorID == userID {
		return bid, nil
	}
	wr, err := s.findRequest(ctx, bid.RequestID)
	if err != nil {
		return nil, err
	}
	if wr.SocietyID != userID {
		return nil, ErrForbidden
	}
	return bid, nil
}

func (s *bidService) ListMine(ctx context.Context, contractorID string, status *string, skip, limit int) ([]model.Bid, int, error) {
	bids, total, err := s.bids.ListByContractor(ctx, contractorID, status, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contractor bids: %w", err)
	}
	return bids, total, nil
}

func (s *bidService) ListForRequest(ctx context.Context, requestID, userID, role string, skip, limit int) ([]model.Bid, int, error) {
	if _, err := s.authorizeRequestOwner(ctx, requestID, userID, role); err != nil {
		return nil, 0, err
	}
	bids, total, err := s.bids.ListByRequest(ctx, requestID, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list request bids: %w", err)
	}
	return bids, total, nil
}

func (s *bidService) authorizeRequestOwner(ctx context.Context, requestID, userID, role string) (*model.WorkRequest, error) {
	wr, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && wr.SocietyID != userID {
		return nil, ErrForbidden
	}
	return wr, nil
}

// Update changes a pending bid; only its contractor may do so
func (s *bidService) Update(ctx context.Context, id, contractorID string, in model.UpdateBidInput) (*model.Bid, error) {
	bid, err := s.findBid(ctx, id)
	if err != nil {
		return nil, err
	}
	if bid.ContractorID != contractorID {
		return nil, ErrForbidden
	}
	if bid.Status != model.BidStatusPending {
		return nil, &StateError{Action: "update", Entity: "bid", Status: bid.Status}
	}

	if in.Amount != nil {
		bid.Amount = *in.Amount
	}
	if in.Proposal != nil {
		bid.Proposal = strings.TrimSpace(*in.Proposal)
	}
	if in.EstimatedCompletionDays != nil {
		bid.EstimatedCompletionDays = in.EstimatedCompletionDays
	}

	if err := s.bids.Update(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStateChanged
		}
		return nil, fmt.Errorf("failed to update bid in repo: %w", err)
	}
	return bid, nil
}

// Accept awards the request to the bid's contractor
func (s *bidService) Accept(ctx context.Context, id, userID, role string) (*model.Bid, error) {
	bid, err := s.findBid(ctx, id)
	if err != nil {
		return nil, err
	}
	wr, err := s.authorizeRequestOwner(ctx, bid.RequestID, userID, role)
	if err != nil {
		return nil, err
	}
	if bid.Status != model.BidStatusPending {
		return nil, &StateError{Action: "accept", Entity: "bid", Status: bid.Status}
	}
	if wr.Status != model.RequestStatusOpen {
		return nil, &StateError{Action: "accept bids on", Entity: "request", Status: wr.Status}
	}

	if err := s.bids.Accept(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStateChanged
		}
		return nil, err
	}

	metrics.RecordBidTransition(model.BidStatusAccepted)
	logrus.WithFields(logrus.Fields{"bid_id": bid.ID, "request_id": bid.RequestID}).Info("Bid accepted")
	return s.reload(ctx, bid), nil
}

func (s *bidService) Reject(ctx context.Context, id, userID, role string, reason *string) (*model.Bid, error) {
	bid, err := s.findBid(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeRequestOwner(ctx, bid.RequestID, userID, role); err != nil {
		return nil, err
	}
	if bid.Status != model.BidStatusPending {
		return nil, &StateError{Action: "reject", Entity: "bid", Status: bid.Status}
	}
	if err := s.transition(ctx, bid, model.BidStatusRejected, reason); err != nil {
		return nil, err
	}
	return bid, nil
}

// Withdraw retracts a pending bid; only its contractor may do so
func (s *bidService) Withdraw(ctx context.Context, id, contractorID string) (*model.Bid, error) {
	bid, err := s.findBid(ctx, id)
	if err != nil {
		return nil, err
	}
	if bid.ContractorID != contractorID {
		return nil, ErrForbidden
	}
	if bid.Status != model.BidStatusPending {
		return nil, &StateError{Action: "withdraw", Entity: "bid", Status: bid.Status}
	}
	if err := s.transition(ctx, bid, model.BidStatusWithdrawn, nil); err != nil {
		return nil, err
	}
	return bid, nil
}

func (s *bidService) transition(ctx context.Context, bid *model.Bid, to string, reason *string) error {
	if err := s.bids.Transition(ctx, bid.ID, bid.Status, to, reason); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrStateChanged
		}
		return err
	}
	metrics.RecordBidTransition(to)
	bid.Status = to
	if reason != nil {
		bid.RejectionReason = reason
	}
	return nil
}

func (s *bidService) Delete(ctx context.Context, id, contractorID string) error {
	bid, err := s.findBid(ctx, id)
	if err != nil {
		return err
	}
	if bid.ContractorID != contractorID {
		return ErrForbidden
	}
	if bid.Status == model.BidStatusAccepted {
		return &StateError{Action: "delete", Entity: "bid", Status: bid.Status}
	}
	if err := s.bids.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrStateChanged
		}
		return err
	}
	return nil
}

func (s *bidService) Statistics(ctx context.Context, requestID, userID, role string) (*model.BidStatistics, error) {
	if _, err := s.authorizeRequestOwner(ctx, requestID, userID, role); err != nil {
		return nil, err
	}
	return s.bids.Statistics(ctx, requestID)
}
