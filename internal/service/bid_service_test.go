package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"contractor_connect/internal/model"
	"contractor_connect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testProposal = strings.Repeat("We will complete the work with certified crew. ", 2)

func TestBidService_Submit(t *testing.T) {
	bids := &mockBidRepo{}
	requests := &mockRequestRepo{}
	ctx := context.Background()

	requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusOpen}, nil)
	bids.On("HasActiveBid", ctx, "r-1", "c-1").Return(false, nil)
	bids.On("Create", ctx, mock.MatchedBy(func(b *model.Bid) bool {
		return b.Status == model.BidStatusPending && b.Amount == 250000
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Bid).ID = "b-1"
	}).Return(nil)
	bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", Status: model.BidStatusPending, Contractor: &model.UserSummary{ID: "c-1"}}, nil)

	svc := NewBidService(bids, requests)
	bid, err := svc.Submit(ctx, "c-1", model.SubmitBidInput{RequestID: "r-1", Amount: 250000, Proposal: testProposal})

	require.NoError(t, err)
	assert.Equal(t, "b-1", bid.ID)
	require.NotNil(t, bid.Contractor)
	bids.AssertExpectations(t)
}

func TestBidService_Submit_Rejections(t *testing.T) {
	ctx := context.Background()
	in := model.SubmitBidInput{RequestID: "r-1", Amount: 100, Proposal: testProposal}

	t.Run("closed request", func(t *testing.T) {
		requests := &mockRequestRepo{}
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusInProgress}, nil)

		_, err := NewBidService(&mockBidRepo{}, requests).Submit(ctx, "c-1", in)

		var stateErr *StateError
		require.True(t, errors.As(err, &stateErr))
		assert.Equal(t, "cannot bid on request with status in_progress", err.Error())
	})

	t.Run("own request", func(t *testing.T) {
		requests := &mockRequestRepo{}
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "c-1", Status: model.RequestStatusOpen}, nil)

		_, err := NewBidService(&mockBidRepo{}, requests).Submit(ctx, "c-1", in)

		assert.ErrorIs(t, err, ErrOwnRequest)
	})

	t.Run("duplicate", func(t *testing.T) {
		requests := &mockRequestRepo{}
		bids := &mockBidRepo{}
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusOpen}, nil)
		bids.On("HasActiveBid", ctx, "r-1", "c-1").Return(true, nil)

		_, err := NewBidService(bids, requests).Submit(ctx, "c-1", in)

		assert.ErrorIs(t, err, ErrDuplicateBid)
		bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate lost race on insert", func(t *testing.T) {
		requests := &mockRequestRepo{}
		bids := &mockBidRepo{}
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusOpen}, nil)
		bids.On("HasActiveBid", ctx, "r-1", "c-1").Return(false, nil)
		bids.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

		_, err := NewBidService(bids, requests).Submit(ctx, "c-1", in)

		assert.ErrorIs(t, err, ErrDuplicateBid)
	})

	t.Run("missing request", func(t *testing.T) {
		requests := &mockRequestRepo{}
		requests.On("FindByID", ctx, "r-1").Return((*model.WorkRequest)(nil), nil)

		_, err := NewBidService(&mockBidRepo{}, requests).Submit(ctx, "c-1", in)

		assert.ErrorIs(t, err, ErrRequestNotFound)
	})
}

func TestBidService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("pending bid", func(t *testing.T) {
		bids := &mockBidRepo{}
		bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", ContractorID: "c-1", Status: model.BidStatusPending}, nil)
		bids.On("Transition", ctx, "b-1", model.BidStatusPending, model.BidStatusWithdrawn, (*string)(nil)).Return(nil)

		bid, err := NewBidService(bids, &mockRequestRepo{}).Withdraw(ctx, "b-1", "c-1")

		require.NoError(t, err)
		assert.Equal(t, model.BidStatusWithdrawn, bid.Status)
		bids.AssertExpectations(t)
	})

	t.Run("accepted bid", func(t *testing.T) {
		bids := &mockBidRepo{}
		bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", ContractorID: "c-1", Status: model.BidStatusAccepted}, nil)

		_, err := NewBidService(bids, &mockRequestRepo{}).Withdraw(ctx, "b-1", "c-1")

		var stateErr *StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "cannot withdraw bid with status accepted", err.Error())
		bids.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("someone else's bid", func(t *testing.T) {
		bids := &mockBidRepo{}
		bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", ContractorID: "c-2", Status: model.BidStatusPending}, nil)

		_, err := NewBidService(bids, &mockRequestRepo{}).Withdraw(ctx, "b-1", "c-1")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("concurrent change", func(t *testing.T) {
		bids := &mockBidRepo{}
		bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", ContractorID: "c-1", Status: model.BidStatusPending}, nil)
		bids.On("Transition", ctx, "b-1", model.BidStatusPending, model.BidStatusWithdrawn, (*string)(nil)).Return(repository.ErrConflict)

		_, err := NewBidService(bids, &mockRequestRepo{}).Withdraw(ctx, "b-1", "c-1")

		assert.ErrorIs(t, err, ErrStateChanged)
	})
}

func TestBidService_Accept(t *testing.T) {
	ctx := context.Background()
	pending := func() *model.Bid {
		return &model.Bid{ID: "b-1", RequestID: "r-1", ContractorID: "c-1", Status: model.BidStatusPending}
	}

	t.Run("by owning society", func(t *testing.T) {
		bids := &mockBidRepo{}
		requests := &mockRequestRepo{}
		bids.On("FindByID", ctx, "b-1").Return(pending(), nil).Once()
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusOpen}, nil)
		bids.On("Accept", ctx, mock.AnythingOfType("*model.Bid")).Return(nil)
		bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", Status: model.BidStatusAccepted}, nil).Once()

		bid, err := NewBidService(bids, requests).Accept(ctx, "b-1", "s-1", model.RoleSociety)

		require.NoError(t, err)
		assert.Equal(t, model.BidStatusAccepted, bid.Status)
		bids.AssertExpectations(t)
	})

	t.Run("by another society", func(t *testing.T) {
		bids := &mockBidRepo{}
		requests := &mockRequestRepo{}
		bids.On("FindByID", ctx, "b-1").Return(pending(), nil)
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusOpen}, nil)

		_, err := NewBidService(bids, requests).Accept(ctx, "b-1", "s-2", model.RoleSociety)

		assert.ErrorIs(t, err, ErrForbidden)
		bids.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
	})

	t.Run("request already assigned", func(t *testing.T) {
		bids := &mockBidRepo{}
		requests := &mockRequestRepo{}
		bids.On("FindByID", ctx, "b-1").Return(pending(), nil)
		requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1", Status: model.RequestStatusInProgress}, nil)

		_, err := NewBidService(bids, requests).Accept(ctx, "b-1", "s-1", model.RoleSociety)

		assert.EqualError(t, err, "cannot accept bids on request with status in_progress")
	})
}

func TestBidService_Reject(t *testing.T) {
	bids := &mockBidRepo{}
	requests := &mockRequestRepo{}
	ctx := context.Background()
	reason := "Budget too high"

	bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", RequestID: "r-1", Status: model.BidStatusPending}, nil)
	requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1"}, nil)
	bids.On("Transition", ctx, "b-1", model.BidStatusPending, model.BidStatusRejected, &reason).Return(nil)

	bid, err := NewBidService(bids, requests).Reject(ctx, "b-1", "s-1", model.RoleSociety, &reason)

	require.NoError(t, err)
	assert.Equal(t, model.BidStatusRejected, bid.Status)
	assert.Equal(t, &reason, bid.RejectionReason)
}

func TestBidService_Get_Authorization(t *testing.T) {
	ctx := context.Background()
	bids := &mockBidRepo{}
	requests := &mockRequestRepo{}
	bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", RequestID: "r-1", ContractorID: "c-1"}, nil)
	requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1"}, nil)
	svc := NewBidService(bids, requests)

	_, err := svc.Get(ctx, "b-1", "c-1", model.RoleContractor)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "b-1", "s-1", model.RoleSociety)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "b-1", "c-2", model.RoleContractor)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, "b-1", "a-1", model.RoleAdmin)
	assert.NoError(t, err)
}

func TestBidService_Delete_Accepted(t *testing.T) {
	bids := &mockBidRepo{}
	ctx := context.Background()
	bids.On("FindByID", ctx, "b-1").Return(&model.Bid{ID: "b-1", ContractorID: "c-1", Status: model.BidStatusAccepted}, nil)

	err := NewBidService(bids, &mockRequestRepo{}).Delete(ctx, "b-1", "c-1")

	assert.EqualError(t, err, "cannot delete bid with status accepted")
}

func TestBidService_Statistics(t *testing.T) {
	bids := &mockBidRepo{}
	requests := &mockRequestRepo{}
	ctx := context.Background()
	avg := 1500.0

	requests.On("FindByID", ctx, "r-1").Return(&model.WorkRequest{ID: "r-1", SocietyID: "s-1"}, nil)
	bids.On("Statistics", ctx, "r-1").Return(&model.BidStatistics{TotalBids: 2, PendingBids: 2, AverageAmount: &avg}, nil)
	svc := NewBidService(bids, requests)

	stats, err := svc.Statistics(ctx, "r-1", "s-1", model.RoleSociety)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBids)

	_, err = svc.Statistics(ctx, "r-1", "c-1", model.RoleContractor)
	assert.ErrorIs(t, err, ErrForbidden)
}
