package service

import (
	"context"
	"time"

	"contractor_connect/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) user(args mock.Arguments) (*model.User, error) {
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return m.user(m.Called(ctx, phone))
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUserRepo) UpdateRegistration(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	return m.user(m.Called(ctx, id, req))
}

func (m *mockUserRepo) MarkVerifiedLogin(ctx context.Context, id string) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

type mockOTPRepo struct{ mock.Mock }

func (m *mockOTPRepo) Create(ctx context.Context, o *model.OTP) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOTPRepo) InvalidatePrevious(ctx context.Context, phone, purpose string) error {
	return m.Called(ctx, phone, purpose).Error(0)
}

func (m *mockOTPRepo) CountSince(ctx context.Context, phone string, since time.Time) (int, error) {
	args := m.Called(ctx, phone, since)
	return args.Int(0), args.Error(1)
}

func (m *mockOTPRepo) FindValid(ctx context.Context, phone, code, purpose string, now time.Time) (*model.OTP, error) {
	args := m.Called(ctx, phone, code, purpose, now)
	o, _ := args.Get(0).(*model.OTP)
	return o, args.Error(1)
}

func (m *mockOTPRepo) MarkUsed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOTPRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockOTPService struct{ mock.Mock }

func (m *mockOTPService) Issue(ctx context.Context, phone, purpose string, userID *string) (*model.OTP, error) {
	args := m.Called(ctx, phone, purpose, userID)
	o, _ := args.Get(0).(*model.OTP)
	return o, args.Error(1)
}

func (m *mockOTPService) Verify(ctx context.Context, phone, code, purpose string) (*model.OTP, error) {
	args := m.Called(ctx, phone, code, purpose)
	o, _ := args.Get(0).(*model.OTP)
	return o, args.Error(1)
}

func (m *mockOTPService) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOTPService) TTL() time.Duration {
	return 5 * time.Minute
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Send(ctx context.Context, phone, code, purpose string) error {
	return m.Called(ctx, phone, code, purpose).Error(0)
}

type mockRequestRepo struct{ mock.Mock }

func (m *mockRequestRepo) Create(ctx context.Context, wr *model.WorkRequest) error {
	return m.Called(ctx, wr).Error(0)
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*model.WorkRequest, error) {
	args := m.Called(ctx, id)
	wr, _ := args.Get(0).(*model.WorkRequest)
	return wr, args.Error(1)
}

func (m *mockRequestRepo) List(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error) {
	args := m.Called(ctx, filters)
	list, _ := args.Get(0).([]model.WorkRequest)
	return list, args.Int(1), args.Error(2)
}

func (m *mockRequestRepo) Update(ctx context.Context, wr *model.WorkRequest) error {
	return m.Called(ctx, wr).Error(0)
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	return m.Called(ctx, id, fromStatus, toStatus).Error(0)
}

func (m *mockRequestRepo) AppendImages(ctx context.Context, id string, urls []string) error {
	return m.Called(ctx, id, urls).Error(0)
}

func (m *mockRequestRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBidRepo struct{ mock.Mock }

func (m *mockBidRepo) Create(ctx context.Context, bid *model.Bid) error {
	return m.Called(ctx, bid).Error(0)
}

func (m *mockBidRepo) FindByID(ctx context.Context, id string) (*model.Bid, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Bid)
	return b, args.Error(1)
}

func (m *mockBidRepo) ListByContractor(ctx context.Context, contractorID string, status *string, skip, limit int) ([]model.Bid, int, error) {
	args := m.Called(ctx, contractorID, status, skip, limit)
	list, _ := args.Get(0).([]model.Bid)
	return list, args.Int(1), args.Error(2)
}

func (m *mockBidRepo) ListByRequest(ctx context.Context, requestID string, skip, limit int) ([]model.Bid, int, error) {
	args := m.Called(ctx, requestID, skip, limit)
	list, _ := args.Get(0).([]model.Bid)
	return list, args.Int(1), args.Error(2)
}

func (m *mockBidRepo) HasActiveBid(ctx context.Context, requestID, contractorID string) (bool, error) {
	args := m.Called(ctx, requestID, contractorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBidRepo) Update(ctx context.Context, bid *model.Bid) error {
	return m.Called(ctx, bid).Error(0)
}

func (m *mockBidRepo) Transition(ctx context.Context, id, fromStatus, toStatus string, reason *string) error {
	return m.Called(ctx, id, fromStatus, toStatus, reason).Error(0)
}

func (m *mockBidRepo) Accept(ctx context.Context, bid *model.Bid) error {
	return m.Called(ctx, bid).Error(0)
}

func (m *mockBidRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBidRepo) Statistics(ctx context.Context, requestID string) (*model.BidStatistics, error) {
	args := m.Called(ctx, requestID)
	s, _ := args.Get(0).(*model.BidStatistics)
	return s, args.Error(1)
}
