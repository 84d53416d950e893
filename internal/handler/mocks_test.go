package handler

import (
	"context"
	"mime/multipart"

	"contractor_connect/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) auth(args mock.Arguments) (*model.AuthResponse, error) {
	r, _ := args.Get(0).(*model.AuthResponse)
	return r, args.Error(1)
}

func (m *mockAuthService) Register(ctx context.Context, in model.RegisterInput) (*model.AuthResponse, error) {
	return m.auth(m.Called(ctx, in))
}

func (m *mockAuthService) RequestLoginOTP(ctx context.Context, phone string) (*model.AuthResponse, error) {
	return m.auth(m.Called(ctx, phone))
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error) {
	return m.auth(m.Called(ctx, phone, code))
}

func (m *mockAuthService) ResendOTP(ctx context.Context, phone string) (*model.MessageResponse, error) {
	args := m.Called(ctx, phone)
	r, _ := args.Get(0).(*model.MessageResponse)
	return r, args.Error(1)
}

func (m *mockAuthService) LoginWithPassword(ctx context.Context, phone, password string) (*model.AuthResponse, error) {
	return m.auth(m.Called(ctx, phone, password))
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	return m.auth(m.Called(ctx, refreshToken))
}

type mockRequestService struct{ mock.Mock }

func (m *mockRequestService) request(args mock.Arguments) (*model.WorkRequest, error) {
	wr, _ := args.Get(0).(*model.WorkRequest)
	return wr, args.Error(1)
}

func (m *mockRequestService) list(args mock.Arguments) ([]model.WorkRequest, int, error) {
	list, _ := args.Get(0).([]model.WorkRequest)
	return list, args.Int(1), args.Error(2)
}

func (m *mockRequestService) Create(ctx context.Context, societyID string, in model.CreateRequestInput) (*model.WorkRequest, error) {
	return m.request(m.Called(ctx, societyID, in))
}

func (m *mockRequestService) Get(ctx context.Context, id string) (*model.WorkRequest, error) {
	return m.request(m.Called(ctx, id))
}

func (m *mockRequestService) Browse(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error) {
	return m.list(m.Called(ctx, filters))
}

func (m *mockRequestService) ListMine(ctx context.Context, societyID string, status *string, skip, limit int) ([]model.WorkRequest, int, error) {
	return m.list(m.Called(ctx, societyID, status, skip, limit))
}

func (m *mockRequestService) ListAssigned(ctx context.Context, contractorID string, skip, limit int) ([]model.WorkRequest, int, error) {
	return m.list(m.Called(ctx, contractorID, skip, limit))
}

func (m *mockRequestService) Update(ctx context.Context, id, userID string, in model.UpdateRequestInput) (*model.WorkRequest, error) {
	return m.request(m.Called(ctx, id, userID, in))
}

func (m *mockRequestService) Cancel(ctx context.Context, id, userID, role string) (*model.WorkRequest, error) {
	return m.request(m.Called(ctx, id, userID, role))
}

func (m *mockRequestService) Delete(ctx context.Context, id, userID, role string) error {
	return m.Called(ctx, id, userID, role).Error(0)
}

func (m *mockRequestService) UploadImages(ctx context.Context, id, userID string, files []*multipart.FileHeader) ([]string, error) {
	args := m.Called(ctx, id, userID, files)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}

type mockBidService struct{ mock.Mock }

func (m *mockBidService) bid(args mock.Arguments) (*model.Bid, error) {
	b, _ := args.Get(0).(*model.Bid)
	return b, args.Error(1)
}

func (m *mockBidService) list(args mock.Arguments) ([]model.Bid, int, error) {
	list, _ := args.Get(0).([]model.Bid)
	return list, args.Int(1), args.Error(2)
}

func (m *mockBidService) Submit(ctx context.Context, contractorID string, in model.SubmitBidInput) (*model.Bid, error) {
	return m.bid(m.Called(ctx, contractorID, in))
}

func (m *mockBidService) Get(ctx context.Context, id, userID, role string) (*model.Bid, error) {
	return m.bid(m.Called(ctx, id, userID, role))
}

func (m *mockBidService) ListMine(ctx context.Context, contractorID string, status *string, skip, limit int) ([]model.Bid, int, error) {
	return m.list(m.Called(ctx, contractorID, status, skip, limit))
}

func (m *mockBidService) ListForRequest(ctx context.Context, requestID, userID, role string, skip, limit int) ([]model.Bid, int, error) {
	return m.list(m.Called(ctx, requestID, userID, role, skip, limit))
}

func (m *mockBidService) Update(ctx context.Context, id, contractorID string, in model.UpdateBidInput) (*model.Bid, error) {
	return m.bid(m.Called(ctx, id, contractorID, in))
}

func (m *mockBidService) Accept(ctx context.Context, id, userID, role string) (*model.Bid, error) {
	return m.bid(m.Called(ctx, id, userID, role))
}

func (m *mockBidService) Reject(ctx context.Context, id, userID, role string, reason *string) (*model.Bid, error) {
	return m.bid(m.Called(ctx, id, userID, role, reason))
}

func (m *mockBidService) Withdraw(ctx context.Context, id, contractorID string) (*model.Bid, error) {
	return m.bid(m.Called(ctx, id, contractorID))
}

func (m *mockBidService) Delete(ctx context.Context, id, contractorID string) error {
	return m.Called(ctx, id, contractorID).Error(0)
}

func (m *mockBidService) Statistics(ctx context.Context, requestID, userID, role string) (*model.BidStatistics, error) {
	args := m.Called(ctx, requestID, userID, role)
	s, _ := args.Get(0).(*model.BidStatistics)
	return s, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.User, error) {
	args := m.Called(ctx, userID, req)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}
