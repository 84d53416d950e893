package screen

import (
	"context"

	"contractor_connect/internal/api"
	"contractor_connect/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Register(ctx context.Context, input model.RegisterInput) (*model.AuthResponse, error) {
	args := m.Called(ctx, input)
	resp, _ := args.Get(0).(*model.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) RequestLoginOTP(ctx context.Context, phone string) (*model.AuthResponse, error) {
	args := m.Called(ctx, phone)
	resp, _ := args.Get(0).(*model.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) LoginWithPassword(ctx context.Context, phone, password string) (*model.AuthResponse, error) {
	args := m.Called(ctx, phone, password)
	resp, _ := args.Get(0).(*model.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error) {
	args := m.Called(ctx, phone, code)
	resp, _ := args.Get(0).(*model.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) ResendOTP(ctx context.Context, phone string) (*model.MessageResponse, error) {
	args := m.Called(ctx, phone)
	resp, _ := args.Get(0).(*model.MessageResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	resp, _ := args.Get(0).(*model.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) Logout(ctx context.Context) {
	m.Called(ctx)
}

type mockRequestsAPI struct {
	mock.Mock
}

func (m *mockRequestsAPI) ListMine(ctx context.Context, q api.RequestQuery) (model.Page[model.WorkRequest], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.WorkRequest]), args.Error(1)
}

func (m *mockRequestsAPI) ListBrowse(ctx context.Context, q api.RequestQuery) (model.Page[model.WorkRequest], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.WorkRequest]), args.Error(1)
}

func (m *mockRequestsAPI) ListAssigned(ctx context.Context, q api.RequestQuery) (model.Page[model.WorkRequest], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.WorkRequest]), args.Error(1)
}

func (m *mockRequestsAPI) Get(ctx context.Context, id string) (*model.WorkRequest, error) {
	args := m.Called(ctx, id)
	wr, _ := args.Get(0).(*model.WorkRequest)
	return wr, args.Error(1)
}

func (m *mockRequestsAPI) Create(ctx context.Context, input model.CreateRequestInput) (*model.WorkRequest, error) {
	args := m.Called(ctx, input)
	wr, _ := args.Get(0).(*model.WorkRequest)
	return wr, args.Error(1)
}

func (m *mockRequestsAPI) Cancel(ctx context.Context, id string) (*model.WorkRequest, error) {
	args := m.Called(ctx, id)
	wr, _ := args.Get(0).(*model.WorkRequest)
	return wr, args.Error(1)
}

func (m *mockRequestsAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBidsAPI struct {
	mock.Mock
}

func (m *mockBidsAPI) ListMine(ctx context.Context, q api.BidQuery) (model.Page[model.Bid], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.Bid]), args.Error(1)
}

func (m *mockBidsAPI) ListForRequest(ctx context.Context, requestID string, q api.BidQuery) (model.Page[model.Bid], error) {
	args := m.Called(ctx, requestID, q)
	return args.Get(0).(model.Page[model.Bid]), args.Error(1)
}

func (m *mockBidsAPI) Submit(ctx context.Context, input model.SubmitBidInput) (*model.Bid, error) {
	args := m.Called(ctx, input)
	bid, _ := args.Get(0).(*model.Bid)
	return bid, args.Error(1)
}

func (m *mockBidsAPI) Withdraw(ctx context.Context, id string) (*model.Bid, error) {
	args := m.Called(ctx, id)
	bid, _ := args.Get(0).(*model.Bid)
	return bid, args.Error(1)
}

func (m *mockBidsAPI) Accept(ctx context.Context, id string) (*model.Bid, error) {
	args := m.Called(ctx, id)
	bid, _ := args.Get(0).(*model.Bid)
	return bid, args.Error(1)
}

func (m *mockBidsAPI) Reject(ctx context.Context, id, reason string) (*model.Bid, error) {
	args := m.Called(ctx, id, reason)
	bid, _ := args.Get(0).(*model.Bid)
	return bid, args.Error(1)
}

func (m *mockBidsAPI) Statistics(ctx context.Context, requestID string) api.StatisticsResult {
	return m.Called(ctx, requestID).Get(0).(api.StatisticsResult)
}

type mockUsersAPI struct {
	mock.Mock
}

func (m *mockUsersAPI) Profile(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUsersAPI) UpdateProfile(ctx context.Context, input model.UpdateProfileRequest) (*model.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}
