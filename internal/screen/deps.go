package screen

import (
	"context"

	"contractor_connect/internal/api"
	"contractor_connect/internal/model"
)

// AuthAPI is satisfied by *api.AuthAPI
type AuthAPI interface {
	Register(ctx context.Context, input model.RegisterInput) (*model.AuthResponse, error)
	RequestLoginOTP(ctx context.Context, phone string) (*model.AuthResponse, error)
	LoginWithPassword(ctx context.Context, phone, password string) (*model.AuthResponse, error)
	VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error)
	ResendOTP(ctx context.Context, phone string) (*model.MessageResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error)
	Logout(ctx context.Context)
}

// RequestsAPI is satisfied by *api.RequestsAPI
type RequestsAPI interface {
	ListMine(ctx context.Context, q api.RequestQuery) (model.Page[model.WorkRequest], error)
	ListBrowse(ctx context.Context, q api.RequestQuery) (model.Page[model.WorkRequest], error)
	ListAssigned(ctx context.Context, q api.RequestQuery) (model.Page[model.WorkRequest], error)
	Get(ctx context.Context, id string) (*model.WorkRequest, error)
	Create(ctx context.Context, input model.CreateRequestInput) (*model.WorkRequest, error)
	Cancel(ctx context.Context, id string) (*model.WorkRequest, error)
	Delete(ctx context.Context, id string) error
}

// BidsAPI is satisfied by *api.BidsAPI
type BidsAPI interface {
	ListMine(ctx context.Context, q api.BidQuery) (model.Page[model.Bid], error)
	ListForRequest(ctx context.Context, requestID string, q api.BidQuery) (model.Page[model.Bid], error)
	Submit(ctx context.Context, input model.SubmitBidInput) (*model.Bid, error)
	Withdraw(ctx context.Context, id string) (*model.Bid, error)
	Accept(ctx context.Context, id string) (*model.Bid, error)
	Reject(ctx context.Context, id, reason string) (*model.Bid, error)
	Statistics(ctx context.Context, requestID string) api.StatisticsResult
}

// UsersAPI is satisfied by *api.UsersAPI
type UsersAPI interface {
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, input model.UpdateProfileRequest) (*model.User, error)
}
